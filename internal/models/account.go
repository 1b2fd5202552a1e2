package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus is the denormalized debt classification of an account.
// It is a cache of the classifier output: every code path that changes
// the balance must recompute it in the same transaction.
type DebtStatus string

const (
	DebtStatusSettled    DebtStatus = "settled"
	DebtStatusCurrent    DebtStatus = "current"
	DebtStatusBehind     DebtStatus = "behind"
	DebtStatusDelinquent DebtStatus = "delinquent"
)

func (s DebtStatus) Valid() bool {
	switch s {
	case DebtStatusSettled, DebtStatusCurrent, DebtStatusBehind, DebtStatusDelinquent:
		return true
	}
	return false
}

type Account struct {
	ID             int64           `json:"id" db:"id"`
	ContractNumber int64           `json:"contract_number" db:"contract_number"`
	FirstName      string          `json:"first_name" db:"first_name"`
	LastName       string          `json:"last_name" db:"last_name"`
	Street         string          `json:"street" db:"street"`
	StreetNumber   int             `json:"street_number" db:"street_number"`
	Phone          string          `json:"phone" db:"phone"`
	Neighborhood   string          `json:"neighborhood" db:"neighborhood"`
	ServicePlanID  *int64          `json:"service_plan_id,omitempty" db:"service_plan_id"`
	Balance        decimal.Decimal `json:"balance" db:"balance"`
	DebtStatus     DebtStatus      `json:"debt_status" db:"debt_status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// AccountWithPlan is the join row used by paths that need the tariff
// alongside the balance (payment ledger, rollover).
type AccountWithPlan struct {
	Account
	PlanAnnualCost *decimal.Decimal `db:"plan_annual_cost"`
}

// AnnualCost returns the plan's annual tariff, zero when the account has
// no service plan assigned.
func (a *AccountWithPlan) AnnualCost() decimal.Decimal {
	if a.PlanAnnualCost == nil {
		return decimal.Zero
	}
	return *a.PlanAnnualCost
}
