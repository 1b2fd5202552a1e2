package models

import (
	"github.com/shopspring/decimal"
)

type RecordPaymentRequest struct {
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	DiscountID  *int64          `json:"discount_id,omitempty"`
	PaymentDate string          `json:"payment_date"` // YYYY-MM-DD, defaults to today
	Month       *int            `json:"month,omitempty"`
	Year        *int            `json:"year,omitempty"`
	Note        string          `json:"note,omitempty"`
}

type RecordPaymentResult struct {
	Payment    TariffPayment   `json:"payment"`
	NewBalance decimal.Decimal `json:"new_balance"`
	DebtStatus DebtStatus      `json:"debt_status"`
}

type PayChargesRequest struct {
	AccountID int64           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
}

// ChargeAllocation is one entry of the allocation trail returned to the
// collector: how much landed on which charge and whether it settled it.
type ChargeAllocation struct {
	PaymentID string          `json:"payment_id"`
	ChargeID  int64           `json:"charge_id"`
	Applied   decimal.Decimal `json:"applied"`
	Settled   bool            `json:"settled"`
}

type PayChargesResult struct {
	AmountReceived decimal.Decimal    `json:"amount_received"`
	Allocations    []ChargeAllocation `json:"allocations"`
	RemainingDebt  decimal.Decimal    `json:"remaining_debt"`
}

type CreateAccountRequest struct {
	ContractNumber int64  `json:"contract_number"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Street         string `json:"street"`
	StreetNumber   int    `json:"street_number"`
	Phone          string `json:"phone"`
	Neighborhood   string `json:"neighborhood"`
	ServicePlanID  *int64 `json:"service_plan_id,omitempty"`
	NewConnection  bool   `json:"new_connection,omitempty"`
}

type UpdateAccountRequest struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Street       *string `json:"street,omitempty"`
	StreetNumber *int    `json:"street_number,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
}

type CreateChargeRequest struct {
	AccountID    int64            `json:"account_id"`
	ChargeTypeID int64            `json:"charge_type_id"`
	Amount       *decimal.Decimal `json:"amount,omitempty"` // defaults to the type's nominal amount
	ChargeDate   string           `json:"charge_date"`      // YYYY-MM-DD, defaults to today
}

type RolloverRequest struct {
	ClosingYear int  `json:"closing_year"`
	NewYear     int  `json:"new_year"`
	Confirm     bool `json:"confirm"`
}

// DebtorSummary aggregates the account population by debt status.
type DebtorSummary struct {
	Counts           map[DebtStatus]int `json:"counts"`
	TotalOutstanding decimal.Decimal    `json:"total_outstanding"`
	TotalChargeDebt  decimal.Decimal    `json:"total_charge_debt"`
}
