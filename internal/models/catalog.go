package models

import (
	"github.com/shopspring/decimal"
)

// ServicePlan is the tariff catalog: each plan carries the annual cost
// billed to accounts subscribed to it.
type ServicePlan struct {
	ID         int64           `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	AnnualCost decimal.Decimal `json:"annual_cost" db:"annual_cost"`
}

// Discount is a collector-applied deduction. The stored value is a FIXED
// money amount, not a percentage, even though the legacy column is named
// "percentage"; the behavior is preserved as observed in production data.
type Discount struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	FixedAmount decimal.Decimal `json:"fixed_amount" db:"fixed_amount"`
	Active      bool            `json:"active" db:"active"`
}

// ChargeType catalogs one-time charge kinds. Automatic types are created
// by the system (annual closure carry-overs, new connection fees) rather
// than by collectors.
type ChargeType struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	NominalAmount decimal.Decimal `json:"nominal_amount" db:"nominal_amount"`
	Automatic     bool            `json:"automatic" db:"automatic"`
}

// System charge type names seeded at startup.
const (
	ChargeTypeAnnualClosure = "ANNUAL_CLOSURE"
	ChargeTypeNewConnection = "NEW_CONNECTION"
)
