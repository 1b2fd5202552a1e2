package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Charge is a one-time debt item distinct from the recurring tariff.
// RemainingBalance only ever decreases; when it reaches zero the charge
// is deactivated and excluded from allocation and from the
// outstanding-charges gate on tariff payments.
type Charge struct {
	ID               int64           `json:"id" db:"id"`
	AccountID        int64           `json:"account_id" db:"account_id"`
	ChargeTypeID     int64           `json:"charge_type_id" db:"charge_type_id"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance" db:"remaining_balance"`
	ChargeDate       time.Time       `json:"charge_date" db:"charge_date"`
	Active           bool            `json:"active" db:"active"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}
