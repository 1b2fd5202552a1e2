package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TariffPayment is an immutable record of a periodic-service payment.
// Month and Year are derived from PaymentDate inside the ledger; they are
// never accepted from the caller without a consistency check.
type TariffPayment struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	AccountID      int64           `json:"account_id" db:"account_id"`
	CollectorID    int64           `json:"collector_id" db:"collector_id"`
	DiscountID     *int64          `json:"discount_id,omitempty" db:"discount_id"`
	PaymentDate    time.Time       `json:"payment_date" db:"payment_date"`
	AmountReceived decimal.Decimal `json:"amount_received" db:"amount_received"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	Month          int             `json:"month" db:"month"`
	Year           int             `json:"year" db:"year"`
	Note           string          `json:"note" db:"note"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// NetAmount is what the account actually handed over: the received amount
// without the fixed discount credited on top of it.
func (p *TariffPayment) NetAmount() decimal.Decimal {
	return p.AmountReceived.Sub(p.DiscountAmount)
}

// ChargePayment traces how much of one lump sum landed on one charge.
// ChargeID is nullable defensively; the allocator always sets it.
type ChargePayment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	AccountID   int64           `json:"account_id" db:"account_id"`
	ChargeID    *int64          `json:"charge_id,omitempty" db:"charge_id"`
	CollectorID int64           `json:"collector_id" db:"collector_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
	Note        string          `json:"note" db:"note"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
