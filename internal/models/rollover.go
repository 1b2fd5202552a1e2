package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RolloverMarker is the singleton-per-year row guarding the annual
// rollover. It is locked FOR UPDATE at rollover start; once Executed is
// true, re-running the rollover for that year is rejected.
type RolloverMarker struct {
	ID          int64      `json:"id" db:"id"`
	Year        int        `json:"year" db:"year"`
	Executed    bool       `json:"executed" db:"executed"`
	ExecutedAt  *time.Time `json:"executed_at,omitempty" db:"executed_at"`
	CollectorID *int64     `json:"collector_id,omitempty" db:"collector_id"`
}

// RolloverResult summarizes a completed rollover run.
type RolloverResult struct {
	Year              int             `json:"year"`
	AccountsProcessed int             `json:"accounts_processed"`
	ChargesCreated    int             `json:"charges_created"`
	AdvanceNetted     int             `json:"advance_netted"`
	CarryOverTotal    decimal.Decimal `json:"carry_over_total"`
}

// RolloverPreview is the non-mutating dry run shown to the operator
// before the rollover is confirmed.
type RolloverPreview struct {
	Year            int             `json:"year"`
	ResetAccounts   int             `json:"reset_accounts"`
	OwingAccounts   int             `json:"owing_accounts"`
	TariffLiability decimal.Decimal `json:"tariff_liability"`
	AdvancePaid     int             `json:"advance_paid_accounts"`
	CarryOverTotal  decimal.Decimal `json:"carry_over_total"`
}
