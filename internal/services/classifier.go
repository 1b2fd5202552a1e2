package services

import (
	"time"

	"billing-service/internal/models"

	"github.com/shopspring/decimal"
)

var (
	twelve = decimal.NewFromInt(12)
	half   = decimal.RequireFromString("0.5")
	two    = decimal.NewFromInt(2)
)

// ClassifyDebt maps an account's balance, annual tariff and a reference
// date to its debt status. It is a pure function over its inputs and a
// continuous approximation of payment pace: rather than tracking which
// calendar months were actually paid, it compares paid-so-far against
// how many monthly installments the reference month calls for, with a
// half-month tolerance absorbing same-day timing noise.
//
// The reference date is the operation's effective date, not wall-clock
// now, so backdated payments classify against their own month.
func ClassifyDebt(balance, annualCost decimal.Decimal, referenceDate time.Time) models.DebtStatus {
	if balance.Sign() <= 0 {
		return models.DebtStatusSettled
	}
	// No plan means progress cannot be computed; treated as worst case.
	if annualCost.Sign() <= 0 {
		return models.DebtStatusDelinquent
	}

	totalPaid := annualCost.Sub(balance)
	if totalPaid.Sign() <= 0 {
		return models.DebtStatusDelinquent
	}

	// monthsPaid = totalPaid / (annualCost / 12), kept real-valued.
	monthsPaid := totalPaid.Mul(twelve).Div(annualCost)
	monthsExpected := decimal.NewFromInt(int64(referenceDate.Month()))

	switch {
	case monthsPaid.GreaterThanOrEqual(twelve):
		return models.DebtStatusSettled
	case monthsPaid.GreaterThanOrEqual(monthsExpected.Sub(half)):
		return models.DebtStatusCurrent
	case monthsPaid.GreaterThanOrEqual(monthsExpected.Div(two)):
		return models.DebtStatusBehind
	default:
		return models.DebtStatusDelinquent
	}
}
