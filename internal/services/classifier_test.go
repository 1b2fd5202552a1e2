package services

import (
	"testing"
	"time"

	"billing-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func monthDate(month time.Month) time.Time {
	return time.Date(2025, month, 15, 0, 0, 0, 0, time.UTC)
}

func TestClassifyDebt_FirstMonthlyPaymentIsCurrent(t *testing.T) {
	annual := decimal.NewFromInt(1200)
	balance := decimal.NewFromInt(1100) // one 100.00 installment paid

	status := ClassifyDebt(balance, annual, monthDate(time.January))

	assert.Equal(t, models.DebtStatusCurrent, status, "monthsPaid=1 vs monthsExpected=1 should be current")
}

func TestClassifyDebt_SixMonthsPaidEvaluatedInSeptemberIsBehind(t *testing.T) {
	annual := decimal.NewFromInt(1200)
	balance := decimal.NewFromInt(600) // 6 installments paid

	status := ClassifyDebt(balance, annual, monthDate(time.September))

	// monthsPaid=6: below 9-0.5 but at least 9/2=4.5.
	assert.Equal(t, models.DebtStatusBehind, status)
}

func TestClassifyDebt_ZeroBalanceAlwaysSettled(t *testing.T) {
	annual := decimal.NewFromInt(1200)

	for month := time.January; month <= time.December; month++ {
		status := ClassifyDebt(decimal.Zero, annual, monthDate(month))
		assert.Equal(t, models.DebtStatusSettled, status, "month %s", month)
	}
}

func TestClassifyDebt_NegativeBalanceSettled(t *testing.T) {
	status := ClassifyDebt(decimal.NewFromInt(-50), decimal.NewFromInt(1200), monthDate(time.June))
	assert.Equal(t, models.DebtStatusSettled, status)
}

func TestClassifyDebt_NoPlanOwingIsDelinquent(t *testing.T) {
	status := ClassifyDebt(decimal.NewFromInt(100), decimal.Zero, monthDate(time.January))
	assert.Equal(t, models.DebtStatusDelinquent, status)
}

func TestClassifyDebt_NothingPaidIsDelinquent(t *testing.T) {
	annual := decimal.NewFromInt(1200)

	status := ClassifyDebt(annual, annual, monthDate(time.January))

	assert.Equal(t, models.DebtStatusDelinquent, status)
}

func TestClassifyDebt_ResidualCentInDecemberStaysCurrent(t *testing.T) {
	// Rounding residue can leave a tiny balance with a full year's pace paid.
	annual := decimal.RequireFromString("1200.00")
	balance := decimal.RequireFromString("0.01")

	status := ClassifyDebt(balance, annual, monthDate(time.December))

	// monthsPaid=11.9999 is just under twelve; pace tolerance makes it current.
	assert.Equal(t, models.DebtStatusCurrent, status)
}

func TestClassifyDebt_HalfMonthToleranceBoundary(t *testing.T) {
	annual := decimal.NewFromInt(1200)

	// monthsPaid = 2.5 exactly, monthsExpected = 3: 2.5 >= 3-0.5.
	current := ClassifyDebt(decimal.NewFromInt(950), annual, monthDate(time.March))
	assert.Equal(t, models.DebtStatusCurrent, current)

	// monthsPaid = 2.4, just under the tolerance but above 3/2.
	behind := ClassifyDebt(decimal.NewFromInt(960), annual, monthDate(time.March))
	assert.Equal(t, models.DebtStatusBehind, behind)
}

func TestClassifyDebt_FarBehindIsDelinquent(t *testing.T) {
	annual := decimal.NewFromInt(1200)

	// monthsPaid = 1, monthsExpected = 9, below 4.5.
	status := ClassifyDebt(decimal.NewFromInt(1100), annual, monthDate(time.September))

	assert.Equal(t, models.DebtStatusDelinquent, status)
}

func TestClassifyDebt_IsPureOverItsInputs(t *testing.T) {
	annual := decimal.NewFromInt(1200)
	balance := decimal.NewFromInt(600)
	at := monthDate(time.September)

	first := ClassifyDebt(balance, annual, at)
	second := ClassifyDebt(balance, annual, at)

	assert.Equal(t, first, second)
}
