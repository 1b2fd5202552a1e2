package services

import (
	"testing"
	"time"

	"billing-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTariffPaymentNetAmount(t *testing.T) {
	payment := models.TariffPayment{
		AmountReceived: decimal.RequireFromString("100.00"),
		DiscountAmount: decimal.RequireFromString("15.00"),
	}

	assert.True(t, payment.NetAmount().Equal(decimal.RequireFromString("85.00")))
}

func TestSettleAgainstBalance_PlainPayment(t *testing.T) {
	balance := decimal.RequireFromString("1200.00")
	amount := decimal.RequireFromString("100.00")

	newBalance := settleAgainstBalance(balance, amount, decimal.Zero)

	assert.True(t, newBalance.Equal(decimal.RequireFromString("1100.00")))
}

func TestSettleAgainstBalance_DiscountDeductsOnTop(t *testing.T) {
	balance := decimal.RequireFromString("1200.00")
	amount := decimal.RequireFromString("100.00")
	discount := decimal.RequireFromString("50.00")

	newBalance := settleAgainstBalance(balance, amount, discount)

	assert.True(t, newBalance.Equal(decimal.RequireFromString("1050.00")))
}

func TestSettleAgainstBalance_OverpaymentFloorsAtZero(t *testing.T) {
	balance := decimal.RequireFromString("50.00")
	amount := decimal.RequireFromString("100.00")

	newBalance := settleAgainstBalance(balance, amount, decimal.Zero)

	assert.True(t, newBalance.IsZero())
}

func TestSettleAgainstBalance_RoundsHalfUpToCent(t *testing.T) {
	balance := decimal.RequireFromString("100.00")
	amount := decimal.RequireFromString("33.335")

	newBalance := settleAgainstBalance(balance, amount, decimal.Zero)

	assert.True(t, newBalance.Equal(decimal.RequireFromString("66.67")),
		"got %s", newBalance)
}

func TestResolveEffectiveDate_ParsesExplicitDate(t *testing.T) {
	date, err := resolveEffectiveDate("2025-03-15")

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), date)
}

func TestResolveEffectiveDate_EmptyDefaultsToTodayMidnight(t *testing.T) {
	date, err := resolveEffectiveDate("")

	assert.NoError(t, err)
	now := time.Now()
	assert.Equal(t, now.Year(), date.Year())
	assert.Equal(t, now.Month(), date.Month())
	assert.Equal(t, 0, date.Hour())
}

func TestResolveEffectiveDate_RejectsBadFormat(t *testing.T) {
	_, err := resolveEffectiveDate("15/03/2025")

	assert.True(t, IsValidation(err))
}
