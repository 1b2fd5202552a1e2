package services

import (
	"context"
	"testing"
	"time"

	"billing-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func chargeWithRemaining(id int64, remaining string, day int) models.Charge {
	amount := decimal.RequireFromString(remaining)
	return models.Charge{
		ID:               id,
		AccountID:        1,
		Amount:           amount,
		RemainingBalance: amount,
		ChargeDate:       time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC),
		Active:           true,
	}
}

func TestAllocateAcrossCharges_ExactSettleSingleCharge(t *testing.T) {
	charges := []models.Charge{chargeWithRemaining(1, "500.00", 1)}

	steps := allocateAcrossCharges(charges, decimal.RequireFromString("500.00"))

	assert.Len(t, steps, 1)
	assert.True(t, steps[0].Applied.Equal(decimal.RequireFromString("500.00")))
	assert.True(t, steps[0].NewRemaining.IsZero())
	assert.True(t, steps[0].Settled)
}

func TestAllocateAcrossCharges_PartialLeavesChargeActive(t *testing.T) {
	charges := []models.Charge{chargeWithRemaining(1, "500.00", 1)}

	steps := allocateAcrossCharges(charges, decimal.RequireFromString("200.00"))

	assert.Len(t, steps, 1)
	assert.True(t, steps[0].Applied.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, steps[0].NewRemaining.Equal(decimal.RequireFromString("300.00")))
	assert.False(t, steps[0].Settled)
}

func TestAllocateAcrossCharges_OldestFirstThenPartial(t *testing.T) {
	charges := []models.Charge{
		chargeWithRemaining(3, "300.00", 1),
		chargeWithRemaining(1, "200.00", 10),
		chargeWithRemaining(2, "100.00", 20),
	}

	steps := allocateAcrossCharges(charges, decimal.RequireFromString("450.00"))

	assert.Len(t, steps, 2, "third charge should never be touched")

	assert.Equal(t, 0, steps[0].ChargeIndex)
	assert.True(t, steps[0].Settled)
	assert.True(t, steps[0].Applied.Equal(decimal.RequireFromString("300.00")))

	assert.Equal(t, 1, steps[1].ChargeIndex)
	assert.False(t, steps[1].Settled)
	assert.True(t, steps[1].Applied.Equal(decimal.RequireFromString("150.00")))
	assert.True(t, steps[1].NewRemaining.Equal(decimal.RequireFromString("50.00")))
}

func TestAllocateAcrossCharges_AppliedSumsToAmount(t *testing.T) {
	charges := []models.Charge{
		chargeWithRemaining(1, "123.45", 1),
		chargeWithRemaining(2, "67.89", 2),
		chargeWithRemaining(3, "500.00", 3),
	}
	amount := decimal.RequireFromString("400.00")

	steps := allocateAcrossCharges(charges, amount)

	total := decimal.Zero
	for _, step := range steps {
		total = total.Add(step.Applied)
		assert.False(t, step.NewRemaining.IsNegative())
	}
	assert.True(t, total.Equal(amount))
}

func TestAllocateAcrossCharges_FullAmountSettlesEverything(t *testing.T) {
	charges := []models.Charge{
		chargeWithRemaining(1, "300.00", 1),
		chargeWithRemaining(2, "200.00", 2),
	}

	steps := allocateAcrossCharges(charges, decimal.RequireFromString("500.00"))

	assert.Len(t, steps, 2)
	for _, step := range steps {
		assert.True(t, step.Settled)
		assert.True(t, step.NewRemaining.IsZero())
	}
}

func TestPayCharges_RejectsNonPositiveAmount(t *testing.T) {
	service := &ChargePaymentService{}

	_, err := service.PayCharges(context.Background(), models.PayChargesRequest{
		AccountID: 1,
		Amount:    decimal.Zero,
	}, 7)

	assert.True(t, IsValidation(err))
}
