package services

import (
	"context"
	"testing"
	"time"

	"billing-service/internal/models"
	"billing-service/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func accountWithBalance(id int64, balance, annualCost string) models.AccountWithPlan {
	cost := decimal.RequireFromString(annualCost)
	return models.AccountWithPlan{
		Account: models.Account{
			ID:      id,
			Balance: decimal.RequireFromString(balance),
		},
		PlanAnnualCost: &cost,
	}
}

var rolloverDate = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestComputeAccountRollover_CarryOverWithAdvancePayment(t *testing.T) {
	account := accountWithBalance(1, "300.00", "1200.00")
	advance := repository.AdvanceInfo{Net: decimal.RequireFromString("200.00")}

	outcome := computeAccountRollover(account, advance, true, 42, rolloverDate)

	if assert.NotNil(t, outcome.CarryOver) {
		assert.True(t, outcome.CarryOver.Amount.Equal(decimal.RequireFromString("300.00")))
		assert.True(t, outcome.CarryOver.RemainingBalance.Equal(decimal.RequireFromString("300.00")))
		assert.Equal(t, rolloverDate, outcome.CarryOver.ChargeDate)
		assert.Equal(t, int64(42), outcome.CarryOver.ChargeTypeID)
		assert.True(t, outcome.CarryOver.Active)
	}
	assert.True(t, outcome.NewBalance.Equal(decimal.RequireFromString("1000.00")))
	assert.Equal(t, models.DebtStatusCurrent, outcome.Status)
}

func TestComputeAccountRollover_SettledAccountResetsToFullTariff(t *testing.T) {
	account := accountWithBalance(1, "0.00", "1200.00")

	outcome := computeAccountRollover(account, repository.AdvanceInfo{}, false, 42, rolloverDate)

	assert.Nil(t, outcome.CarryOver, "zero balance carries nothing over")
	assert.True(t, outcome.NewBalance.Equal(decimal.RequireFromString("1200.00")))
	assert.Equal(t, models.DebtStatusDelinquent, outcome.Status)
}

func TestComputeAccountRollover_AdvanceCoveringFullYearSettles(t *testing.T) {
	account := accountWithBalance(1, "0.00", "1200.00")
	advance := repository.AdvanceInfo{Net: decimal.RequireFromString("1200.00")}

	outcome := computeAccountRollover(account, advance, true, 42, rolloverDate)

	assert.True(t, outcome.NewBalance.IsZero())
	assert.Equal(t, models.DebtStatusSettled, outcome.Status)
}

func TestComputeAccountRollover_OverpaidAdvanceFloorsAtZero(t *testing.T) {
	account := accountWithBalance(1, "0.00", "1200.00")
	advance := repository.AdvanceInfo{Net: decimal.RequireFromString("1500.00")}

	outcome := computeAccountRollover(account, advance, true, 42, rolloverDate)

	assert.True(t, outcome.NewBalance.IsZero(), "no credit balance is carried")
	assert.Equal(t, models.DebtStatusSettled, outcome.Status)
}

func TestComputeAccountRollover_FixedDiscountReducesNextTariff(t *testing.T) {
	account := accountWithBalance(1, "0.00", "1200.00")
	fixed := decimal.RequireFromString("100.00")
	advance := repository.AdvanceInfo{
		Net:           decimal.RequireFromString("200.00"),
		DiscountFixed: &fixed,
	}

	outcome := computeAccountRollover(account, advance, true, 42, rolloverDate)

	assert.True(t, outcome.TariffNext.Equal(decimal.RequireFromString("1100.00")))
	assert.True(t, outcome.NewBalance.Equal(decimal.RequireFromString("900.00")))
	assert.Equal(t, models.DebtStatusCurrent, outcome.Status)
}

func TestComputeAccountRollover_NoPlanNoAdvance(t *testing.T) {
	account := models.AccountWithPlan{
		Account: models.Account{ID: 1, Balance: decimal.RequireFromString("150.00")},
	}

	outcome := computeAccountRollover(account, repository.AdvanceInfo{}, false, 42, rolloverDate)

	if assert.NotNil(t, outcome.CarryOver) {
		assert.True(t, outcome.CarryOver.Amount.Equal(decimal.RequireFromString("150.00")))
	}
	assert.True(t, outcome.NewBalance.IsZero())
	assert.Equal(t, models.DebtStatusSettled, outcome.Status)
}

func TestValidateRolloverYears(t *testing.T) {
	assert.NoError(t, validateRolloverYears(2025, 2026))
	assert.True(t, IsValidation(validateRolloverYears(2025, 2027)))
	assert.True(t, IsValidation(validateRolloverYears(2026, 2025)))
	assert.True(t, IsValidation(validateRolloverYears(0, 2026)))
}

func TestCloseFiscalYear_RequiresElevatedRole(t *testing.T) {
	service := &RolloverService{}

	_, err := service.CloseFiscalYear(context.Background(), models.RolloverRequest{
		ClosingYear: 2025, NewYear: 2026, Confirm: true,
	}, 7, false)

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCloseFiscalYear_RequiresConfirmation(t *testing.T) {
	service := &RolloverService{}

	_, err := service.CloseFiscalYear(context.Background(), models.RolloverRequest{
		ClosingYear: 2025, NewYear: 2026,
	}, 7, true)

	assert.True(t, IsValidation(err))
}
