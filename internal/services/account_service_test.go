package services

import (
	"context"
	"testing"

	"billing-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestOnboard_RequiresContractNumber(t *testing.T) {
	service := &AccountService{}

	_, err := service.Onboard(context.Background(), models.CreateAccountRequest{
		FirstName: "Ana",
		LastName:  "Reyes",
	})

	assert.True(t, IsValidation(err))
}

func TestOnboard_RequiresNames(t *testing.T) {
	service := &AccountService{}

	_, err := service.Onboard(context.Background(), models.CreateAccountRequest{
		ContractNumber: 1042,
		FirstName:      "Ana",
	})

	assert.True(t, IsValidation(err))
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	service := &AccountService{}

	_, err := service.List(context.Background(), "", models.DebtStatus("bogus"), 10, 0)

	assert.True(t, IsValidation(err))
}
