package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"billing-service/internal/models"
	"billing-service/internal/money"
	"billing-service/internal/repository"

	"github.com/shopspring/decimal"
)

// AccountService handles onboarding and maintenance of tariff accounts.
type AccountService struct {
	accountRepo *repository.AccountRepository
	chargeRepo  *repository.ChargeRepository
	catalogRepo *repository.CatalogRepository
}

func NewAccountService(
	accountRepo *repository.AccountRepository,
	chargeRepo *repository.ChargeRepository,
	catalogRepo *repository.CatalogRepository,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		chargeRepo:  chargeRepo,
		catalogRepo: catalogRepo,
	}
}

// Onboard creates an account owing its plan's full annual tariff, so a
// fresh account always starts delinquent until the first payment lands.
// When the connection is new, the NEW_CONNECTION fee is added as an
// active charge at the type's nominal amount.
func (s *AccountService) Onboard(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error) {
	if req.ContractNumber <= 0 {
		return nil, NewValidationError("contract_number must be positive")
	}
	if req.FirstName == "" || req.LastName == "" {
		return nil, NewValidationError("first_name and last_name are required")
	}

	balance := decimal.Zero
	if req.ServicePlanID != nil {
		plan, err := s.catalogRepo.GetServicePlan(ctx, *req.ServicePlanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrPlanNotFound
			}
			return nil, err
		}
		balance = plan.AnnualCost
	}

	account := models.Account{
		ContractNumber: req.ContractNumber,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Street:         req.Street,
		StreetNumber:   req.StreetNumber,
		Phone:          req.Phone,
		Neighborhood:   req.Neighborhood,
		ServicePlanID:  req.ServicePlanID,
		Balance:        balance,
		DebtStatus:     models.DebtStatusDelinquent,
	}
	if err := s.accountRepo.Create(ctx, &account); err != nil {
		return nil, err
	}

	if req.NewConnection {
		feeType, err := s.catalogRepo.GetChargeTypeByName(ctx, models.ChargeTypeNewConnection)
		if err != nil {
			return nil, err
		}
		charge := models.Charge{
			AccountID:        account.ID,
			ChargeTypeID:     feeType.ID,
			Amount:           feeType.NominalAmount,
			RemainingBalance: feeType.NominalAmount,
			ChargeDate:       time.Now().UTC().Truncate(24 * time.Hour),
			Active:           true,
		}
		if err := s.chargeRepo.Create(ctx, &charge); err != nil {
			return nil, err
		}
		slog.Info("connection fee charged",
			"account_id", account.ID,
			"amount", money.Format(feeType.NominalAmount))
	}

	slog.Info("account onboarded",
		"account_id", account.ID,
		"contract_number", account.ContractNumber,
		"opening_balance", money.Format(account.Balance))
	return &account, nil
}

func (s *AccountService) Get(ctx context.Context, id int64) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) GetByContractNumber(ctx context.Context, contractNumber int64) (*models.Account, error) {
	account, err := s.accountRepo.GetByContractNumber(ctx, contractNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) List(ctx context.Context, search string, status models.DebtStatus, limit, offset int) ([]models.Account, error) {
	if status != "" && !status.Valid() {
		return nil, NewValidationError("unknown debt status %q", status)
	}
	return s.accountRepo.List(ctx, search, status, limit, offset)
}

// UpdateContact patches the account's contact fields. Balance, status
// and plan are never writable through this path; they belong to the
// ledger operations.
func (s *AccountService) UpdateContact(ctx context.Context, id int64, req models.UpdateAccountRequest) (*models.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}
	if req.Street != nil {
		account.Street = *req.Street
	}
	if req.StreetNumber != nil {
		account.StreetNumber = *req.StreetNumber
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}
	if req.Neighborhood != nil {
		account.Neighborhood = *req.Neighborhood
	}

	if err := s.accountRepo.UpdateContact(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
