package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"billing-service/internal/models"
	"billing-service/internal/money"
	"billing-service/internal/repository"

	"github.com/shopspring/decimal"
)

// ChargeService creates and lists one-time charges. Collectors may only
// raise charges of non-automatic types; system types are created by the
// rollover and onboarding paths.
type ChargeService struct {
	accountRepo *repository.AccountRepository
	chargeRepo  *repository.ChargeRepository
	catalogRepo *repository.CatalogRepository
}

func NewChargeService(
	accountRepo *repository.AccountRepository,
	chargeRepo *repository.ChargeRepository,
	catalogRepo *repository.CatalogRepository,
) *ChargeService {
	return &ChargeService{
		accountRepo: accountRepo,
		chargeRepo:  chargeRepo,
		catalogRepo: catalogRepo,
	}
}

func (s *ChargeService) Create(ctx context.Context, req models.CreateChargeRequest) (*models.Charge, error) {
	if _, err := s.accountRepo.GetByID(ctx, req.AccountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	chargeType, err := s.catalogRepo.GetChargeType(ctx, req.ChargeTypeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChargeTypeNotFound
		}
		return nil, err
	}
	if chargeType.Automatic {
		return nil, NewValidationError("charge type %q is system-managed and cannot be charged manually", chargeType.Name)
	}

	amount := chargeType.NominalAmount
	if req.Amount != nil {
		amount = *req.Amount
	}
	if !money.IsPositive(amount) {
		return nil, NewValidationError("charge amount must be positive, got %s", money.Format(amount))
	}
	amount = money.RoundToCent(amount)

	chargeDate, err := resolveEffectiveDate(req.ChargeDate)
	if err != nil {
		return nil, err
	}

	charge := models.Charge{
		AccountID:        req.AccountID,
		ChargeTypeID:     chargeType.ID,
		Amount:           amount,
		RemainingBalance: amount,
		ChargeDate:       chargeDate,
		Active:           true,
	}
	if err := s.chargeRepo.Create(ctx, &charge); err != nil {
		return nil, err
	}

	slog.Info("charge created",
		"account_id", charge.AccountID,
		"charge_type", chargeType.Name,
		"amount", money.Format(charge.Amount))
	return &charge, nil
}

// ListByAccount returns the account's charges along with the total
// still owed across its active ones, which is also what the tariff
// payment gate checks against.
func (s *ChargeService) ListByAccount(ctx context.Context, accountID int64, activeOnly bool) ([]models.Charge, decimal.Decimal, error) {
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, decimal.Zero, ErrAccountNotFound
		}
		return nil, decimal.Zero, err
	}

	charges, err := s.chargeRepo.ListByAccount(ctx, accountID, activeOnly)
	if err != nil {
		return nil, decimal.Zero, err
	}
	total, err := s.chargeRepo.ActiveTotal(ctx, accountID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return charges, total, nil
}
