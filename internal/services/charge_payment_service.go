package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"billing-service/internal/event"
	"billing-service/internal/models"
	"billing-service/internal/money"
	"billing-service/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ChargePaymentService allocates lump payments across an account's
// outstanding one-time charges, oldest debt first. It never touches the
// account's tariff balance or status.
type ChargePaymentService struct {
	db                *sqlx.DB
	accountRepo       *repository.AccountRepository
	chargeRepo        *repository.ChargeRepository
	chargePaymentRepo *repository.ChargePaymentRepository
	publisher         *event.Publisher
}

func NewChargePaymentService(
	db *sqlx.DB,
	accountRepo *repository.AccountRepository,
	chargeRepo *repository.ChargeRepository,
	chargePaymentRepo *repository.ChargePaymentRepository,
	publisher *event.Publisher,
) *ChargePaymentService {
	return &ChargePaymentService{
		db:                db,
		accountRepo:       accountRepo,
		chargeRepo:        chargeRepo,
		chargePaymentRepo: chargePaymentRepo,
		publisher:         publisher,
	}
}

func (s *ChargePaymentService) PayCharges(ctx context.Context, req models.PayChargesRequest, collectorID int64) (*models.PayChargesResult, error) {
	if !money.IsPositive(req.Amount) {
		return nil, NewValidationError("amount must be positive, got %s", money.Format(req.Amount))
	}

	if _, err := s.accountRepo.GetByID(ctx, req.AccountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin allocation transaction: %w", err)
	}
	defer tx.Rollback()

	charges, err := s.chargeRepo.ActiveForUpdateTx(ctx, tx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if len(charges) == 0 {
		return nil, ErrNoPendingCharges
	}

	totalOwed := decimal.Zero
	for _, c := range charges {
		totalOwed = totalOwed.Add(c.RemainingBalance)
	}
	if req.Amount.GreaterThan(totalOwed) {
		return nil, fmt.Errorf("%w: received %s, total charge debt %s",
			ErrAmountExceedsDebt, money.Format(req.Amount), money.Format(totalOwed))
	}

	plan := allocateAcrossCharges(charges, req.Amount)

	allocations := make([]models.ChargeAllocation, 0, len(plan))
	for _, step := range plan {
		charge := charges[step.ChargeIndex]

		if err := s.chargeRepo.UpdateRemainingTx(ctx, tx, charge.ID, step.NewRemaining, !step.Settled); err != nil {
			return nil, err
		}

		chargeID := charge.ID
		payment := models.ChargePayment{
			AccountID:   req.AccountID,
			ChargeID:    &chargeID,
			CollectorID: collectorID,
			Amount:      step.Applied,
			Note:        req.Note,
		}
		if err := s.chargePaymentRepo.CreateTx(ctx, tx, &payment); err != nil {
			return nil, err
		}

		allocations = append(allocations, models.ChargeAllocation{
			PaymentID: payment.ID.String(),
			ChargeID:  charge.ID,
			Applied:   step.Applied,
			Settled:   step.Settled,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit allocation transaction: %w", err)
	}

	remainingDebt := totalOwed.Sub(req.Amount)

	s.publisher.ChargesPaid(ctx, event.ChargesPaid{
		AccountID:     req.AccountID,
		CollectorID:   collectorID,
		Amount:        money.Format(req.Amount),
		ChargesTotal:  len(allocations),
		RemainingDebt: money.Format(remainingDebt),
	})
	slog.Info("charge payment allocated",
		"account_id", req.AccountID,
		"amount", money.Format(req.Amount),
		"charges_touched", len(allocations),
		"remaining_debt", money.Format(remainingDebt))

	return &models.PayChargesResult{
		AmountReceived: money.RoundToCent(req.Amount),
		Allocations:    allocations,
		RemainingDebt:  remainingDebt,
	}, nil
}

func (s *ChargePaymentService) ListByAccount(ctx context.Context, accountID int64) ([]models.ChargePayment, error) {
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return s.chargePaymentRepo.ListByAccount(ctx, accountID)
}

// allocationStep is one planned application of the lump sum to a charge.
type allocationStep struct {
	ChargeIndex  int
	Applied      decimal.Decimal
	NewRemaining decimal.Decimal
	Settled      bool
}

// allocateAcrossCharges walks charges in the order given (oldest first,
// ties by ascending id, guaranteed by the store) and applies the amount
// until it runs out. The applied amounts always sum to exactly the
// amount supplied; no charge goes below zero.
func allocateAcrossCharges(charges []models.Charge, amount decimal.Decimal) []allocationStep {
	var steps []allocationStep
	remainingToApply := amount

	for i, charge := range charges {
		if remainingToApply.Sign() <= 0 {
			break
		}

		applied := decimal.Min(remainingToApply, charge.RemainingBalance)
		newRemaining := charge.RemainingBalance.Sub(applied)

		steps = append(steps, allocationStep{
			ChargeIndex:  i,
			Applied:      applied,
			NewRemaining: newRemaining,
			Settled:      newRemaining.Sign() == 0,
		})
		remainingToApply = remainingToApply.Sub(applied)
	}
	return steps
}
