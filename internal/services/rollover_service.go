package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"billing-service/internal/event"
	"billing-service/internal/models"
	"billing-service/internal/money"
	"billing-service/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// RolloverService runs the annual fiscal-year close: every unpaid
// balance becomes a carry-over charge, every account is reset to the new
// period's tariff with advance payments netted out, and a single marker
// row guarantees the whole thing happens at most once per year.
type RolloverService struct {
	db           *sqlx.DB
	accountRepo  *repository.AccountRepository
	chargeRepo   *repository.ChargeRepository
	paymentRepo  *repository.PaymentRepository
	catalogRepo  *repository.CatalogRepository
	rolloverRepo *repository.RolloverRepository
	publisher    *event.Publisher
	batchSize    int
}

func NewRolloverService(
	db *sqlx.DB,
	accountRepo *repository.AccountRepository,
	chargeRepo *repository.ChargeRepository,
	paymentRepo *repository.PaymentRepository,
	catalogRepo *repository.CatalogRepository,
	rolloverRepo *repository.RolloverRepository,
	publisher *event.Publisher,
	batchSize int,
) *RolloverService {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &RolloverService{
		db:           db,
		accountRepo:  accountRepo,
		chargeRepo:   chargeRepo,
		paymentRepo:  paymentRepo,
		catalogRepo:  catalogRepo,
		rolloverRepo: rolloverRepo,
		publisher:    publisher,
		batchSize:    batchSize,
	}
}

// CloseFiscalYear executes the rollover. The caller must hold an
// elevated role and confirm explicitly; re-running for an already
// executed year fails with ErrRolloverAlreadyExecuted and writes
// nothing.
func (s *RolloverService) CloseFiscalYear(ctx context.Context, req models.RolloverRequest, collectorID int64, elevated bool) (*models.RolloverResult, error) {
	if !elevated {
		return nil, ErrUnauthorized
	}
	if !req.Confirm {
		return nil, NewValidationError("confirmation required to execute the annual rollover")
	}
	if err := validateRolloverYears(req.ClosingYear, req.NewYear); err != nil {
		return nil, err
	}

	// The closure charge type is seeded at startup; resolving it here,
	// outside the transaction, keeps catalog writes off the hot path.
	closureType, err := s.catalogRepo.EnsureChargeType(ctx, models.ChargeTypeAnnualClosure, decimal.Zero, true)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rollover transaction: %w", err)
	}
	defer tx.Rollback()

	marker, err := s.rolloverRepo.GetOrCreateForUpdateTx(ctx, tx, req.NewYear)
	if err != nil {
		return nil, err
	}
	if marker.Executed {
		return nil, ErrRolloverAlreadyExecuted
	}

	// Per-row locks taken in ascending id order, the same order every
	// other operation uses, so rollover cannot deadlock against
	// concurrent single-account payments.
	accounts, err := s.accountRepo.LockAllWithPlanTx(ctx, tx)
	if err != nil {
		return nil, err
	}

	advances, err := s.paymentRepo.AdvanceByYear(ctx, tx, req.NewYear)
	if err != nil {
		return nil, err
	}

	chargeDate := time.Date(req.NewYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	var (
		staged         []repository.BalanceUpdate
		carryOvers     []models.Charge
		advanceNetted  int
		carryOverTotal = decimal.Zero
	)

	for _, account := range accounts {
		advance, hasAdvance := advances[account.ID]
		outcome := computeAccountRollover(account, advance, hasAdvance, closureType.ID, chargeDate)

		if outcome.CarryOver != nil {
			carryOvers = append(carryOvers, *outcome.CarryOver)
			carryOverTotal = carryOverTotal.Add(outcome.CarryOver.RemainingBalance)
		}
		if hasAdvance {
			advanceNetted++
		}
		staged = append(staged, repository.BalanceUpdate{
			AccountID: account.ID,
			Balance:   outcome.NewBalance,
			Status:    outcome.Status,
		})
	}

	if len(carryOvers) > 0 {
		if err := s.chargeRepo.BulkInsertTx(ctx, tx, carryOvers, s.batchSize); err != nil {
			return nil, err
		}
	}
	if err := s.accountRepo.BulkUpdateBalancesTx(ctx, tx, staged, s.batchSize); err != nil {
		return nil, err
	}

	executedAt := time.Now()
	if err := s.rolloverRepo.MarkExecutedTx(ctx, tx, marker.ID, collectorID, executedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rollover transaction: %w", err)
	}

	result := &models.RolloverResult{
		Year:              req.NewYear,
		AccountsProcessed: len(accounts),
		ChargesCreated:    len(carryOvers),
		AdvanceNetted:     advanceNetted,
		CarryOverTotal:    carryOverTotal,
	}

	s.publisher.RolloverExecuted(ctx, event.RolloverExecuted{
		Year:              result.Year,
		CollectorID:       collectorID,
		AccountsProcessed: result.AccountsProcessed,
		ChargesCreated:    result.ChargesCreated,
		CarryOverTotal:    money.Format(result.CarryOverTotal),
	})
	slog.Info("annual rollover executed",
		"year", result.Year,
		"accounts_processed", result.AccountsProcessed,
		"charges_created", result.ChargesCreated,
		"advance_netted", result.AdvanceNetted,
		"carry_over_total", money.Format(result.CarryOverTotal))

	return result, nil
}

// PreviewRollover computes the same per-account numbers as
// CloseFiscalYear without locking or writing anything, for operator
// review before the confirmed run.
func (s *RolloverService) PreviewRollover(ctx context.Context, req models.RolloverRequest) (*models.RolloverPreview, error) {
	if err := validateRolloverYears(req.ClosingYear, req.NewYear); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAllWithPlan(ctx)
	if err != nil {
		return nil, err
	}
	advances, err := s.paymentRepo.AdvanceByYear(ctx, s.db, req.NewYear)
	if err != nil {
		return nil, err
	}

	preview := &models.RolloverPreview{
		Year:            req.NewYear,
		TariffLiability: decimal.Zero,
		CarryOverTotal:  decimal.Zero,
	}
	chargeDate := time.Date(req.NewYear, time.January, 1, 0, 0, 0, 0, time.UTC)

	for _, account := range accounts {
		advance, hasAdvance := advances[account.ID]
		outcome := computeAccountRollover(account, advance, hasAdvance, 0, chargeDate)

		if account.Balance.Sign() == 0 {
			preview.ResetAccounts++
		} else {
			preview.OwingAccounts++
		}
		if hasAdvance {
			preview.AdvancePaid++
		}
		if outcome.CarryOver != nil {
			preview.CarryOverTotal = preview.CarryOverTotal.Add(outcome.CarryOver.RemainingBalance)
		}
		preview.TariffLiability = preview.TariffLiability.Add(outcome.TariffNext)
	}
	return preview, nil
}

// rolloverOutcome is the staged result for a single account.
type rolloverOutcome struct {
	CarryOver  *models.Charge
	TariffNext decimal.Decimal
	NewBalance decimal.Decimal
	Status     models.DebtStatus
}

// computeAccountRollover derives one account's new-period state: a
// carry-over charge for any unpaid remainder of the closing year, the
// next tariff with the carried fixed discount deducted, and the new
// balance with advance payments netted out. Status here follows the
// inline rollover rule, not the pace classifier: settled on zero-or-less,
// current when an advance payment brought the balance below the tariff,
// delinquent otherwise.
func computeAccountRollover(
	account models.AccountWithPlan,
	advance repository.AdvanceInfo,
	hasAdvance bool,
	closureTypeID int64,
	chargeDate time.Time,
) rolloverOutcome {
	var carryOver *models.Charge
	priorBalance := account.Balance
	if priorBalance.Sign() > 0 {
		carryOver = &models.Charge{
			AccountID:        account.ID,
			ChargeTypeID:     closureTypeID,
			Amount:           priorBalance,
			RemainingBalance: priorBalance,
			ChargeDate:       chargeDate,
			Active:           true,
		}
	}

	tariffNext := account.AnnualCost()
	if hasAdvance && advance.DiscountFixed != nil {
		tariffNext = money.FloorZero(tariffNext.Sub(*advance.DiscountFixed))
	}

	newBalance := tariffNext
	if hasAdvance {
		newBalance = newBalance.Sub(advance.Net)
	}

	var status models.DebtStatus
	switch {
	case newBalance.Sign() <= 0:
		status = models.DebtStatusSettled
	case hasAdvance && newBalance.LessThan(tariffNext):
		status = models.DebtStatusCurrent
	default:
		status = models.DebtStatusDelinquent
	}

	return rolloverOutcome{
		CarryOver:  carryOver,
		TariffNext: tariffNext,
		NewBalance: money.FloorZero(money.RoundToCent(newBalance)),
		Status:     status,
	}
}

func validateRolloverYears(closingYear, newYear int) error {
	if closingYear < 2000 || newYear < 2000 {
		return NewValidationError("closing_year and new_year must be four-digit years")
	}
	if newYear != closingYear+1 {
		return NewValidationError("new_year %d must immediately follow closing_year %d", newYear, closingYear)
	}
	return nil
}
