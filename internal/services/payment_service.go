package services

import (
	"context"
	"database/sql"
	"errors"
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

const dateLayout = "2006-01-02"

// PaymentService is the tariff payment ledger. Recording a payment
// locks the account row, applies the received amount plus any fixed
// discount to the balance, reclassifies the debt status with the
// payment's effective date, and appends the immutable payment record,
// all in one transaction.
type PaymentService struct {
	db          *sqlx.DB
	accountRepo *repository.AccountRepository
	chargeRepo  *repository.ChargeRepository
	paymentRepo *repository.PaymentRepository
	catalogRepo *repository.CatalogRepository
	publisher   *event.Publisher
}

func NewPaymentService(
	db *sqlx.DB,
	accountRepo *repository.AccountRepository,
	chargeRepo *repository.ChargeRepository,
	paymentRepo *repository.PaymentRepository,
	catalogRepo *repository.CatalogRepository,
	publisher *event.Publisher,
) *PaymentService {
	return &PaymentService{
		db:          db,
		accountRepo: accountRepo,
		chargeRepo:  chargeRepo,
		paymentRepo: paymentRepo,
		catalogRepo: catalogRepo,
		publisher:   publisher,
	}
}

func (s *PaymentService) RecordTariffPayment(ctx context.Context, req models.RecordPaymentRequest, collectorID int64) (*models.RecordPaymentResult, error) {
	if !money.IsPositive(req.Amount) {
		return nil, NewValidationError("amount must be positive, got %s", money.Format(req.Amount))
	}

	effectiveDate, err := resolveEffectiveDate(req.PaymentDate)
	if err != nil {
		return nil, err
	}
	if req.Month != nil && *req.Month != int(effectiveDate.Month()) {
		return nil, NewValidationError("month %d does not match payment date %s", *req.Month, effectiveDate.Format(dateLayout))
	}
	if req.Year != nil && *req.Year != effectiveDate.Year() {
		return nil, NewValidationError("year %d does not match payment date %s", *req.Year, effectiveDate.Format(dateLayout))
	}

	// The discount value is a fixed money amount despite the legacy
	// column naming; it is applied as an absolute deduction.
	discountAmount := decimal.Zero
	if req.DiscountID != nil {
		discount, err := s.catalogRepo.GetDiscount(ctx, *req.DiscountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrDiscountNotFound
			}
			return nil, err
		}
		discountAmount = money.RoundToCent(discount.FixedAmount)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin payment transaction: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accountRepo.GetForUpdateTx(ctx, tx, req.AccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	hasCharges, err := s.chargeRepo.HasActiveTx(ctx, tx, account.ID)
	if err != nil {
		return nil, err
	}
	if hasCharges {
		return nil, ErrOutstandingCharges
	}

	newBalance := settleAgainstBalance(account.Balance, req.Amount, discountAmount)
	newStatus := ClassifyDebt(newBalance, account.AnnualCost(), effectiveDate)

	if err := s.accountRepo.UpdateBalanceStatusTx(ctx, tx, account.ID, newBalance, newStatus); err != nil {
		return nil, err
	}

	payment := models.TariffPayment{
		AccountID:      account.ID,
		CollectorID:    collectorID,
		DiscountID:     req.DiscountID,
		PaymentDate:    effectiveDate,
		AmountReceived: money.RoundToCent(req.Amount),
		DiscountAmount: discountAmount,
		Month:          int(effectiveDate.Month()),
		Year:           effectiveDate.Year(),
		Note:           req.Note,
	}
	if err := s.paymentRepo.CreateTx(ctx, tx, &payment); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment transaction: %w", err)
	}

	s.publisher.PaymentRecorded(ctx, event.PaymentRecorded{
		PaymentID:   payment.ID.String(),
		AccountID:   account.ID,
		CollectorID: collectorID,
		Amount:      money.Format(payment.AmountReceived),
		NewBalance:  money.Format(newBalance),
		DebtStatus:  string(newStatus),
	})
	slog.Info("tariff payment recorded",
		"account_id", account.ID,
		"payment_id", payment.ID,
		"amount", money.Format(payment.AmountReceived),
		"new_balance", money.Format(newBalance),
		"debt_status", newStatus)

	return &models.RecordPaymentResult{
		Payment:    payment,
		NewBalance: newBalance,
		DebtStatus: newStatus,
	}, nil
}

func (s *PaymentService) ListByAccount(ctx context.Context, accountID int64) ([]models.TariffPayment, error) {
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return s.paymentRepo.ListByAccount(ctx, accountID)
}

// settleAgainstBalance applies a received amount plus a fixed discount
// to the current balance: half-up rounding to the minor unit, floored at
// zero because tariff overpayment does not produce credit.
func settleAgainstBalance(balance, amount, discountAmount decimal.Decimal) decimal.Decimal {
	deducted := amount.Add(discountAmount)
	return money.FloorZero(money.RoundToCent(balance.Sub(deducted)))
}

// resolveEffectiveDate parses an optional YYYY-MM-DD payment date,
// defaulting to today. The effective date drives the derived month/year
// and the classification, which is what makes backdated entries work.
func resolveEffectiveDate(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, NewValidationError("payment_date must be YYYY-MM-DD, got %q", raw)
	}
	return date, nil
}
