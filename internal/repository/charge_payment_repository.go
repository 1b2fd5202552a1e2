package repository

import (
	"context"
	"fmt"
	"time"

	"billing-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ChargePaymentRepository struct {
	db *sqlx.DB
}

func NewChargePaymentRepository(db *sqlx.DB) *ChargePaymentRepository {
	return &ChargePaymentRepository{db: db}
}

// CreateTx appends one allocation row. One row is written per charge
// touched during a single allocation call; rows are never mutated.
func (r *ChargePaymentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, payment *models.ChargePayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO charge_payments (
			id, account_id, charge_id, collector_id, amount, payment_date, note, created_at
		) VALUES (
			:id, :account_id, :charge_id, :collector_id, :amount, :payment_date, :note, :created_at
		)`

	if _, err := tx.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("failed to create charge payment: %w", err)
	}
	return nil
}

func (r *ChargePaymentRepository) ListByAccount(ctx context.Context, accountID int64) ([]models.ChargePayment, error) {
	var payments []models.ChargePayment
	query := `
		SELECT id, account_id, charge_id, collector_id, amount, payment_date, note, created_at
		FROM charge_payments
		WHERE account_id = $1
		ORDER BY payment_date DESC, created_at DESC`

	if err := r.db.SelectContext(ctx, &payments, query, accountID); err != nil {
		return nil, fmt.Errorf("failed to list charge payments for account %d: %w", accountID, err)
	}
	return payments, nil
}
