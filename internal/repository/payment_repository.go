package repository

import (
	"context"
	"fmt"
	"time"

	"billing-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateTx inserts the immutable payment row inside the ledger
// transaction. Rows are never updated or deleted afterwards.
func (r *PaymentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, payment *models.TariffPayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tariff_payments (
			id, account_id, collector_id, discount_id, payment_date,
			amount_received, discount_amount, month, year, note, created_at
		) VALUES (
			:id, :account_id, :collector_id, :discount_id, :payment_date,
			:amount_received, :discount_amount, :month, :year, :note, :created_at
		)`

	if _, err := tx.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("failed to create tariff payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) ListByAccount(ctx context.Context, accountID int64) ([]models.TariffPayment, error) {
	var payments []models.TariffPayment
	query := `
		SELECT id, account_id, collector_id, discount_id, payment_date,
		       amount_received, discount_amount, month, year, note, created_at
		FROM tariff_payments
		WHERE account_id = $1
		ORDER BY payment_date DESC, created_at DESC`

	if err := r.db.SelectContext(ctx, &payments, query, accountID); err != nil {
		return nil, fmt.Errorf("failed to list payments for account %d: %w", accountID, err)
	}
	return payments, nil
}

// AdvanceInfo summarizes payments an account already made for a fiscal
// year ahead of the rollover: the summed net amount and the fixed value
// of the most recent payment's discount when that discount is still
// active.
type AdvanceInfo struct {
	Net           decimal.Decimal
	DiscountFixed *decimal.Decimal
}

// AdvanceByYear loads, per account, the advance payments already dated
// in the given fiscal year. The rollover passes its transaction (after
// the account population is locked, so no payment can slip in between);
// the preview passes the plain connection.
func (r *PaymentRepository) AdvanceByYear(ctx context.Context, q sqlx.ExtContext, year int) (map[int64]AdvanceInfo, error) {
	type netRow struct {
		AccountID int64           `db:"account_id"`
		Net       decimal.Decimal `db:"net"`
	}
	var nets []netRow
	netQuery := `
		SELECT account_id, COALESCE(SUM(amount_received - discount_amount), 0) AS net
		FROM tariff_payments
		WHERE year = $1
		GROUP BY account_id`

	if err := sqlx.SelectContext(ctx, q, &nets, netQuery, year); err != nil {
		return nil, fmt.Errorf("failed to sum advance payments for %d: %w", year, err)
	}

	result := make(map[int64]AdvanceInfo, len(nets))
	for _, row := range nets {
		result[row.AccountID] = AdvanceInfo{Net: row.Net}
	}

	type discountRow struct {
		AccountID   int64           `db:"account_id"`
		FixedAmount decimal.Decimal `db:"fixed_amount"`
	}
	// The discount carried into the new year is the one on the account's
	// most recent advance payment, and only if that discount is still
	// active; a discount on an older payment does not count.
	var discounts []discountRow
	discountQuery := `
		SELECT account_id, fixed_amount FROM (
			SELECT DISTINCT ON (p.account_id) p.account_id, d.fixed_amount
			FROM tariff_payments p
			LEFT JOIN discounts d ON d.id = p.discount_id AND d.active = TRUE
			WHERE p.year = $1
			ORDER BY p.account_id, p.payment_date DESC, p.created_at DESC
		) latest
		WHERE fixed_amount IS NOT NULL`

	if err := sqlx.SelectContext(ctx, q, &discounts, discountQuery, year); err != nil {
		return nil, fmt.Errorf("failed to load advance payment discounts for %d: %w", year, err)
	}

	for _, row := range discounts {
		info := result[row.AccountID]
		fixed := row.FixedAmount
		info.DiscountFixed = &fixed
		result[row.AccountID] = info
	}
	return result, nil
}
