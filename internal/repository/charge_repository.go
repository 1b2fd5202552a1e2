package repository

import (
	"context"
	"fmt"
	"strings"

	"billing-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ChargeRepository struct {
	db *sqlx.DB
}

func NewChargeRepository(db *sqlx.DB) *ChargeRepository {
	return &ChargeRepository{db: db}
}

const chargeColumns = `id, account_id, charge_type_id, amount, remaining_balance,
	charge_date, active, created_at`

// ActiveForUpdateTx locks and returns the account's active charges in
// allocation order: oldest charge date first, ties broken by ascending
// id. The allocator walks this list applying the lump sum.
func (r *ChargeRepository) ActiveForUpdateTx(ctx context.Context, tx *sqlx.Tx, accountID int64) ([]models.Charge, error) {
	var charges []models.Charge
	query := `
		SELECT ` + chargeColumns + `
		FROM charges
		WHERE account_id = $1 AND active = TRUE
		ORDER BY charge_date ASC, id ASC
		FOR UPDATE`

	if err := tx.SelectContext(ctx, &charges, query, accountID); err != nil {
		return nil, fmt.Errorf("failed to lock active charges for account %d: %w", accountID, err)
	}
	return charges, nil
}

// HasActiveTx reports whether the account has any unsettled one-time
// charge; the payment ledger refuses tariff payments while it does.
func (r *ChargeRepository) HasActiveTx(ctx context.Context, tx *sqlx.Tx, accountID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM charges WHERE account_id = $1 AND active = TRUE)`
	if err := tx.GetContext(ctx, &exists, query, accountID); err != nil {
		return false, fmt.Errorf("failed to check active charges for account %d: %w", accountID, err)
	}
	return exists, nil
}

func (r *ChargeRepository) ListByAccount(ctx context.Context, accountID int64, activeOnly bool) ([]models.Charge, error) {
	var charges []models.Charge
	query := `SELECT ` + chargeColumns + ` FROM charges WHERE account_id = $1`
	if activeOnly {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY charge_date DESC, id DESC`

	if err := r.db.SelectContext(ctx, &charges, query, accountID); err != nil {
		return nil, fmt.Errorf("failed to list charges for account %d: %w", accountID, err)
	}
	return charges, nil
}

func (r *ChargeRepository) Create(ctx context.Context, charge *models.Charge) error {
	query := `
		INSERT INTO charges (account_id, charge_type_id, amount, remaining_balance, charge_date, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		charge.AccountID, charge.ChargeTypeID, charge.Amount,
		charge.RemainingBalance, charge.ChargeDate, charge.Active,
	).Scan(&charge.ID, &charge.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create charge: %w", err)
	}
	return nil
}

// UpdateRemainingTx decrements a charge's remaining balance and flips the
// active flag off when the charge is fully settled.
func (r *ChargeRepository) UpdateRemainingTx(ctx context.Context, tx *sqlx.Tx, chargeID int64, remaining decimal.Decimal, active bool) error {
	query := `UPDATE charges SET remaining_balance = $1, active = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, query, remaining, active, chargeID); err != nil {
		return fmt.Errorf("failed to update charge %d remaining balance: %w", chargeID, err)
	}
	return nil
}

// BulkInsertTx inserts staged charges in bounded batches, one multi-row
// INSERT per batch. Used by the rollover's carry-over generation.
func (r *ChargeRepository) BulkInsertTx(ctx context.Context, tx *sqlx.Tx, charges []models.Charge, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 500
	}
	for start := 0; start < len(charges); start += batchSize {
		end := start + batchSize
		if end > len(charges) {
			end = len(charges)
		}
		batch := charges[start:end]

		values := make([]string, 0, len(batch))
		args := make([]interface{}, 0, len(batch)*6)
		for i, c := range batch {
			base := i * 6
			values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
				base+1, base+2, base+3, base+4, base+5, base+6))
			args = append(args, c.AccountID, c.ChargeTypeID, c.Amount, c.RemainingBalance, c.ChargeDate, c.Active)
		}

		query := `
			INSERT INTO charges (account_id, charge_type_id, amount, remaining_balance, charge_date, active)
			VALUES ` + strings.Join(values, ", ")

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to bulk insert charges (batch %d-%d): %w", start, end, err)
		}
	}
	return nil
}

// ActiveTotal sums the remaining balances of an account's active charges.
func (r *ChargeRepository) ActiveTotal(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(remaining_balance), 0) FROM charges WHERE account_id = $1 AND active = TRUE`
	if err := r.db.GetContext(ctx, &total, query, accountID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to total active charges for account %d: %w", accountID, err)
	}
	return total, nil
}

// TotalActiveDebt sums remaining charge balances over the whole
// population, for the debtor summary.
func (r *ChargeRepository) TotalActiveDebt(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(remaining_balance), 0) FROM charges WHERE active = TRUE`
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return decimal.Zero, fmt.Errorf("failed to total active charge debt: %w", err)
	}
	return total, nil
}
