package repository

import (
	"context"
	"fmt"
	"strings"

	"billing-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, contract_number, first_name, last_name, street, street_number,
	phone, neighborhood, service_plan_id, balance, debt_status, created_at, updated_at`

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (
			contract_number, first_name, last_name, street, street_number,
			phone, neighborhood, service_plan_id, balance, debt_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		account.ContractNumber, account.FirstName, account.LastName,
		account.Street, account.StreetNumber, account.Phone, account.Neighborhood,
		account.ServicePlanID, account.Balance, account.DebtStatus,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) GetByContractNumber(ctx context.Context, contractNumber int64) (*models.Account, error) {
	var account models.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE contract_number = $1`
	if err := r.db.GetContext(ctx, &account, query, contractNumber); err != nil {
		return nil, fmt.Errorf("failed to get account by contract number: %w", err)
	}
	return &account, nil
}

// GetForUpdateTx acquires a row-level write lock on the account and
// returns it joined with its plan's annual cost. Every mutating operation
// reads the balance through this method only.
func (r *AccountRepository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.AccountWithPlan, error) {
	var account models.AccountWithPlan
	query := `
		SELECT a.id, a.contract_number, a.first_name, a.last_name, a.street,
		       a.street_number, a.phone, a.neighborhood, a.service_plan_id,
		       a.balance, a.debt_status, a.created_at, a.updated_at,
		       p.annual_cost AS plan_annual_cost
		FROM accounts a
		LEFT JOIN service_plans p ON p.id = a.service_plan_id
		WHERE a.id = $1
		FOR UPDATE OF a`

	if err := tx.GetContext(ctx, &account, query, id); err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", id, err)
	}
	return &account, nil
}

// LockAllWithPlanTx locks every account row in ascending id order, the
// lock order shared with all single-account operations, and returns the
// rows joined with their plan cost. Used by the rollover and the
// reclassification job only.
func (r *AccountRepository) LockAllWithPlanTx(ctx context.Context, tx *sqlx.Tx) ([]models.AccountWithPlan, error) {
	var accounts []models.AccountWithPlan
	query := `
		SELECT a.id, a.contract_number, a.first_name, a.last_name, a.street,
		       a.street_number, a.phone, a.neighborhood, a.service_plan_id,
		       a.balance, a.debt_status, a.created_at, a.updated_at,
		       p.annual_cost AS plan_annual_cost
		FROM accounts a
		LEFT JOIN service_plans p ON p.id = a.service_plan_id
		ORDER BY a.id ASC
		FOR UPDATE OF a`

	if err := tx.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("failed to lock account population: %w", err)
	}
	return accounts, nil
}

// ListAllWithPlan reads the whole population joined with plan costs
// without locking; the rollover preview computes its numbers from this.
func (r *AccountRepository) ListAllWithPlan(ctx context.Context) ([]models.AccountWithPlan, error) {
	var accounts []models.AccountWithPlan
	query := `
		SELECT a.id, a.contract_number, a.first_name, a.last_name, a.street,
		       a.street_number, a.phone, a.neighborhood, a.service_plan_id,
		       a.balance, a.debt_status, a.created_at, a.updated_at,
		       p.annual_cost AS plan_annual_cost
		FROM accounts a
		LEFT JOIN service_plans p ON p.id = a.service_plan_id
		ORDER BY a.id ASC`

	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("failed to list account population: %w", err)
	}
	return accounts, nil
}

// UpdateBalanceStatusTx persists the balance/status pair. The two fields
// always travel together; status is a cache of the classifier output.
func (r *AccountRepository) UpdateBalanceStatusTx(ctx context.Context, tx *sqlx.Tx, id int64, balance decimal.Decimal, status models.DebtStatus) error {
	query := `
		UPDATE accounts
		SET balance = $1, debt_status = $2, updated_at = now()
		WHERE id = $3`

	if _, err := tx.ExecContext(ctx, query, balance, status, id); err != nil {
		return fmt.Errorf("failed to update account %d balance/status: %w", id, err)
	}
	return nil
}

// BalanceUpdate is one staged row of a bulk balance/status mutation.
type BalanceUpdate struct {
	AccountID int64
	Balance   decimal.Decimal
	Status    models.DebtStatus
}

// BulkUpdateBalancesTx applies staged balance/status updates in bounded
// batches using a single UPDATE ... FROM (VALUES ...) statement per
// batch, avoiding per-row round trips over tens of thousands of rows.
func (r *AccountRepository) BulkUpdateBalancesTx(ctx context.Context, tx *sqlx.Tx, updates []BalanceUpdate, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 500
	}
	for start := 0; start < len(updates); start += batchSize {
		end := start + batchSize
		if end > len(updates) {
			end = len(updates)
		}
		batch := updates[start:end]

		values := make([]string, 0, len(batch))
		args := make([]interface{}, 0, len(batch)*3)
		for i, u := range batch {
			values = append(values, fmt.Sprintf("($%d::bigint, $%d::numeric, $%d::text)", i*3+1, i*3+2, i*3+3))
			args = append(args, u.AccountID, u.Balance, string(u.Status))
		}

		query := `
			UPDATE accounts AS a
			SET balance = v.balance, debt_status = v.debt_status, updated_at = now()
			FROM (VALUES ` + strings.Join(values, ", ") + `) AS v(id, balance, debt_status)
			WHERE a.id = v.id`

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to bulk update accounts (batch %d-%d): %w", start, end, err)
		}
	}
	return nil
}

func (r *AccountRepository) UpdateContact(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET first_name = $1, last_name = $2, street = $3, street_number = $4,
		    phone = $5, neighborhood = $6, updated_at = now()
		WHERE id = $7`

	res, err := r.db.ExecContext(ctx, query,
		account.FirstName, account.LastName, account.Street, account.StreetNumber,
		account.Phone, account.Neighborhood, account.ID)
	if err != nil {
		return fmt.Errorf("failed to update account contact fields: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update account %d: no such row", account.ID)
	}
	return nil
}

// List searches accounts by contract number, name or neighborhood, with
// an optional debt-status filter.
func (r *AccountRepository) List(ctx context.Context, search string, status models.DebtStatus, limit, offset int) ([]models.Account, error) {
	var accounts []models.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`

	args := []interface{}{}
	argCount := 1

	if search != "" {
		query += fmt.Sprintf(` AND (contract_number::text LIKE $%d
			OR first_name ILIKE $%d OR last_name ILIKE $%d OR neighborhood ILIKE $%d)`,
			argCount, argCount+1, argCount+2, argCount+3)
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
		argCount += 4
	}
	if status != "" {
		query += fmt.Sprintf(" AND debt_status = $%d", argCount)
		args = append(args, status)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY id ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit, offset)

	if err := r.db.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// StatusCount is one row of the per-status aggregate.
type StatusCount struct {
	Status models.DebtStatus `db:"debt_status"`
	Count  int               `db:"count"`
	Total  decimal.Decimal   `db:"total"`
}

func (r *AccountRepository) SummaryByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	query := `
		SELECT debt_status, COUNT(*) AS count, COALESCE(SUM(balance), 0) AS total
		FROM accounts
		GROUP BY debt_status`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to aggregate accounts by status: %w", err)
	}
	return rows, nil
}
