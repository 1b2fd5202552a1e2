package repository

import (
	"context"
	"fmt"

	"billing-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// CatalogRepository serves the small lookup tables: service plans,
// discounts and charge types. These are read-mostly; the only write path
// is the idempotent seed of system charge types at startup.
type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetServicePlan(ctx context.Context, id int64) (*models.ServicePlan, error) {
	var plan models.ServicePlan
	query := `SELECT id, name, annual_cost FROM service_plans WHERE id = $1`
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, fmt.Errorf("failed to get service plan %d: %w", id, err)
	}
	return &plan, nil
}

func (r *CatalogRepository) ListServicePlans(ctx context.Context) ([]models.ServicePlan, error) {
	var plans []models.ServicePlan
	query := `SELECT id, name, annual_cost FROM service_plans ORDER BY id ASC`
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("failed to list service plans: %w", err)
	}
	return plans, nil
}

func (r *CatalogRepository) GetDiscount(ctx context.Context, id int64) (*models.Discount, error) {
	var discount models.Discount
	query := `SELECT id, name, fixed_amount, active FROM discounts WHERE id = $1`
	if err := r.db.GetContext(ctx, &discount, query, id); err != nil {
		return nil, fmt.Errorf("failed to get discount %d: %w", id, err)
	}
	return &discount, nil
}

func (r *CatalogRepository) ListDiscounts(ctx context.Context, activeOnly bool) ([]models.Discount, error) {
	var discounts []models.Discount
	query := `SELECT id, name, fixed_amount, active FROM discounts`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY id ASC`
	if err := r.db.SelectContext(ctx, &discounts, query); err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	return discounts, nil
}

func (r *CatalogRepository) GetChargeType(ctx context.Context, id int64) (*models.ChargeType, error) {
	var chargeType models.ChargeType
	query := `SELECT id, name, nominal_amount, automatic FROM charge_types WHERE id = $1`
	if err := r.db.GetContext(ctx, &chargeType, query, id); err != nil {
		return nil, fmt.Errorf("failed to get charge type %d: %w", id, err)
	}
	return &chargeType, nil
}

func (r *CatalogRepository) GetChargeTypeByName(ctx context.Context, name string) (*models.ChargeType, error) {
	var chargeType models.ChargeType
	query := `SELECT id, name, nominal_amount, automatic FROM charge_types WHERE name = $1`
	if err := r.db.GetContext(ctx, &chargeType, query, name); err != nil {
		return nil, fmt.Errorf("failed to get charge type %q: %w", name, err)
	}
	return &chargeType, nil
}

func (r *CatalogRepository) ListChargeTypes(ctx context.Context) ([]models.ChargeType, error) {
	var chargeTypes []models.ChargeType
	query := `SELECT id, name, nominal_amount, automatic FROM charge_types ORDER BY id ASC`
	if err := r.db.SelectContext(ctx, &chargeTypes, query); err != nil {
		return nil, fmt.Errorf("failed to list charge types: %w", err)
	}
	return chargeTypes, nil
}

// EnsureChargeType upserts a system charge type by name and returns the
// stored row. Seeding runs once at deployment/startup so the rollover
// never has to get-or-create inside its hot transaction.
func (r *CatalogRepository) EnsureChargeType(ctx context.Context, name string, nominal decimal.Decimal, automatic bool) (*models.ChargeType, error) {
	var chargeType models.ChargeType
	query := `
		INSERT INTO charge_types (name, nominal_amount, automatic)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET automatic = EXCLUDED.automatic
		RETURNING id, name, nominal_amount, automatic`

	if err := r.db.QueryRowxContext(ctx, query, name, nominal, automatic).StructScan(&chargeType); err != nil {
		return nil, fmt.Errorf("failed to ensure charge type %q: %w", name, err)
	}
	return &chargeType, nil
}
