package repository

import (
	"context"
	"fmt"
	"time"

	"billing-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type RolloverRepository struct {
	db *sqlx.DB
}

func NewRolloverRepository(db *sqlx.DB) *RolloverRepository {
	return &RolloverRepository{db: db}
}

// GetOrCreateForUpdateTx inserts the year's marker when absent and
// returns the row under a write lock. The lock makes the marker a
// single-row mutex: concurrent rollover attempts for the same year
// serialize here, and the loser sees executed = true.
func (r *RolloverRepository) GetOrCreateForUpdateTx(ctx context.Context, tx *sqlx.Tx, year int) (*models.RolloverMarker, error) {
	insert := `INSERT INTO rollover_markers (year) VALUES ($1) ON CONFLICT (year) DO NOTHING`
	if _, err := tx.ExecContext(ctx, insert, year); err != nil {
		return nil, fmt.Errorf("failed to create rollover marker for %d: %w", year, err)
	}

	var marker models.RolloverMarker
	query := `
		SELECT id, year, executed, executed_at, collector_id
		FROM rollover_markers
		WHERE year = $1
		FOR UPDATE`

	if err := tx.GetContext(ctx, &marker, query, year); err != nil {
		return nil, fmt.Errorf("failed to lock rollover marker for %d: %w", year, err)
	}
	return &marker, nil
}

// MarkExecutedTx flips the marker exactly once at the end of a
// successful rollover transaction.
func (r *RolloverRepository) MarkExecutedTx(ctx context.Context, tx *sqlx.Tx, id int64, collectorID int64, at time.Time) error {
	query := `
		UPDATE rollover_markers
		SET executed = TRUE, executed_at = $1, collector_id = $2
		WHERE id = $3`

	if _, err := tx.ExecContext(ctx, query, at, collectorID, id); err != nil {
		return fmt.Errorf("failed to mark rollover %d executed: %w", id, err)
	}
	return nil
}

// GetByYear reads the marker without locking, for status inspection.
func (r *RolloverRepository) GetByYear(ctx context.Context, year int) (*models.RolloverMarker, error) {
	var marker models.RolloverMarker
	query := `SELECT id, year, executed, executed_at, collector_id FROM rollover_markers WHERE year = $1`
	if err := r.db.GetContext(ctx, &marker, query, year); err != nil {
		return nil, fmt.Errorf("failed to get rollover marker for %d: %w", year, err)
	}
	return &marker, nil
}
