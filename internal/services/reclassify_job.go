package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"billing-service/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
)

// ReclassifyJob re-derives every account's debt status nightly. Statuses
// drift as the calendar advances even when no payment arrives: an
// account current in March can be behind by June with no new rows
// written, so the stored status has to be refreshed against today's
// reference month.
type ReclassifyJob struct {
	db          *sqlx.DB
	accountRepo *repository.AccountRepository
	batchSize   int
	cron        *cron.Cron
}

func NewReclassifyJob(db *sqlx.DB, accountRepo *repository.AccountRepository, batchSize int) *ReclassifyJob {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &ReclassifyJob{
		db:          db,
		accountRepo: accountRepo,
		batchSize:   batchSize,
	}
}

// Start schedules the nightly run. The job also runs through Run
// directly, which the tests and the manual admin endpoint use.
func (j *ReclassifyJob) Start() {
	c := cron.New()
	c.AddFunc("@midnight", func() {
		if _, err := j.Run(context.Background()); err != nil {
			slog.Error("nightly reclassification failed", "error", err)
		}
	})
	c.Start()
	j.cron = c
}

func (j *ReclassifyJob) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// Run reclassifies the whole population against today and persists only
// the rows whose status actually changed.
func (j *ReclassifyJob) Run(ctx context.Context) (int, error) {
	tx, err := j.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin reclassification transaction: %w", err)
	}
	defer tx.Rollback()

	accounts, err := j.accountRepo.LockAllWithPlanTx(ctx, tx)
	if err != nil {
		return 0, err
	}

	today := time.Now()
	var changed []repository.BalanceUpdate
	for _, account := range accounts {
		status := ClassifyDebt(account.Balance, account.AnnualCost(), today)
		if status == account.DebtStatus {
			continue
		}
		changed = append(changed, repository.BalanceUpdate{
			AccountID: account.ID,
			Balance:   account.Balance,
			Status:    status,
		})
	}

	if len(changed) > 0 {
		if err := j.accountRepo.BulkUpdateBalancesTx(ctx, tx, changed, j.batchSize); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit reclassification transaction: %w", err)
	}

	slog.Info("debt statuses reclassified",
		"accounts_scanned", len(accounts),
		"statuses_changed", len(changed))
	return len(changed), nil
}
