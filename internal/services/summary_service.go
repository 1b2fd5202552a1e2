package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"billing-service/internal/database/redis"
	"billing-service/internal/models"
	"billing-service/internal/repository"

	"github.com/shopspring/decimal"
)

const summaryCacheKey = "billing:debtor_summary"

// SummaryService aggregates the account population by debt status with a
// short-lived Redis cache in front. The cache is advisory: any cache
// error falls through to the database, and writes that shift many
// balances at once (the rollover) invalidate the key.
type SummaryService struct {
	accountRepo *repository.AccountRepository
	chargeRepo  *repository.ChargeRepository
	cache       *redis.Client
	cacheTTL    time.Duration
}

func NewSummaryService(
	accountRepo *repository.AccountRepository,
	chargeRepo *repository.ChargeRepository,
	cache *redis.Client,
	cacheTTLSeconds int,
) *SummaryService {
	if cacheTTLSeconds <= 0 {
		cacheTTLSeconds = 300
	}
	return &SummaryService{
		accountRepo: accountRepo,
		chargeRepo:  chargeRepo,
		cache:       cache,
		cacheTTL:    time.Duration(cacheTTLSeconds) * time.Second,
	}
}

func (s *SummaryService) DebtorSummary(ctx context.Context) (*models.DebtorSummary, error) {
	if s.cache != nil {
		if raw, err := s.cache.GetJSON(ctx, summaryCacheKey); err == nil {
			var cached models.DebtorSummary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			slog.Warn("discarding malformed cached summary", "key", summaryCacheKey)
		}
	}

	rows, err := s.accountRepo.SummaryByStatus(ctx)
	if err != nil {
		return nil, err
	}
	chargeDebt, err := s.chargeRepo.TotalActiveDebt(ctx)
	if err != nil {
		return nil, err
	}

	summary := models.DebtorSummary{
		Counts:           make(map[models.DebtStatus]int, len(rows)),
		TotalOutstanding: decimal.Zero,
		TotalChargeDebt:  chargeDebt,
	}
	for _, row := range rows {
		summary.Counts[row.Status] = row.Count
		summary.TotalOutstanding = summary.TotalOutstanding.Add(row.Total)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.SetJSON(ctx, summaryCacheKey, raw, s.cacheTTL); err != nil {
				slog.Warn("failed to cache debtor summary", "error", err)
			}
		}
	}
	return &summary, nil
}

// Invalidate drops the cached summary; called after bulk mutations so
// operators see post-rollover numbers immediately.
func (s *SummaryService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, summaryCacheKey); err != nil {
		slog.Warn("failed to invalidate debtor summary cache", "error", err)
	}
}
