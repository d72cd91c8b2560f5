package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

type analyticsRepository interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	FeeTotals(ctx context.Context, filter models.AnalyticsFilter) (*models.FeeAnalytics, error)
	FeeBreakdown(ctx context.Context, filter models.AnalyticsFilter) ([]models.FeeBreakdownRow, error)
}

// AnalyticsService serves dashboard and fee analytics with a Redis
// response cache.
type AnalyticsService struct {
	repo    analyticsRepository
	cache   *redis.Client
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewAnalyticsService constructs an AnalyticsService. The cache client may
// be nil; every read then hits the database.
func NewAnalyticsService(repo analyticsRepository, cache *redis.Client, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &AnalyticsService{repo: repo, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Dashboard returns the student population summary.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := s.cached(ctx, "analytics:dashboard", &stats, func() (interface{}, error) {
		return s.repo.DashboardStats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// FeeAnalytics returns per-category collection totals with the grouped
// breakdown chart. The breakdown pivots by year when a single department
// is selected.
func (s *AnalyticsService) FeeAnalytics(ctx context.Context, filter models.AnalyticsFilter) (*models.FeeAnalytics, error) {
	key := fmt.Sprintf("analytics:fees:%d:%s:%s", filter.Year, filter.Department, filter.FeeType)

	var analytics models.FeeAnalytics
	err := s.cached(ctx, key, &analytics, func() (interface{}, error) {
		totals, err := s.repo.FeeTotals(ctx, filter)
		if err != nil {
			return nil, err
		}
		if filter.FeeType != "" {
			breakdown, err := s.repo.FeeBreakdown(ctx, filter)
			if err != nil {
				return nil, err
			}
			totals.Breakdown = breakdown
		}
		return totals, nil
	})
	if err != nil {
		return nil, err
	}
	return &analytics, nil
}

// Invalidate drops all cached analytics responses. Called after batch
// mutations.
func (s *AnalyticsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, "analytics:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("failed to invalidate analytics cache", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("analytics cache scan failed", zap.Error(err))
	}
}

func (s *AnalyticsService) cached(ctx context.Context, key string, dest interface{}, fetch func() (interface{}, error)) error {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, key).Bytes()
		hit := err == nil
		s.metrics.RecordCacheOperation(hit)
		if hit {
			if err := json.Unmarshal(payload, dest); err == nil {
				return nil
			}
			s.logger.Warn("corrupt analytics cache entry", zap.String("key", key))
		} else if err != redis.Nil {
			s.logger.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	value, err := fetch()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute analytics")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode analytics")
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode analytics")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
			s.logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}
