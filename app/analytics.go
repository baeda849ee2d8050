package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/calcstack/calcd/domain/audit"
	"github.com/calcstack/calcd/ports"
)

// AnalyticsService answers admin usage queries from the audit store.
type AnalyticsService struct {
	store  ports.AuditStore
	clock  ports.Clock
	logger zerolog.Logger
}

// NewAnalyticsService creates an analytics service.
func NewAnalyticsService(store ports.AuditStore, clock ports.Clock, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, clock: clock, logger: logger}
}

// Summary aggregates usage over the trailing period ending now. A zero
// period defaults to 24 hours.
func (s *AnalyticsService) Summary(ctx context.Context, period time.Duration) (audit.Summary, error) {
	if period <= 0 {
		period = 24 * time.Hour
	}
	end := s.clock.Now()
	start := end.Add(-period)

	summary, err := s.store.Summary(ctx, start, end)
	if err != nil {
		s.logger.Error().Err(err).Msg("usage summary query failed")
		return audit.Summary{}, err
	}
	return summary, nil
}
