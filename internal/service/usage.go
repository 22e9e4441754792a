package service

import (
	"context"
	"time"

	"github.com/inkwell/inkwell/internal/model"
)

const (
	// DefaultUsageDays is the reporting window when the client omits one.
	DefaultUsageDays = 30

	// MaxUsageDays caps the reporting window.
	MaxUsageDays = 90
)

// UsageStore reads pre-aggregated usage data.
type UsageStore interface {
	GetDailyStats(ctx context.Context, userID string, from, to time.Time) ([]*model.DailyUsageStats, error)
	GetUsageSummary(ctx context.Context, userID string, from, to time.Time) (*model.UsageSummary, error)
}

// UsageService exposes usage reporting over the aggregated pipeline
// output. Figures are eventually consistent with the generation log.
type UsageService struct {
	store UsageStore
}

// NewUsageService creates a new UsageService.
func NewUsageService(store UsageStore) *UsageService {
	return &UsageService{store: store}
}

// Daily returns per-day usage rows for the trailing window.
func (s *UsageService) Daily(ctx context.Context, userID string, days int) ([]*model.DailyUsageStats, error) {
	from, to := usageWindow(days)
	return s.store.GetDailyStats(ctx, userID, from, to)
}

// Summary returns totals for the trailing window.
func (s *UsageService) Summary(ctx context.Context, userID string, days int) (*model.UsageSummary, error) {
	from, to := usageWindow(days)
	return s.store.GetUsageSummary(ctx, userID, from, to)
}

// usageWindow converts a day count into a UTC [from, to] range ending now.
func usageWindow(days int) (time.Time, time.Time) {
	if days <= 0 {
		days = DefaultUsageDays
	}
	if days > MaxUsageDays {
		days = MaxUsageDays
	}
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)
	return from, to
}
