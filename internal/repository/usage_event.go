package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inkwell/inkwell/internal/model"
)

// UsageEventRepository provides database access for usage events and the
// per-user daily aggregates they roll up into.
type UsageEventRepository struct {
	repo *Repository
}

// NewUsageEventRepository creates a new UsageEventRepository.
func NewUsageEventRepository(repo *Repository) *UsageEventRepository {
	return &UsageEventRepository{repo: repo}
}

// BulkInsert inserts usage events with idempotency via ON CONFLICT DO NOTHING.
// The event_id (Redis stream id) is the dedupe key, so a redelivered batch
// is harmless.
func (r *UsageEventRepository) BulkInsert(ctx context.Context, events []*model.UsageEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	query := `
		INSERT INTO usage_events (
			id, event_id, user_id, generation_id, model, credits, occurred_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (event_id) DO NOTHING
	`

	for _, event := range events {
		batch.Queue(query,
			event.ID,
			event.EventID,
			event.UserID,
			event.GenerationID,
			event.Model,
			event.Credits,
			event.OccurredAt,
		)
	}

	results := r.repo.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(events); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert event %d: %w", i, err)
		}
	}

	return nil
}

// UpdateDailyStats recalculates daily_usage_stats rows for every
// (user, day) combination touched by the batch. Recomputing from
// usage_events keeps the aggregate correct under redelivery.
func (r *UsageEventRepository) UpdateDailyStats(ctx context.Context, events []*model.UsageEvent) error {
	if len(events) == 0 {
		return nil
	}

	for _, key := range uniqueDailyKeys(events) {
		if err := r.recalculateDailyStat(ctx, key.userID, key.date); err != nil {
			return fmt.Errorf("recalculate daily stat %s:%s: %w", key.userID, key.date.Format("2006-01-02"), err)
		}
	}

	return nil
}

type dailyStatsKey struct {
	userID string
	date   time.Time
}

func uniqueDailyKeys(events []*model.UsageEvent) []dailyStatsKey {
	seen := make(map[string]dailyStatsKey)
	for _, event := range events {
		day := event.OccurredAt.UTC().Truncate(24 * time.Hour)
		key := fmt.Sprintf("%s:%s", event.UserID, day.Format("2006-01-02"))
		seen[key] = dailyStatsKey{userID: event.UserID, date: day}
	}

	keys := make([]dailyStatsKey, 0, len(seen))
	for _, key := range seen {
		keys = append(keys, key)
	}
	return keys
}

// recalculateDailyStat recomputes one (user, day) aggregate from
// usage_events and upserts the result.
func (r *UsageEventRepository) recalculateDailyStat(ctx context.Context, userID string, date time.Time) error {
	start := date.UTC().Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	query := `
		SELECT COUNT(*), COALESCE(SUM(credits), 0)
		FROM usage_events
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3
	`

	var generations, creditsSpent int64
	if err := r.repo.pool.QueryRow(ctx, query, userID, start, end).Scan(&generations, &creditsSpent); err != nil {
		return fmt.Errorf("aggregate usage events: %w", err)
	}

	id := fmt.Sprintf("%s:%s", userID, start.Format("2006-01-02"))
	upsert := `
		INSERT INTO daily_usage_stats (
			id, user_id, date, generations, credits_spent, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id, date) DO UPDATE SET
			generations = EXCLUDED.generations,
			credits_spent = EXCLUDED.credits_spent,
			updated_at = NOW()
	`

	if _, err := r.repo.pool.Exec(ctx, upsert, id, userID, start, generations, creditsSpent); err != nil {
		return fmt.Errorf("upsert daily stat: %w", err)
	}

	return nil
}

// GetDailyStats retrieves daily usage rows for a user within a date range.
func (r *UsageEventRepository) GetDailyStats(ctx context.Context, userID string, from, to time.Time) ([]*model.DailyUsageStats, error) {
	query := `
		SELECT id, user_id, date, generations, credits_spent, created_at, updated_at
		FROM daily_usage_stats
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC
	`

	rows, err := r.repo.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []*model.DailyUsageStats
	for rows.Next() {
		var stat model.DailyUsageStats
		if err := rows.Scan(
			&stat.ID,
			&stat.UserID,
			&stat.Date,
			&stat.Generations,
			&stat.CreditsSpent,
			&stat.CreatedAt,
			&stat.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	return stats, rows.Err()
}

// GetUsageSummary aggregates a user's usage over a date range.
func (r *UsageEventRepository) GetUsageSummary(ctx context.Context, userID string, from, to time.Time) (*model.UsageSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(generations), 0),
			COALESCE(SUM(credits_spent), 0)
		FROM daily_usage_stats
		WHERE user_id = $1 AND date >= $2 AND date <= $3
	`

	var summary model.UsageSummary
	if err := r.repo.pool.QueryRow(ctx, query, userID, from, to).Scan(
		&summary.Generations,
		&summary.CreditsSpent,
	); err != nil {
		return nil, fmt.Errorf("aggregate usage summary: %w", err)
	}

	return &summary, nil
}
