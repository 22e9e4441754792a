// Package model defines domain entities for the application.
package model

import "time"

// UsageEvent records a completed generation for the async usage pipeline.
// Persisted out-of-band from the request path; the Generation row is the
// billing source of truth, this table feeds daily aggregates.
type UsageEvent struct {
	ID      string `json:"id"`       // ULID (time-sortable)
	EventID string `json:"event_id"` // Idempotency key (Redis stream ID)

	UserID       string `json:"user_id"`
	GenerationID string `json:"generation_id"`
	Model        string `json:"model"`
	Credits      int    `json:"credits"`

	OccurredAt time.Time `json:"occurred_at"` // Event timestamp
	CreatedAt  time.Time `json:"created_at"`  // DB insertion time
}

// DailyUsageStats is the pre-aggregated per-user, per-UTC-day usage row.
type DailyUsageStats struct {
	ID     string    `json:"id"` // Composite: user_id:date
	UserID string    `json:"user_id"`
	Date   time.Time `json:"date"` // UTC date (time component zeroed)

	Generations  int64 `json:"generations"`
	CreditsSpent int64 `json:"credits_spent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UsageSummary aggregates usage over a period for API responses.
type UsageSummary struct {
	Generations  int64 `json:"generations"`
	CreditsSpent int64 `json:"credits_spent"`
}
