// Package analytics provides usage event capture and processing.
package analytics

import "fmt"

const maxModelLength = 200

// ValidateUsageEventPayload validates usage event payload fields.
func ValidateUsageEventPayload(payload UsageEventPayload) error {
	if payload.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if payload.GenerationID == "" {
		return fmt.Errorf("generation_id is required")
	}
	if payload.Model == "" {
		return fmt.Errorf("model is required")
	}
	if len(payload.Model) > maxModelLength {
		return fmt.Errorf("model too long")
	}
	if payload.Credits <= 0 {
		return fmt.Errorf("credits must be positive")
	}
	if payload.OccurredAt <= 0 {
		return fmt.Errorf("occurred_at must be set")
	}
	return nil
}
