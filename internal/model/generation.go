// Package model defines domain entities for the application.
package model

import "time"

// Generation is the immutable record of one completed, paid image
// generation. Credits always equals the amount actually debited for the
// request; rows are never updated or deleted.
type Generation struct {
	ID        string    `json:"id"` // ULID (time-sortable)
	UserID    string    `json:"user_id"`
	Prompt    string    `json:"prompt"`
	Model     string    `json:"model"` // normalized model id
	Credits   int       `json:"credits"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}
