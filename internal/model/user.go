// Package model defines domain entities for the application.
package model

import "time"

// DefaultStartingCredits is the balance granted to a user on first login.
const DefaultStartingCredits = 50

// User represents an account with a metered credit balance.
// Credits is a non-negative integer and is only ever decreased by the
// generation debit path; grants/top-ups happen outside this service.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Image     string    `json:"image,omitempty"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
}

// CanAfford reports whether the user's balance covers the given cost.
func (u *User) CanAfford(cost int) bool {
	return u.Credits >= cost
}
