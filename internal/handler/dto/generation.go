// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/inkwell/inkwell/internal/model"
)

// GenerateRequest represents the request body for creating a generation.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
	Style  string `json:"style,omitempty"`
	Size   string `json:"size,omitempty"`
}

// GenerationResponse represents a generation record in API responses.
type GenerationResponse struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Prompt      string    `json:"prompt"`
	Model       string    `json:"model"`
	CreditsUsed int       `json:"creditsUsed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GenerateResponse is the response for a completed generation request.
// Includes the balance after the debit.
type GenerateResponse struct {
	GenerationResponse
	CreditsRemaining int `json:"creditsRemaining"`
}

// GenerationListResponse represents a page of generation history.
type GenerationListResponse struct {
	Items      []GenerationResponse `json:"items"`
	NextCursor string               `json:"nextCursor,omitempty"`
	HasMore    bool                 `json:"hasMore"`
}

// MeResponse represents the authenticated user's account.
type MeResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"`
	Credits     int       `json:"credits"`
	Generations int64     `json:"generations"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UsageResponse represents aggregated usage over a reporting window.
type UsageResponse struct {
	Days    int `json:"days"`
	Summary struct {
		Generations  int64 `json:"generations"`
		CreditsSpent int64 `json:"creditsSpent"`
	} `json:"summary"`
	Daily []DailyUsageEntry `json:"daily"`
}

// DailyUsageEntry is one day in the usage breakdown.
type DailyUsageEntry struct {
	Date         string `json:"date"`
	Generations  int64  `json:"generations"`
	CreditsSpent int64  `json:"creditsSpent"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// InsufficientCreditsResponse is the 402 payload. It always carries the
// shortfall so clients can show how many credits to buy.
type InsufficientCreditsResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
}

// ToGenerationResponse converts a Generation model to its DTO.
func ToGenerationResponse(gen *model.Generation) GenerationResponse {
	return GenerationResponse{
		ID:          gen.ID,
		URL:         gen.ImageURL,
		Prompt:      gen.Prompt,
		Model:       gen.Model,
		CreditsUsed: gen.Credits,
		CreatedAt:   gen.CreatedAt,
	}
}

// ToGenerationListResponse converts a page of generations to its DTO.
func ToGenerationListResponse(gens []*model.Generation, nextCursor string, hasMore bool) *GenerationListResponse {
	items := make([]GenerationResponse, len(gens))
	for i, gen := range gens {
		items[i] = ToGenerationResponse(gen)
	}
	return &GenerationListResponse{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}
}
