// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/inkwell/inkwell/internal/analytics"
	"github.com/inkwell/inkwell/internal/catalog"
	"github.com/inkwell/inkwell/internal/generator"
	"github.com/inkwell/inkwell/internal/metrics"
	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/repository"
)

// Service errors.
var (
	ErrEmptyPrompt        = errors.New("prompt is required")
	ErrPromptTooLong      = errors.New("prompt too long")
	ErrUserNotFound       = errors.New("user not found")
	ErrGenerationNotFound = errors.New("generation not found")
	ErrGenerationFailed   = errors.New("image generation failed")
	ErrInvalidCursor      = errors.New("invalid cursor")
)

const (
	maxPromptLength = 2000

	// DefaultPageSize is the page size when the client omits a limit.
	DefaultPageSize = 12

	// MaxPageSize caps client-requested page sizes.
	MaxPageSize = 100
)

// GenerationStore is the persistence surface the service needs.
type GenerationStore interface {
	CreateGenerationPaid(ctx context.Context, gen *model.Generation) (int, error)
	ListGenerations(ctx context.Context, userID, cursor string, limit int) ([]*model.Generation, string, error)
	GetGenerationByID(ctx context.Context, id string) (*model.Generation, error)
	GetCredits(ctx context.Context, userID string) (int, error)
}

// UsagePublisher emits usage events after a generation commits.
type UsagePublisher interface {
	PublishAsync(event analytics.UsageEventPayload)
}

// GenerationService coordinates credit debits with external image
// generation. A generation is only recorded, and credits only spent,
// after the provider has produced an image.
type GenerationService struct {
	store     GenerationStore
	generator generator.Generator
	catalog   *catalog.Catalog
	publisher UsagePublisher
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewGenerationService creates a new GenerationService. The publisher
// may be nil when the usage pipeline is disabled.
func NewGenerationService(store GenerationStore, gen generator.Generator, cat *catalog.Catalog, publisher UsagePublisher, recorder metrics.Recorder, logger *slog.Logger) *GenerationService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationService{
		store:     store,
		generator: gen,
		catalog:   cat,
		publisher: publisher,
		metrics:   recorder,
		logger:    logger.With("component", "service.generation"),
	}
}

// GenerateInput defines input for a generation request.
type GenerateInput struct {
	UserID string
	Prompt string
	Model  string
	Style  string
	Size   string
}

// GenerateOutput is the result of a successful generation.
type GenerateOutput struct {
	Generation       *model.Generation
	CreditsRemaining int
}

// RequestGeneration runs one paid generation end to end: validate the
// prompt, price the model, check the balance, call the provider, then
// atomically debit credits and record the generation.
//
// The balance check before the provider call is advisory; the debit
// inside CreateGenerationPaid is the authoritative one and can still
// fail if a concurrent request spent the credits first.
func (s *GenerationService) RequestGeneration(ctx context.Context, input GenerateInput) (*GenerateOutput, error) {
	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if len(prompt) > maxPromptLength {
		return nil, ErrPromptTooLong
	}

	modelID := input.Model
	if modelID == "" {
		modelID = catalog.DefaultModel
	}
	style := input.Style
	if style == "" {
		style = catalog.DefaultStyle
	}
	size := input.Size
	if size == "" {
		size = catalog.DefaultSize
	}

	cost := s.catalog.Cost(modelID)

	credits, err := s.store.GetCredits(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("check balance: %w", err)
	}
	if credits < cost {
		s.metrics.IncInsufficientCredits()
		return nil, &repository.InsufficientCreditsError{Required: cost, Available: credits}
	}

	start := time.Now()

	result, err := s.generator.Generate(ctx, generator.Request{
		Prompt: prompt,
		Model:  modelID,
		Style:  style,
		Size:   size,
	})
	if err != nil {
		s.metrics.IncGenerationFailed()
		s.logger.Error("generation failed",
			"user_id", input.UserID,
			"model", modelID,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, err)
	}

	gen := &model.Generation{
		ID:        ulid.Make().String(),
		UserID:    input.UserID,
		Prompt:    prompt,
		Model:     catalog.Normalize(modelID),
		Credits:   cost,
		ImageURL:  result.URL,
		CreatedAt: time.Now().UTC(),
	}

	// The image already exists at the provider; commit the debit even
	// if the client disconnected while waiting.
	remaining, err := s.store.CreateGenerationPaid(context.WithoutCancel(ctx), gen)
	if err != nil {
		var insufficientErr *repository.InsufficientCreditsError
		if errors.As(err, &insufficientErr) {
			// A concurrent request spent the credits during the
			// provider call. The generated image is orphaned.
			s.metrics.IncInsufficientCredits()
			s.logger.Warn("credits spent during generation",
				"user_id", input.UserID,
				"required", insufficientErr.Required,
				"available", insufficientErr.Available,
			)
			return nil, insufficientErr
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("record generation: %w", err)
	}

	s.metrics.IncGenerationCreated()
	s.metrics.AddCreditsSpent(cost)
	s.metrics.ObserveGenerationDuration(time.Since(start))

	if s.publisher != nil {
		s.publisher.PublishAsync(analytics.UsageEventPayload{
			UserID:       gen.UserID,
			GenerationID: gen.ID,
			Model:        gen.Model,
			Credits:      gen.Credits,
			OccurredAt:   gen.CreatedAt.UnixMilli(),
		})
	}

	s.logger.Info("generation completed",
		"user_id", gen.UserID,
		"generation_id", gen.ID,
		"model", gen.Model,
		"credits", gen.Credits,
		"credits_remaining", remaining,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &GenerateOutput{
		Generation:       gen,
		CreditsRemaining: remaining,
	}, nil
}

// ListGenerationsInput defines input for listing generations.
type ListGenerationsInput struct {
	UserID string
	Cursor string
	Limit  int
}

// ListGenerationsOutput defines output for listing generations.
type ListGenerationsOutput struct {
	Generations []*model.Generation
	NextCursor  string
	HasMore     bool
}

// ListGenerations retrieves a page of the user's generation history,
// newest first.
func (s *GenerationService) ListGenerations(ctx context.Context, input ListGenerationsInput) (*ListGenerationsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	gens, nextCursor, err := s.store.ListGenerations(ctx, input.UserID, input.Cursor, limit)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCursor) {
			return nil, ErrInvalidCursor
		}
		return nil, err
	}

	return &ListGenerationsOutput{
		Generations: gens,
		NextCursor:  nextCursor,
		HasMore:     nextCursor != "",
	}, nil
}

// GetGeneration retrieves a single generation owned by the user.
// Records owned by other users are reported as not found.
func (s *GenerationService) GetGeneration(ctx context.Context, userID, id string) (*model.Generation, error) {
	gen, err := s.store.GetGenerationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGenerationNotFound) {
			return nil, ErrGenerationNotFound
		}
		return nil, err
	}
	if gen.UserID != userID {
		return nil, ErrGenerationNotFound
	}
	return gen, nil
}
