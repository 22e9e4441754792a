package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/handler/dto"
	"github.com/inkwell/inkwell/internal/middleware"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/internal/service"
)

// GenerationHandler handles HTTP requests for image generation.
type GenerationHandler struct {
	svc    *service.GenerationService
	logger *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(svc *service.GenerationService, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{
		svc:    svc,
		logger: logger,
	}
}

// Generate handles POST /api/v1/generations.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req dto.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := middleware.ValidatePromptText(req.Prompt); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_PROMPT", "Prompt contains invalid characters")
		return
	}
	if err := middleware.ValidateModelID(req.Model); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_MODEL", "Invalid model identifier")
		return
	}
	if err := middleware.ValidateStyle(req.Style); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_STYLE", "Invalid style")
		return
	}
	if err := middleware.ValidateSize(req.Size); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_SIZE", "Size must be of the form WIDTHxHEIGHT")
		return
	}

	out, err := h.svc.RequestGeneration(r.Context(), service.GenerateInput{
		UserID: authCtx.UserID,
		Prompt: req.Prompt,
		Model:  req.Model,
		Style:  req.Style,
		Size:   req.Size,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("generation_created",
		"generation_id", out.Generation.ID,
		"user_id", out.Generation.UserID,
		"model", out.Generation.Model,
		"credits_used", out.Generation.Credits,
	)

	response := dto.GenerateResponse{
		GenerationResponse: dto.ToGenerationResponse(out.Generation),
		CreditsRemaining:   out.CreditsRemaining,
	}
	writeJSON(w, http.StatusCreated, response)
}

// List handles GET /api/v1/generations.
func (h *GenerationHandler) List(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	query := r.URL.Query()

	limit := 0
	if l := query.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "Limit must be a positive integer")
			return
		}
		limit = parsed
	}

	result, err := h.svc.ListGenerations(r.Context(), service.ListGenerationsInput{
		UserID: authCtx.UserID,
		Cursor: query.Get("cursor"),
		Limit:  limit,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response := dto.ToGenerationListResponse(result.Generations, result.NextCursor, result.HasMore)
	writeJSON(w, http.StatusOK, response)
}

// Get handles GET /api/v1/generations/{id}.
func (h *GenerationHandler) Get(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Generation ID is required")
		return
	}

	gen, err := h.svc.GetGeneration(r.Context(), authCtx.UserID, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToGenerationResponse(gen))
}

// handleServiceError maps service errors to HTTP responses.
func (h *GenerationHandler) handleServiceError(w http.ResponseWriter, err error) {
	var insufficientErr *repository.InsufficientCreditsError
	switch {
	case errors.As(err, &insufficientErr):
		writeJSON(w, http.StatusPaymentRequired, dto.InsufficientCreditsResponse{
			Error:     "Insufficient credits",
			Code:      "INSUFFICIENT_CREDITS",
			Required:  insufficientErr.Required,
			Available: insufficientErr.Available,
		})
	case errors.Is(err, service.ErrEmptyPrompt):
		h.writeError(w, http.StatusBadRequest, "EMPTY_PROMPT", "Prompt is required")
	case errors.Is(err, service.ErrPromptTooLong):
		h.writeError(w, http.StatusBadRequest, "PROMPT_TOO_LONG", "Prompt exceeds maximum length")
	case errors.Is(err, service.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User account not found")
	case errors.Is(err, service.ErrGenerationNotFound):
		h.writeError(w, http.StatusNotFound, "GENERATION_NOT_FOUND", "Generation not found")
	case errors.Is(err, service.ErrInvalidCursor):
		h.writeError(w, http.StatusBadRequest, "INVALID_CURSOR", "Cursor is malformed or expired")
	case errors.Is(err, service.ErrGenerationFailed):
		h.writeError(w, http.StatusBadGateway, "GENERATION_FAILED", "Image generation failed; no credits were charged")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *GenerationHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
