package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/inkwell/inkwell/internal/model"
)

// AdminUserFinder defines the interface for user lookup operations.
type AdminUserFinder interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
}

// AdminGenerationFinder defines the interface for generation lookups.
type AdminGenerationFinder interface {
	GetGenerationByID(ctx context.Context, id string) (*model.Generation, error)
}

// AdminKeyLister defines the interface for listing API keys.
type AdminKeyLister interface {
	ListAPIKeysByUserID(ctx context.Context, userID string) ([]*model.APIKey, error)
}

// AdminHandler provides admin-only endpoints for debugging and operations.
type AdminHandler struct {
	userRepo        AdminUserFinder
	genRepo         AdminGenerationFinder
	keyRepo         AdminKeyLister
	startingCredits int
	logger          *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userRepo AdminUserFinder, genRepo AdminGenerationFinder, keyRepo AdminKeyLister, startingCredits int, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		userRepo:        userRepo,
		genRepo:         genRepo,
		keyRepo:         keyRepo,
		startingCredits: startingCredits,
		logger:          logger,
	}
}

// AdminUserResponse represents a user in admin context.
type AdminUserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
}

// LookupUser handles GET /api/v1/admin/users?q={id|email}
// Looks up a user by id (exact) or email (exact) for billing support.
func (h *AdminHandler) LookupUser(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeErrorJSON(w, http.StatusBadRequest, "MISSING_QUERY", "query parameter 'q' is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user *model.User
	var err error
	if strings.Contains(query, "@") {
		user, err = h.userRepo.GetUserByEmail(ctx, query)
	} else {
		user, err = h.userRepo.GetUserByID(ctx, query)
	}
	if err != nil {
		writeErrorJSON(w, http.StatusNotFound, "USER_NOT_FOUND", "no user matches the query")
		return
	}

	writeJSON(w, http.StatusOK, AdminUserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Credits:   user.Credits,
		CreatedAt: user.CreatedAt,
	})
}

// AdminCreateUserRequest is the body for admin user provisioning.
type AdminCreateUserRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Credits *int   `json:"credits,omitempty"`
}

// CreateUser handles POST /api/v1/admin/users
// Provisions a user with the configured starting credit balance
// unless the request overrides it.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req AdminCreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "INVALID_JSON", "request body must be valid JSON")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeErrorJSON(w, http.StatusBadRequest, "INVALID_EMAIL", "a valid email is required")
		return
	}

	credits := h.startingCredits
	if req.Credits != nil {
		if *req.Credits < 0 {
			writeErrorJSON(w, http.StatusBadRequest, "INVALID_CREDITS", "credits must be non-negative")
			return
		}
		credits = *req.Credits
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.userRepo.GetUserByEmail(ctx, req.Email); err == nil {
		writeErrorJSON(w, http.StatusConflict, "EMAIL_TAKEN", "a user with this email already exists")
		return
	}

	user := &model.User{
		ID:        ulid.Make().String(),
		Email:     req.Email,
		Name:      req.Name,
		Credits:   credits,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.userRepo.CreateUser(ctx, user); err != nil {
		h.logger.Error("failed to create user",
			"error", err,
			"email", req.Email,
		)
		writeErrorJSON(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create user")
		return
	}

	h.logger.Info("user created",
		"user_id", user.ID,
		"credits", user.Credits,
	)

	writeJSON(w, http.StatusCreated, AdminUserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Credits:   user.Credits,
		CreatedAt: user.CreatedAt,
	})
}

// LookupGeneration handles GET /api/v1/admin/generations/{id} via query
// GET /api/v1/admin/generations?id={id}
// Inspects a single charge regardless of its owner.
func (h *AdminHandler) LookupGeneration(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeErrorJSON(w, http.StatusBadRequest, "MISSING_ID", "query parameter 'id' is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	gen, err := h.genRepo.GetGenerationByID(ctx, id)
	if err != nil {
		writeErrorJSON(w, http.StatusNotFound, "GENERATION_NOT_FOUND", "no generation matches the id")
		return
	}

	writeJSON(w, http.StatusOK, gen)
}

// AdminAPIKeyListResponse represents the response for API key listing.
type AdminAPIKeyListResponse struct {
	Keys  []model.APIKeyResponse `json:"keys"`
	Total int                    `json:"total"`
}

// ListAPIKeysByUser handles GET /api/v1/admin/api-keys?user_id={id}
// Lists all API keys for a specific user (admin only).
func (h *AdminHandler) ListAPIKeysByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeErrorJSON(w, http.StatusBadRequest, "MISSING_USER_ID", "query parameter 'user_id' is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	keys, err := h.keyRepo.ListAPIKeysByUserID(ctx, userID)
	if err != nil {
		h.logger.Error("failed to list API keys",
			"error", err,
			"user_id", userID,
		)
		writeErrorJSON(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list API keys")
		return
	}

	response := AdminAPIKeyListResponse{
		Keys:  make([]model.APIKeyResponse, 0, len(keys)),
		Total: len(keys),
	}

	for _, key := range keys {
		response.Keys = append(response.Keys, key.ToResponse())
	}

	writeJSON(w, http.StatusOK, response)
}

// StatsResponse represents operational statistics.
type StatsResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime,omitempty"`
}

// Stats handles GET /api/v1/admin/stats
// Returns basic operational statistics.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	response := StatsResponse{
		Timestamp: time.Now().UTC(),
		Service:   "inkwell",
		Version:   "1.0.0", // TODO: inject at build time
	}
	writeJSON(w, http.StatusOK, response)
}

// writeErrorJSON writes a JSON error response.
func writeErrorJSON(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}
