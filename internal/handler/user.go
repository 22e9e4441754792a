package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/handler/dto"
	"github.com/inkwell/inkwell/internal/service"
)

// UserHandler handles account endpoints.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Me handles GET /api/v1/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  "UNAUTHORIZED",
		})
		return
	}

	user, generations, err := h.svc.Profile(r.Context(), authCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{
				Error: "User account not found",
				Code:  "USER_NOT_FOUND",
			})
			return
		}
		h.logger.Error("profile lookup failed", "user_id", authCtx.UserID, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	writeJSON(w, http.StatusOK, dto.MeResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Credits:     user.Credits,
		Generations: generations,
		CreatedAt:   user.CreatedAt,
	})
}
