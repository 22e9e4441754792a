package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/handler/dto"
	"github.com/inkwell/inkwell/internal/service"
)

// UsageHandler handles usage reporting requests. Figures come from the
// async usage pipeline and can lag the generation log by a few seconds.
type UsageHandler struct {
	svc    *service.UsageService
	logger *slog.Logger
}

// NewUsageHandler creates a new UsageHandler.
func NewUsageHandler(svc *service.UsageService, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		svc:    svc,
		logger: logger.With("component", "handler.usage"),
	}
}

// GetUsage handles GET /api/v1/usage.
func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	days := service.DefaultUsageDays
	if d := r.URL.Query().Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "INVALID_DAYS", "Days must be a positive integer")
			return
		}
		if parsed > service.MaxUsageDays {
			parsed = service.MaxUsageDays
		}
		days = parsed
	}

	summary, err := h.svc.Summary(r.Context(), authCtx.UserID, days)
	if err != nil {
		h.logger.Error("failed to get usage summary", "user_id", authCtx.UserID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch usage")
		return
	}

	dailyStats, err := h.svc.Daily(r.Context(), authCtx.UserID, days)
	if err != nil {
		h.logger.Error("failed to get daily usage", "user_id", authCtx.UserID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch usage")
		return
	}

	response := dto.UsageResponse{Days: days}
	response.Summary.Generations = summary.Generations
	response.Summary.CreditsSpent = summary.CreditsSpent
	response.Daily = make([]dto.DailyUsageEntry, 0, len(dailyStats))
	for _, stat := range dailyStats {
		response.Daily = append(response.Daily, dto.DailyUsageEntry{
			Date:         stat.Date.Format("2006-01-02"),
			Generations:  stat.Generations,
			CreditsSpent: stat.CreditsSpent,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// writeError writes a JSON error response.
func (h *UsageHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
