package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/thudson/golf-scorecard/internal/usecase"
)

func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerStats")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	stats, err := h.statsService.GetPlayerStats(ctx, principal.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player stats failed", "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerStatsToDTO(ctx, stats))
}

func (h *Handler) GetRoundStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoundStats")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	roundID := strings.TrimSpace(r.PathValue("roundID"))

	stats, err := h.statsService.GetRoundStats(ctx, principal.ID, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "get round stats failed", "user_id", principal.ID, "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundStatsToDTO(ctx, stats))
}
