package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/thudson/golf-scorecard/internal/usecase"
)

type createRoundRequest struct {
	CourseID       string    `json:"courseId" validate:"required"`
	Date           time.Time `json:"date"`
	PlayerNames    []string  `json:"playerNames" validate:"omitempty,max=50"`
	ParticipantIDs []string  `json:"participantIds" validate:"omitempty,max=50"`
}

type updateRoundStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type addPlayerRequest struct {
	Name   string `json:"name" validate:"omitempty,max=200"`
	UserID string `json:"userId" validate:"omitempty"`
}

type updateScoreRequest struct {
	Strokes int `json:"strokes" validate:"min=0,max=99"`
}

func (h *Handler) CreateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRound")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createRoundRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.roundService.CreateRound(ctx, principal, usecase.CreateRoundInput{
		CourseID:       req.CourseID,
		Date:           req.Date,
		PlayerNames:    req.PlayerNames,
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create round failed", "user_id", principal.ID, "course_id", req.CourseID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, roundToDTO(ctx, created))
}

func (h *Handler) ListRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRounds")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	rounds, err := h.roundService.ListRounds(ctx, principal.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "list rounds failed", "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]roundDTO, 0, len(rounds))
	for _, item := range rounds {
		items = append(items, roundToDTO(ctx, item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRound")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	roundID := strings.TrimSpace(r.PathValue("roundID"))

	found, err := h.roundService.GetRound(ctx, principal.ID, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "get round failed", "user_id", principal.ID, "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(ctx, found))
}

func (h *Handler) UpdateRoundStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRoundStatus")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	roundID := strings.TrimSpace(r.PathValue("roundID"))

	var req updateRoundStatusRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.roundService.UpdateRoundStatus(ctx, principal.ID, roundID, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "update round status failed", "user_id", principal.ID, "round_id", roundID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(ctx, updated))
}

func (h *Handler) AddPlayerToRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayerToRound")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	roundID := strings.TrimSpace(r.PathValue("roundID"))

	var req addPlayerRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	player, err := h.roundService.AddPlayerToRound(ctx, principal.ID, roundID, usecase.AddPlayerInput{
		Name:   req.Name,
		UserID: req.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add player to round failed", "user_id", principal.ID, "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(player))
}

func (h *Handler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateScore")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	roundID := strings.TrimSpace(r.PathValue("roundID"))
	playerID := strings.TrimSpace(r.PathValue("playerID"))
	holeID := strings.TrimSpace(r.PathValue("holeID"))

	var req updateScoreRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	score, err := h.roundService.UpdateScore(ctx, principal.ID, roundID, playerID, holeID, req.Strokes)
	if err != nil {
		h.logger.WarnContext(ctx, "update score failed", "user_id", principal.ID, "round_id", roundID, "player_id", playerID, "hole_id", holeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreToDTO(score))
}
