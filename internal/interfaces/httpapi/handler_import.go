package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/thudson/golf-scorecard/internal/usecase"
)

type importPlayerRequest struct {
	Name    string `json:"name" validate:"omitempty,max=200"`
	UserID  string `json:"userId" validate:"omitempty"`
	Strokes []int  `json:"strokes" validate:"omitempty,dive,min=0,max=99"`
}

type importRoundRequest struct {
	CourseID string                `json:"courseId" validate:"required"`
	Date     time.Time             `json:"date"`
	Status   string                `json:"status" validate:"omitempty"`
	Players  []importPlayerRequest `json:"players" validate:"required,min=1,dive"`
}

type importRoundsRequest struct {
	Rounds     []importRoundRequest `json:"rounds" validate:"required,min=1,dive"`
	MaxWorkers int                  `json:"maxWorkers" validate:"omitempty,min=1,max=32"`
}

func (h *Handler) ImportRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportRounds")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req importRoundsRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rounds := make([]usecase.ImportRoundInput, 0, len(req.Rounds))
	for _, item := range req.Rounds {
		players := make([]usecase.ImportPlayerInput, 0, len(item.Players))
		for _, p := range item.Players {
			players = append(players, usecase.ImportPlayerInput{
				Name:    p.Name,
				UserID:  p.UserID,
				Strokes: p.Strokes,
			})
		}
		rounds = append(rounds, usecase.ImportRoundInput{
			CourseID: item.CourseID,
			Date:     item.Date,
			Status:   item.Status,
			Players:  players,
		})
	}

	result, err := h.importService.ImportRounds(ctx, principal, usecase.ImportInput{
		Rounds:     rounds,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "import rounds failed", "user_id", principal.ID, "round_count", len(rounds), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, importResultToDTO(result))
}
