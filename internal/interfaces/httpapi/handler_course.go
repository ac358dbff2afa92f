package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/thudson/golf-scorecard/internal/domain/course"
	"github.com/thudson/golf-scorecard/internal/usecase"
)

type createCourseRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Location    string `json:"location" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	HoleCount   int    `json:"holeCount" validate:"omitempty,min=1,max=36"`
	HoleLengths []int  `json:"holeLengths" validate:"omitempty,dive,min=0"`
}

type updateCourseRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type updateHoleRequest struct {
	Par        *int `json:"par" validate:"omitempty,min=2,max=8"`
	LengthFeet *int `json:"lengthFeet" validate:"omitempty,min=0"`
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateCourse")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createCourseRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.courseService.CreateCourse(ctx, principal.ID, usecase.CreateCourseInput{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		HoleCount:   req.HoleCount,
		HoleLengths: req.HoleLengths,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create course failed", "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, courseToDTO(ctx, created))
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCourses")
	defer span.End()

	courses, err := h.courseService.ListCourses(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list courses failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]courseDTO, 0, len(courses))
	for _, c := range courses {
		items = append(items, courseToDTO(ctx, c))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SearchCourses(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchCourses")
	defer span.End()

	query := r.URL.Query()

	minHoles, err := parseQueryInt(query.Get("minHoles"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid minHoles: %v", usecase.ErrInvalidInput, err))
		return
	}
	maxHoles, err := parseQueryInt(query.Get("maxHoles"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid maxHoles: %v", usecase.ErrInvalidInput, err))
		return
	}
	sortBy, err := course.ParseSortField(query.Get("sortBy"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	courses, err := h.courseService.SearchCourses(ctx, course.SearchFilter{
		Query:    query.Get("q"),
		MinHoles: minHoles,
		MaxHoles: maxHoles,
		SortBy:   sortBy,
		SortDesc: strings.EqualFold(query.Get("sortOrder"), "desc"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "search courses failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]courseDTO, 0, len(courses))
	for _, c := range courses {
		items = append(items, courseToDTO(ctx, c))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCourse")
	defer span.End()

	courseID := strings.TrimSpace(r.PathValue("courseID"))

	found, err := h.courseService.GetCourse(ctx, courseID)
	if err != nil {
		h.logger.WarnContext(ctx, "get course failed", "course_id", courseID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, courseToDTO(ctx, found))
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateCourse")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	courseID := strings.TrimSpace(r.PathValue("courseID"))

	var req updateCourseRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.courseService.UpdateCourse(ctx, principal.ID, courseID, usecase.UpdateCourseInput{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update course failed", "user_id", principal.ID, "course_id", courseID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, courseToDTO(ctx, updated))
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteCourse")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	courseID := strings.TrimSpace(r.PathValue("courseID"))

	if err := h.courseService.DeleteCourse(ctx, principal.ID, courseID); err != nil {
		h.logger.WarnContext(ctx, "delete course failed", "user_id", principal.ID, "course_id", courseID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) UpdateHole(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateHole")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	courseID := strings.TrimSpace(r.PathValue("courseID"))
	holeNumber, err := strconv.Atoi(strings.TrimSpace(r.PathValue("holeNumber")))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid hole number", usecase.ErrInvalidInput))
		return
	}

	var req updateHoleRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.courseService.UpdateHole(ctx, principal.ID, courseID, holeNumber, usecase.UpdateHoleInput{
		Par:        req.Par,
		LengthFeet: req.LengthFeet,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update hole failed", "user_id", principal.ID, "course_id", courseID, "hole_number", holeNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, holeToDTO(updated))
}

func parseQueryInt(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	return strconv.Atoi(trimmed)
}
