package batches

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lumen-lms/lumen/internal/auth"
	"github.com/lumen-lms/lumen/internal/platform/httpx"
	"github.com/lumen-lms/lumen/internal/rbac"
	"github.com/lumen-lms/lumen/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

type batchRequest struct {
	Name        string    `json:"name" validate:"required,max=100"`
	Description *string   `json:"description,omitempty"`
	CourseID    int64     `json:"course_id" validate:"required,gt=0"`
	SessionID   string    `json:"session_id" validate:"required,max=50"`
	SemesterID  string    `json:"semester_id" validate:"required,max=50"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	Status      string    `json:"status" validate:"omitempty,oneof=active inactive"`
}

type assignRequest struct {
	StudentIDs []int64 `json:"student_ids" validate:"required,min=1,dive,gt=0"`
}

// MountRoutes registers batch routes, gated on "student_batches".
func (h *Handler) MountRoutes(r chi.Router, guard rbac.Guard) {
	r.Group(func(r chi.Router) {
		r.Use(guard("student_batches", rbac.ActionRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/{id}/assignments", h.assignments)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard("student_batches", rbac.ActionCreate))
		r.Post("/", h.create)
		r.Post("/{id}/assign", h.assign)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard("student_batches", rbac.ActionUpdate))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard("student_batches", rbac.ActionDelete))
		r.Delete("/{id}", h.delete)
		r.Delete("/{id}/students/{studentID}", h.unassign)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := httpx.PageQuery(r)
	list, total, err := h.service.List(r.Context(), shared.NewPagination(page, perPage, 0))
	if err != nil {
		h.logger.Error("list batches", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OKList(w, "Student batches fetched successfully", list, shared.NewPagination(page, perPage, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid batch id", shared.ErrInvalidInput))
		return
	}
	batch, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Student batch fetched successfully", batch)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	batch := batchFromRequest(req)
	if user := auth.UserFromContext(r.Context()); user != nil {
		batch.OwnerID = &user.ID
	}
	created, err := h.service.Create(r.Context(), batch)
	if err != nil {
		h.logger.Error("create batch", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Student batch created successfully", created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid batch id", shared.ErrInvalidInput))
		return
	}
	var req batchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.Update(r.Context(), id, batchFromRequest(req))
	if err != nil {
		h.logger.Error("update batch", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Student batch updated successfully", updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid batch id", shared.ErrInvalidInput))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete batch", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Student batch deleted successfully", nil)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid batch id", shared.ErrInvalidInput))
		return
	}
	var req assignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Assign(r.Context(), id, req.StudentIDs)
	if err != nil {
		h.logger.Error("assign students", slog.Any("error", err), slog.Int64("batch", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Students assigned successfully", created)
}

func (h *Handler) assignments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid batch id", shared.ErrInvalidInput))
		return
	}
	list, err := h.service.Assignments(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Batch assignments fetched successfully", list)
}

func (h *Handler) unassign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid batch id", shared.ErrInvalidInput))
		return
	}
	studentID, err := strconv.ParseInt(chi.URLParam(r, "studentID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid student id", shared.ErrInvalidInput))
		return
	}
	if err := h.service.Unassign(r.Context(), id, studentID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Student removed from batch successfully", nil)
}

func batchFromRequest(req batchRequest) Batch {
	return Batch{
		Name:        req.Name,
		Description: req.Description,
		CourseID:    req.CourseID,
		SessionID:   req.SessionID,
		SemesterID:  req.SemesterID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
	}
}
