package courses

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

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

type courseRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	CategoryID    int64   `json:"category_id" validate:"required,gt=0"`
	CourseType    string  `json:"course_type" validate:"omitempty,oneof=free paid"`
	CourseMode    string  `json:"course_mode" validate:"omitempty,oneof=online offline hybrid"`
	Price         float64 `json:"course_price" validate:"gte=0"`
	Subtitle      *string `json:"subtitle,omitempty"`
	Description   *string `json:"description,omitempty"`
	Language      string  `json:"language" validate:"omitempty,max=50"`
	Level         string  `json:"level" validate:"omitempty,max=50"`
	TopicTags     *string `json:"topic_tags,omitempty"`
	Thumbnail     *string `json:"course_thumb,omitempty"`
	PromoVideoURL *string `json:"promo_video_url,omitempty" validate:"omitempty,url"`
}

// MountRoutes registers course CRUD routes, gated on "courses".
func (h *Handler) MountRoutes(r chi.Router, guard rbac.Guard) {
	r.Group(func(r chi.Router) {
		r.Use(guard("courses", rbac.ActionRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/slug/{slug}", h.getBySlug)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard("courses", rbac.ActionCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard("courses", rbac.ActionUpdate))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard("courses", rbac.ActionDelete))
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := httpx.PageQuery(r)
	categoryID, _ := strconv.ParseInt(r.URL.Query().Get("category_id"), 10, 64)
	filter := ListFilter{
		CategoryID: categoryID,
		CourseType: r.URL.Query().Get("course_type"),
		Search:     r.URL.Query().Get("search"),
	}
	list, total, err := h.service.List(r.Context(), filter, shared.NewPagination(page, perPage, 0))
	if err != nil {
		h.logger.Error("list courses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OKList(w, "Courses fetched successfully", list, shared.NewPagination(page, perPage, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid course id", shared.ErrInvalidInput))
		return
	}
	course, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Course fetched successfully", course)
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	course, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Course fetched successfully", course)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	course := courseFromRequest(req)
	if user := auth.UserFromContext(r.Context()); user != nil {
		course.OwnerID = &user.ID
	}

	created, err := h.service.Create(r.Context(), course)
	if err != nil {
		h.logger.Error("create course", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Course created successfully", created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid course id", shared.ErrInvalidInput))
		return
	}
	var req courseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.Update(r.Context(), id, courseFromRequest(req))
	if err != nil {
		h.logger.Error("update course", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Course updated successfully", updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid course id", shared.ErrInvalidInput))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete course", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Course deleted successfully", nil)
}

func courseFromRequest(req courseRequest) Course {
	return Course{
		Title:         req.Title,
		CategoryID:    req.CategoryID,
		CourseType:    req.CourseType,
		CourseMode:    req.CourseMode,
		Price:         req.Price,
		Subtitle:      req.Subtitle,
		Description:   req.Description,
		Language:      req.Language,
		Level:         req.Level,
		TopicTags:     req.TopicTags,
		Thumbnail:     req.Thumbnail,
		PromoVideoURL: req.PromoVideoURL,
	}
}
