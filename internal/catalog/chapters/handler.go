package chapters

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

type chapterItem struct {
	Name        string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description,omitempty"`
	Order       int     `json:"order" validate:"gte=0"`
}

type createChaptersRequest struct {
	CourseID int64         `json:"course_id" validate:"required,gt=0"`
	Chapters []chapterItem `json:"chapters" validate:"required,min=1,dive"`
}

type updateChapterRequest struct {
	Name        string  `json:"chapter_name" validate:"required,max=200"`
	Description *string `json:"description,omitempty"`
	Order       int     `json:"order" validate:"gte=0"`
}

type contentRequest struct {
	ChapterID   int64   `json:"chapter_id" validate:"omitempty,gt=0"`
	Title       string  `json:"title" validate:"required,max=200"`
	ContentType string  `json:"content_type" validate:"omitempty,oneof=text video document quiz"`
	Body        *string `json:"body,omitempty"`
	MediaKey    *string `json:"media_key,omitempty"`
	Order       int     `json:"order" validate:"gte=0"`
}

// MountRoutes registers chapter and content routes, gated on "course_chapter".
func (h *Handler) MountRoutes(r chi.Router, guard rbac.Guard) {
	r.Group(func(r chi.Router) {
		r.Use(guard("course_chapter", rbac.ActionRead))
		r.Get("/course/{courseID}", h.listByCourse)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard("course_chapter", rbac.ActionCreate))
		r.Post("/", h.createBatch)
		r.Post("/{id}/contents", h.addContent)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard("course_chapter", rbac.ActionUpdate))
		r.Put("/{id}", h.update)
		r.Put("/contents/{id}", h.updateContent)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard("course_chapter", rbac.ActionDelete))
		r.Delete("/{id}", h.delete)
		r.Delete("/contents/{id}", h.deleteContent)
	})
}

func (h *Handler) listByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(chi.URLParam(r, "courseID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid course id", shared.ErrInvalidInput))
		return
	}
	list, err := h.service.ListByCourse(r.Context(), courseID)
	if err != nil {
		h.logger.Error("list chapters", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Chapters fetched successfully", list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid chapter id", shared.ErrInvalidInput))
		return
	}
	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Chapter fetched successfully", detail)
}

func (h *Handler) createBatch(w http.ResponseWriter, r *http.Request) {
	var req createChaptersRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	chapters := make([]Chapter, 0, len(req.Chapters))
	for _, item := range req.Chapters {
		chapters = append(chapters, Chapter{
			Name:        item.Name,
			Description: item.Description,
			Order:       item.Order,
		})
	}
	var ownerID *int64
	if user := auth.UserFromContext(r.Context()); user != nil {
		ownerID = &user.ID
	}
	created, err := h.service.CreateBatch(r.Context(), req.CourseID, ownerID, chapters)
	if err != nil {
		h.logger.Error("create chapters", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Chapters created successfully", created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid chapter id", shared.ErrInvalidInput))
		return
	}
	var req updateChapterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.Update(r.Context(), id, Chapter{
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
	})
	if err != nil {
		h.logger.Error("update chapter", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Chapter updated successfully", updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid chapter id", shared.ErrInvalidInput))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete chapter", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Chapter deleted successfully", nil)
}

func (h *Handler) addContent(w http.ResponseWriter, r *http.Request) {
	chapterID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid chapter id", shared.ErrInvalidInput))
		return
	}
	var req contentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.AddContent(r.Context(), Content{
		ChapterID:   chapterID,
		Title:       req.Title,
		ContentType: req.ContentType,
		Body:        req.Body,
		MediaKey:    req.MediaKey,
		Order:       req.Order,
	})
	if err != nil {
		h.logger.Error("add chapter content", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Content added successfully", created)
}

func (h *Handler) updateContent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid content id", shared.ErrInvalidInput))
		return
	}
	var req contentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.UpdateContent(r.Context(), id, Content{
		Title:       req.Title,
		ContentType: req.ContentType,
		Body:        req.Body,
		MediaKey:    req.MediaKey,
		Order:       req.Order,
	})
	if err != nil {
		h.logger.Error("update chapter content", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Content updated successfully", updated)
}

func (h *Handler) deleteContent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid content id", shared.ErrInvalidInput))
		return
	}
	if err := h.service.DeleteContent(r.Context(), id); err != nil {
		h.logger.Error("delete chapter content", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Content deleted successfully", nil)
}
