package discussions

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

type discussionRequest struct {
	CourseID  int64   `json:"course_id" validate:"required,gt=0"`
	ChapterID int64   `json:"chapter_id" validate:"required,gt=0"`
	ContentID int64   `json:"content_id" validate:"required,gt=0"`
	Title     *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Content   string  `json:"content" validate:"required"`
}

type commentRequest struct {
	ParentID *int64 `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	Content  string `json:"content" validate:"required"`
}

// MountRoutes registers discussion routes, gated on "discussions". Create,
// comment and like only need Read on the module: any enrolled participant can
// post; Delete flags moderators.
func (h *Handler) MountRoutes(r chi.Router, guard rbac.Guard) {
	r.Group(func(r chi.Router) {
		r.Use(guard("discussions", rbac.ActionRead))
		r.Get("/content/{contentID}", h.listByContent)
		r.Get("/{id}", h.get)
		r.Post("/", h.create)
		r.Post("/{id}/like", h.like)
		r.Post("/{id}/comments", h.addComment)
		r.Delete("/{id}", h.deleteOwn)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard("discussions", rbac.ActionDelete))
		r.Delete("/{id}/moderate", h.deleteAny)
		r.Delete("/comments/{id}", h.deleteComment)
	})
}

func (h *Handler) listByContent(w http.ResponseWriter, r *http.Request) {
	contentID, err := strconv.ParseInt(chi.URLParam(r, "contentID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid content id", shared.ErrInvalidInput))
		return
	}
	page, perPage := httpx.PageQuery(r)
	list, total, err := h.service.ListByContent(r.Context(), contentID, shared.NewPagination(page, perPage, 0))
	if err != nil {
		h.logger.Error("list discussions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OKList(w, "Discussions fetched successfully", list, shared.NewPagination(page, perPage, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid discussion id", shared.ErrInvalidInput))
		return
	}
	thread, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Discussion fetched successfully", thread)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httpx.RespondError(w, shared.ErrInvalidToken)
		return
	}
	var req discussionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), Discussion{
		CourseID:  req.CourseID,
		ChapterID: req.ChapterID,
		ContentID: req.ContentID,
		UserID:    user.ID,
		Title:     req.Title,
		Content:   req.Content,
	})
	if err != nil {
		h.logger.Error("create discussion", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Discussion created successfully", created)
}

func (h *Handler) like(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid discussion id", shared.ErrInvalidInput))
		return
	}
	likes, err := h.service.Like(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Discussion liked", map[string]int{"likes": likes})
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httpx.RespondError(w, shared.ErrInvalidToken)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid discussion id", shared.ErrInvalidInput))
		return
	}
	var req commentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.AddComment(r.Context(), Comment{
		DiscussionID: id,
		UserID:       user.ID,
		ParentID:     req.ParentID,
		Content:      req.Content,
	})
	if err != nil {
		h.logger.Error("add comment", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Comment added successfully", created)
}

func (h *Handler) deleteOwn(w http.ResponseWriter, r *http.Request) {
	h.deleteDiscussion(w, r, false)
}

func (h *Handler) deleteAny(w http.ResponseWriter, r *http.Request) {
	h.deleteDiscussion(w, r, true)
}

func (h *Handler) deleteDiscussion(w http.ResponseWriter, r *http.Request, moderator bool) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httpx.RespondError(w, shared.ErrInvalidToken)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid discussion id", shared.ErrInvalidInput))
		return
	}
	if err := h.service.Delete(r.Context(), id, user.ID, moderator); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Discussion deleted successfully", nil)
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid comment id", shared.ErrInvalidInput))
		return
	}
	if err := h.service.DeleteComment(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Comment deleted successfully", nil)
}
