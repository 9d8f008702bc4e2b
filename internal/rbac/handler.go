package rbac

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lumen-lms/lumen/internal/platform/httpx"
	"github.com/lumen-lms/lumen/internal/shared"
)

// Handler exposes permission-matrix management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// AssignPermissionRequest is the wire payload for assigning permissions to a
// role on a module. PermissionIDs is the ordered tuple
// [create, read, update, delete] with 0/1 entries.
type AssignPermissionRequest struct {
	RoleID        int64 `json:"role_id" validate:"required,gt=0"`
	ModuleID      int64 `json:"module_id" validate:"required,gt=0"`
	PermissionIDs []int `json:"permission_ids" validate:"required"`
}

// MountRoutes registers permission routes, gated on the "permissions" module.
func (h *Handler) MountRoutes(r chi.Router, guard Guard) {
	r.Group(func(r chi.Router) {
		r.Use(guard("permissions", ActionUpdate))
		r.Post("/assign", h.assign)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard("permissions", ActionRead))
		r.Get("/user/{id}", h.userPermissions)
	})
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	var req AssignPermissionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	perm, err := h.service.Assign(r.Context(), req.RoleID, req.ModuleID, req.PermissionIDs)
	if err != nil {
		h.logger.Error("assign permissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Permissions assigned successfully", perm)
}

func (h *Handler) userPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid user id", shared.ErrInvalidInput))
		return
	}
	perms, err := h.service.UserPermissions(r.Context(), id)
	if err != nil {
		h.logger.Error("list user permissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Permissions fetched successfully", perms)
}
