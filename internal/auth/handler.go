package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lumen-lms/lumen/internal/platform/httpx"
	"github.com/lumen-lms/lumen/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, mw Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		mw:        mw,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes. Register and login are public; logout
// requires a valid token but no permission.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate())
		r.Post("/logout", h.logout)
	})
}

type registerRequest struct {
	Name       string     `json:"name" validate:"required,max=100"`
	Username   string     `json:"username" validate:"required,min=3,max=50"`
	Password   string     `json:"password" validate:"required,min=8"`
	Email      string     `json:"email" validate:"required,email"`
	Mobile     string     `json:"mobile" validate:"required,max=20"`
	DOB        *time.Time `json:"dob,omitempty"`
	FatherName *string    `json:"father_name,omitempty"`
	MotherName *string    `json:"mother_name,omitempty"`
	RoleID     *int64     `json:"role_id,omitempty" validate:"omitempty,gt=0"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.Register(r.Context(), RegisterInput{
		Name:       req.Name,
		Username:   req.Username,
		Password:   req.Password,
		Email:      req.Email,
		Mobile:     req.Mobile,
		DOB:        req.DOB,
		FatherName: req.FatherName,
		MotherName: req.MotherName,
		RoleID:     req.RoleID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "User registered successfully", user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Login successful", loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		httpx.RespondError(w, shared.ErrInvalidToken)
		return
	}
	if err := h.service.Logout(r.Context(), user.ID); err != nil {
		h.logger.Error("logout", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "User logged out successfully", nil)
}
