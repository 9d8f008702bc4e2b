package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lumen-lms/lumen/internal/observability"
	"github.com/lumen-lms/lumen/internal/platform/httpx"
	"github.com/lumen-lms/lumen/internal/rbac"
	"github.com/lumen-lms/lumen/internal/shared"
)

// Middleware adapts the Gate into chi route-group middleware.
type Middleware struct {
	Gate    *Gate
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Require enforces (module, action) on the wrapped routes. On success the
// authenticated user is stored in the request context; on failure the typed
// denial is written and the chain stops. Its signature matches rbac.Guard.
func (m Middleware) Require(module string, action rbac.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := m.Gate.Authorize(r.Context(), r.Header.Get("Authorization"), module, action)
			if err != nil {
				m.reject(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// Authenticate validates the bearer token only; no permission is required.
// Used by endpoints gated on identity alone (logout, own profile).
func (m Middleware) Authenticate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := m.Gate.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				m.reject(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

func (m Middleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	if m.Metrics != nil {
		m.Metrics.RecordDenial(denialKind(err))
	}
	if m.Logger != nil && denialKind(err) == "error" {
		m.Logger.Error("authorization gate", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func denialKind(err error) string {
	switch {
	case errors.Is(err, shared.ErrMalformedHeader):
		return "malformed_header"
	case errors.Is(err, shared.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, shared.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, shared.ErrPermissionDenied):
		return "permission_denied"
	default:
		return "error"
	}
}
