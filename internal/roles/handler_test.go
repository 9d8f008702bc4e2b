package roles

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-lms/lumen/internal/platform/httpx"
	"github.com/lumen-lms/lumen/internal/rbac"
	"github.com/lumen-lms/lumen/internal/shared"
)

// allowGuard grants the listed module/action pairs and denies everything else,
// standing in for the token-backed middleware.
func allowGuard(granted ...string) rbac.Guard {
	set := map[string]struct{}{}
	for _, g := range granted {
		set[g] = struct{}{}
	}
	return func(module string, action rbac.Action) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if _, ok := set[module+"/"+action.String()]; !ok {
					httpx.RespondError(w, shared.ErrPermissionDenied)
					return
				}
				next.ServeHTTP(w, r)
			})
		}
	}
}

func newTestRouter(t *testing.T, guard rbac.Guard) *chi.Mux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(newMockRepository()))

	r := chi.NewRouter()
	r.Route("/api/roles", func(r chi.Router) {
		h.MountRoutes(r, guard)
	})
	return r
}

func TestCreateAndGetRoleEndpoints(t *testing.T) {
	router := newTestRouter(t, allowGuard("roles/create", "roles/read"))

	req := httptest.NewRequest(http.MethodPost, "/api/roles/", strings.NewReader(`{"name":"admin"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"admin"`)

	req = httptest.NewRequest(http.MethodGet, "/api/roles/1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"admin"`)
}

func TestRoleEndpointsDenyWithoutPermission(t *testing.T) {
	router := newTestRouter(t, allowGuard("roles/read"))

	req := httptest.NewRequest(http.MethodPost, "/api/roles/", strings.NewReader(`{"name":"admin"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error_code":403`)
}

func TestCreateRoleEndpointValidation(t *testing.T) {
	router := newTestRouter(t, allowGuard("roles/create"))

	req := httptest.NewRequest(http.MethodPost, "/api/roles/", strings.NewReader(`{"name":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListRolesEndpointPagination(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMockRepository()
	h := NewHandler(logger, NewService(repo))
	router := chi.NewRouter()
	router.Route("/api/roles", func(r chi.Router) {
		h.MountRoutes(r, allowGuard("roles/read"))
	})

	for _, name := range []string{"admin", "teacher", "student"} {
		_, err := repo.Create(context.Background(), Role{Name: name})
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/roles/?page=1&per_page=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":3`)
	assert.Contains(t, rec.Body.String(), `"per_page":2`)
}
