package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lumen-lms/lumen/internal/auth"
	"github.com/lumen-lms/lumen/internal/catalog/categories"
	"github.com/lumen-lms/lumen/internal/catalog/chapters"
	"github.com/lumen-lms/lumen/internal/catalog/courses"
	"github.com/lumen-lms/lumen/internal/learning/batches"
	"github.com/lumen-lms/lumen/internal/learning/discussions"
	"github.com/lumen-lms/lumen/internal/modules"
	"github.com/lumen-lms/lumen/internal/observability"
	"github.com/lumen-lms/lumen/internal/rbac"
	"github.com/lumen-lms/lumen/internal/roles"
	"github.com/lumen-lms/lumen/internal/users"
	"github.com/lumen-lms/lumen/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Guard              rbac.Guard
	AuthHandler        *auth.Handler
	PermissionsHandler *rbac.Handler
	RolesHandler       *roles.Handler
	ModulesHandler     *modules.Handler
	UsersHandler       *users.Handler
	CategoriesHandler  *categories.Handler
	CoursesHandler     *courses.Handler
	ChaptersHandler    *chapters.Handler
	BatchesHandler     *batches.Handler
	DiscussionsHandler *discussions.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults. Every
// resource group below /api carries the authorization gate; /api/auth,
// /healthz and /metrics stay open.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		if params.PermissionsHandler != nil {
			r.Route("/permissions", func(r chi.Router) {
				params.PermissionsHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.RolesHandler != nil {
			r.Route("/roles", func(r chi.Router) {
				params.RolesHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.ModulesHandler != nil {
			r.Route("/modules", func(r chi.Router) {
				params.ModulesHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.UsersHandler != nil {
			r.Route("/users", func(r chi.Router) {
				params.UsersHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.CategoriesHandler != nil {
			r.Route("/course-categories", func(r chi.Router) {
				params.CategoriesHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.CoursesHandler != nil {
			r.Route("/courses", func(r chi.Router) {
				params.CoursesHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.ChaptersHandler != nil {
			r.Route("/chapters", func(r chi.Router) {
				params.ChaptersHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.BatchesHandler != nil {
			r.Route("/batches", func(r chi.Router) {
				params.BatchesHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.DiscussionsHandler != nil {
			r.Route("/discussions", func(r chi.Router) {
				params.DiscussionsHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
