package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumen-lms/lumen/internal/app"
	"github.com/lumen-lms/lumen/internal/auth"
	"github.com/lumen-lms/lumen/internal/catalog/categories"
	"github.com/lumen-lms/lumen/internal/catalog/chapters"
	"github.com/lumen-lms/lumen/internal/catalog/courses"
	"github.com/lumen-lms/lumen/internal/learning/batches"
	"github.com/lumen-lms/lumen/internal/learning/discussions"
	"github.com/lumen-lms/lumen/internal/modules"
	"github.com/lumen-lms/lumen/internal/observability"
	"github.com/lumen-lms/lumen/internal/platform/cache"
	"github.com/lumen-lms/lumen/internal/rbac"
	"github.com/lumen-lms/lumen/internal/roles"
	"github.com/lumen-lms/lumen/internal/shared"
	"github.com/lumen-lms/lumen/internal/users"
	"github.com/lumen-lms/lumen/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, course cache disabled", slog.Any("error", err))
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	activityLog := shared.NewActivityLogger(dbpool)

	tokens, err := auth.NewTokenService(cfg.AuthSecret, cfg.AuthAlgorithm, cfg.AuthTokenTTL)
	if err != nil {
		logger.Error("init token service", slog.Any("error", err))
		os.Exit(1)
	}

	rbacRepo := rbac.NewRepository(dbpool)
	rbacService := rbac.NewService(rbacRepo)
	rbacHandler := rbac.NewHandler(logger, rbacService)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokens, activityLog, logger)
	gate := auth.NewGate(tokens, authRepo, rbacService)
	authMW := auth.Middleware{Gate: gate, Logger: logger, Metrics: metrics}
	authHandler := auth.NewHandler(logger, authService, authMW)

	rolesService := roles.NewService(roles.NewRepository(dbpool))
	rolesHandler := roles.NewHandler(logger, rolesService)

	modulesService := modules.NewService(modules.NewRepository(dbpool))
	modulesHandler := modules.NewHandler(logger, modulesService)

	usersService := users.NewService(users.NewRepository(dbpool), rbacService)
	usersHandler := users.NewHandler(logger, usersService)

	categoriesService := categories.NewService(categories.NewRepository(dbpool))
	categoriesHandler := categories.NewHandler(logger, categoriesService)

	var courseCache *cache.JSONCache
	if redisClient != nil {
		courseCache = cache.NewJSONCache(redisClient, "courses:", cfg.CacheTTL)
	}
	coursesService := courses.NewService(courses.NewRepository(dbpool), courseCache, logger)
	coursesHandler := courses.NewHandler(logger, coursesService)

	chaptersService := chapters.NewService(chapters.NewRepository(dbpool))
	chaptersHandler := chapters.NewHandler(logger, chaptersService)

	batchesService := batches.NewService(batches.NewRepository(dbpool))
	batchesHandler := batches.NewHandler(logger, batchesService)

	discussionsService := discussions.NewService(discussions.NewRepository(dbpool))
	discussionsHandler := discussions.NewHandler(logger, discussionsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Guard:              authMW.Require,
		AuthHandler:        authHandler,
		PermissionsHandler: rbacHandler,
		RolesHandler:       rolesHandler,
		ModulesHandler:     modulesHandler,
		UsersHandler:       usersHandler,
		CategoriesHandler:  categoriesHandler,
		CoursesHandler:     coursesHandler,
		ChaptersHandler:    chaptersHandler,
		BatchesHandler:     batchesHandler,
		DiscussionsHandler: discussionsHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
