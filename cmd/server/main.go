// Package main is the entry point of the AlphaMind backend: the REST
// API for the course catalog and the enrollment/progress engine.
//
// The layout follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: use case orchestration (Commands/Queries, CQRS)
// - Infrastructure: repositories over PostgreSQL, Redis cache, auth
// - Interface: HTTP handlers
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alphamind/alphamind-backend/config"
	"github.com/alphamind/alphamind-backend/internal/application/command"
	"github.com/alphamind/alphamind-backend/internal/application/policy"
	"github.com/alphamind/alphamind-backend/internal/application/query"
	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/infrastructure/auth"
	"github.com/alphamind/alphamind-backend/internal/infrastructure/persistence/postgres"
	"github.com/alphamind/alphamind-backend/internal/infrastructure/persistence/redis"
	httpserver "github.com/alphamind/alphamind-backend/internal/interface/http"
	"github.com/alphamind/alphamind-backend/internal/interface/http/handlers"
	"github.com/alphamind/alphamind-backend/pkg/logger"
	"github.com/alphamind/alphamind-backend/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	logOpts := logger.DefaultOptions()
	logOpts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		logOpts.Level = logger.LevelDebug
	}
	log := logger.New(logOpts)

	log.Info("starting AlphaMind backend",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")

	var dbConn *postgres.Connection
	if cfg.Database.URL != "" {
		dbConn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	} else {
		dbConn, err = postgres.NewConnection(ctx, postgres.DefaultConfig())
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	// The database may still be starting up alongside us; give it a few
	// attempts before giving up.
	err = retry.DatabaseRetrier().Do(ctx, func(ctx context.Context) error {
		if err := dbConn.Ping(ctx); err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.MigrateOnStart {
		log.Info("running database migrations")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations completed")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories")
	catalogRepo := postgres.NewCatalogRepository(dbConn)
	enrollmentRepo := postgres.NewEnrollmentRepository(dbConn)
	progressRepo := postgres.NewProgressRepository(dbConn)
	identityRepo := postgres.NewIdentityRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REDIS CACHE (optional)
	// Catalog reads go through the course tree cache when Redis is up;
	// otherwise they fall through to PostgreSQL directly.
	// ─────────────────────────────────────────────────────────────────────────
	var catalogReader catalog.Reader = catalogRepo
	var invalidator command.TreeInvalidator = command.NoopInvalidator{}
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis", logger.String("addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)))

		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, catalog caching disabled", logger.Err(err))
		} else {
			defer func() {
				log.Info("closing Redis connection")
				_ = redisCache.Close()
			}()
			treeCache := redis.NewCourseTreeCache(catalogRepo, redisCache, log)
			catalogReader = treeCache
			invalidator = treeCache
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. AUTH
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Auth.JWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET is not set, using an empty signing key (development only)")
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. APPLICATION LAYER (CQRS)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer")

	gate := policy.NewGate(enrollmentRepo, catalogReader)

	// Queries
	listCourses := query.NewListCoursesHandler(catalogReader)
	getCourseTree := query.NewGetCourseTreeHandler(catalogReader)
	getCourseProgress := query.NewGetCourseProgressHandler(gate, catalogReader, progressRepo)
	listEnrollments := query.NewListEnrollmentsHandler(enrollmentRepo, catalogReader, progressRepo)
	authenticate := query.NewAuthenticateLearnerHandler(identityRepo, hasher, tokens)

	// Commands
	register := command.NewRegisterLearnerHandler(identityRepo, hasher)
	markComplete := command.NewMarkLessonCompleteHandler(gate, progressRepo)
	markIncomplete := command.NewMarkLessonIncompleteHandler(gate, progressRepo)
	activateEnrollment := command.NewActivateEnrollmentHandler(enrollmentRepo, catalogReader)
	expireEnrollment := command.NewExpireEnrollmentHandler(enrollmentRepo)
	manageCatalog := command.NewManageCatalogHandler(catalogRepo, invalidator)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	health := handlers.NewCompositeHealthChecker(cfg.App.Version)
	health.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
	if redisCache != nil {
		health.AddCheck("cache", handlers.NewCacheCheck(redisCache))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins

	httpDeps := httpserver.Dependencies{
		ListCoursesHandler:       listCourses,
		GetCourseTreeHandler:     getCourseTree,
		GetCourseProgressHandler: getCourseProgress,
		ListEnrollmentsHandler:   listEnrollments,
		AuthenticateHandler:      authenticate,

		RegisterHandler:       register,
		MarkCompleteHandler:   markComplete,
		MarkIncompleteHandler: markIncomplete,
		ActivateEnrollment:    activateEnrollment,
		ExpireEnrollment:      expireEnrollment,
		ManageCatalogHandler:  manageCatalog,

		Catalog:  catalogRepo,
		Accounts: identityRepo,
		Tokens:   tokens,

		Logger:        log,
		HealthChecker: health,
	}

	server := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 11. START & GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := server.StartAsync()

	log.Info("AlphaMind backend is running", logger.String("address", server.Address()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("http server error", logger.Err(err))
			return err
		}
	}

	log.Info("starting graceful shutdown", logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed")
	return nil
}
