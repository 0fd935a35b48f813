package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/auth"
	"github.com/hackcentral/engine/pkg/config"
	"github.com/hackcentral/engine/pkg/database"
	"github.com/hackcentral/engine/pkg/handlers"
	"github.com/hackcentral/engine/pkg/middleware"
	"github.com/hackcentral/engine/pkg/repositories"
	"github.com/hackcentral/engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", cfg.Database.Database),
	)

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Auth
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	defer jwksClient.Close()

	authService := auth.NewAuthService(jwksClient, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	// Repositories
	profileRepo := repositories.NewProfileRepository(db)
	assetRepo := repositories.NewAssetRepository(db)
	reuseRepo := repositories.NewReuseRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	mentorRepo := repositories.NewMentorRequestRepository(db)
	hackathonRepo := repositories.NewHackathonRepository(db)

	// Services
	resolver := services.NewViewerResolver(profileRepo)
	profileService := services.NewProfileService(profileRepo, logger)
	assetService := services.NewAssetService(assetRepo, reuseRepo, activityRepo, logger)
	projectService := services.NewProjectService(projectRepo, logger)
	mentorshipService := services.NewMentorshipService(mentorRepo, profileRepo, activityRepo, logger)
	activityService := services.NewActivityService(activityRepo, logger)
	hackathonService := services.NewHackathonService(hackathonRepo, logger)
	metricsService := services.NewMetricsService(
		profileRepo, projectRepo, assetRepo, reuseRepo, activityRepo, mentorRepo,
		cfg.Metrics, logger)

	// HTTP surface
	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewProfilesHandler(profileService, resolver, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewAssetsHandler(assetService, metricsService, resolver, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewProjectsHandler(projectService, resolver, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewMentorshipHandler(mentorshipService, resolver, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewMetricsHandler(metricsService, resolver, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewHackathonsHandler(hackathonService, resolver, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewActivityHandler(activityService, resolver, logger).RegisterRoutes(mux, authMiddleware)

	middleware.RegisterMetrics()
	mux.Handle("GET /metrics", middleware.MetricsHandler())

	handler := middleware.RequestLogger(logger)(middleware.InstrumentHTTP(mux))

	addr := cfg.BindAddr + ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting hackcentral-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// runMigrations applies pending migrations through database/sql; the pgx
// pool is not usable by golang-migrate directly.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger)
}
