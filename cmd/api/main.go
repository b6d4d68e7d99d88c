package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/esprim/pfe-catalog-api/api/swagger"
	"github.com/esprim/pfe-catalog-api/internal/handler"
	"github.com/esprim/pfe-catalog-api/internal/middleware"
	"github.com/esprim/pfe-catalog-api/internal/models"
	"github.com/esprim/pfe-catalog-api/internal/repository"
	"github.com/esprim/pfe-catalog-api/internal/service"
	"github.com/esprim/pfe-catalog-api/pkg/cache"
	"github.com/esprim/pfe-catalog-api/pkg/config"
	"github.com/esprim/pfe-catalog-api/pkg/database"
	"github.com/esprim/pfe-catalog-api/pkg/logger"
	corsmiddleware "github.com/esprim/pfe-catalog-api/pkg/middleware/cors"
	reqidmiddleware "github.com/esprim/pfe-catalog-api/pkg/middleware/requestid"
)

// @title PFE Catalog API
// @version 0.1.0
// @description Submission, validation and catalog service for final-year project reports
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	validate := validator.New()

	// Redis is optional; the catalog falls back to direct reads when it
	// is unreachable.
	var cacheService *service.CacheService
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheService = service.NewCacheService(cacheRepo, metrics, cfg.Catalog.CacheTTL, logr, true)
		}
	}

	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	validationRepo := repository.NewValidationRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	consultationRepo := repository.NewConsultationRepository(db)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		EmailDomain:       cfg.Auth.EmailDomain,
	})
	draftService := service.NewDraftService(draftRepo, logr, metrics)
	autosaver := service.NewAutosaver(draftService, logr, metrics, cfg.Drafts.AutosaveInterval)
	submissionService := service.NewSubmissionService(reportRepo, draftRepo, userRepo, autosaver, validate, logr, metrics)
	validationService := service.NewValidationService(reportRepo, validationRepo, userRepo, cacheService, validate, logr, metrics)
	catalogService := service.NewCatalogService(reportRepo, favoriteRepo, cacheService, logr, service.CatalogConfig{
		CacheTTL:     cfg.Catalog.CacheTTL,
		PopularLimit: cfg.Catalog.PopularLimit,
	})
	consultationService := service.NewConsultationService(consultationRepo, reportRepo, validate, logr)
	adminService := service.NewAdminService(userRepo, reportRepo, cacheService, logr)

	authHandler := handler.NewAuthHandler(authService)
	submissionHandler := handler.NewSubmissionHandler(submissionService, draftService, autosaver)
	validationHandler := handler.NewValidationHandler(validationService)
	catalogHandler := handler.NewCatalogHandler(catalogService, consultationService)
	adminHandler := handler.NewAdminHandler(adminService)
	metricsHandler := handler.NewMetricsHandler(metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	autosaver.Start(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	}

	submissions := api.Group("/submissions", middleware.JWT(authService))
	{
		submissions.POST("", submissionHandler.Submit)
		submissions.GET("", submissionHandler.ListMine)
		submissions.GET("/draft", submissionHandler.GetDraft)
		submissions.PUT("/draft", submissionHandler.SaveDraft)
		submissions.DELETE("/draft", submissionHandler.DeleteDraft)
		submissions.PUT("/draft/buffer", submissionHandler.BufferDraft)
	}

	reports := api.Group("/reports", middleware.JWT(authService), middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin))
	{
		reports.GET("/pending", validationHandler.ListForReview)
		reports.POST("/:id/validate", validationHandler.Validate)
		reports.POST("/:id/reject", validationHandler.Reject)
		reports.GET("/:id/history", validationHandler.History)
	}

	catalog := api.Group("/catalog", middleware.OptionalJWT(authService))
	{
		catalog.GET("", catalogHandler.Browse)
		catalog.GET("/years", catalogHandler.Years)
		catalog.GET("/popular", catalogHandler.Popular)
		catalog.GET("/favorites", middleware.JWT(authService), catalogHandler.Favorites)
		catalog.POST("/:id/favorite", middleware.JWT(authService), catalogHandler.ToggleFavorite)
		catalog.POST("/:id/consultations", catalogHandler.RecordConsultation)
	}

	admin := api.Group("/admin", middleware.JWT(authService), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/overview", adminHandler.Overview)
		admin.GET("/users", adminHandler.ListUsers)
		admin.PATCH("/users/:id/active", adminHandler.ToggleUserActive)
		admin.DELETE("/reports/:id", adminHandler.DeleteReport)
		if cfg.Exports.Enabled {
			admin.GET("/exports/catalog", adminHandler.ExportCatalog)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
