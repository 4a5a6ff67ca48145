// @title FormPulse Insights API
// @version 1.0
// @description Survey scoring and analytics service - computes weighted category scores, engagement indexes, and aggregate analytics over survey responses
// @termsOfService http://swagger.io/terms/

// @contact.name FormPulse Support
// @contact.email support@formpulse.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

// Package main is the entry point for the FormPulse Insights API server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/formpulse-tools/insights_backend/internal/auth"
	"github.com/formpulse-tools/insights_backend/internal/cache"
	"github.com/formpulse-tools/insights_backend/internal/config"
	"github.com/formpulse-tools/insights_backend/internal/database"
	"github.com/formpulse-tools/insights_backend/internal/handlers"
	"github.com/formpulse-tools/insights_backend/internal/middleware"
	"github.com/formpulse-tools/insights_backend/internal/repository"
	"github.com/formpulse-tools/insights_backend/internal/services"

	// Swagger docs
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Build-time variables (set via ldflags)
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	ctx := context.Background()
	dbCfg := database.Config{
		URI:                    cfg.DatabaseURI,
		Database:               cfg.DatabaseName,
		MaxPoolSize:            100,
		MinPoolSize:            10,
		MaxConnIdleTime:        30 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
	}

	dbClient, err := database.NewClient(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize JWT service early (before defer) to avoid exitAfterDefer issue.
	// Tokens are issued by the main FormPulse backend; this service runs
	// validate-only unless a private key is configured for local tooling.
	jwtCfg := auth.JWTConfig{
		PrivateKeyPath:    cfg.JWTPrivateKeyPath,
		PublicKeyPath:     cfg.JWTPublicKeyPath,
		AccessTokenExpiry: cfg.AccessTokenExpiry,
		Issuer:            "formpulse-main",
	}

	jwtService, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}

	defer func() {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
	}()

	// Ensure indexes
	log.Println("Creating database indexes...")
	if indexErr := dbClient.EnsureIndexes(ctx); indexErr != nil {
		log.Printf("Warning: Failed to create indexes: %v", indexErr)
	}

	// Seed demo data in development only
	if cfg.IsDevelopment() {
		log.Println("Seeding demo data...")
		if seedErr := dbClient.SeedData(ctx); seedErr != nil {
			log.Printf("Warning: Failed to seed data: %v", seedErr)
		}
	}

	// Initialize analytics cache
	// #IMPLEMENTATION_DECISION: Cache is optional; without Redis every view
	// is recomputed per request, which is acceptable for small deployments
	var redisClient *redis.Client
	analyticsCache := cache.NewNoopCache()
	if cfg.CacheEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
			log.Printf("Warning: Redis unreachable, analytics views will be recomputed per request: %v", pingErr)
		}
		pingCancel()
		analyticsCache = cache.NewRedisCache(redisClient, cfg.CacheTTL)
		defer func() {
			if closeErr := redisClient.Close(); closeErr != nil {
				log.Printf("Error closing Redis connection: %v", closeErr)
			}
		}()
	}

	// Initialize repositories
	surveyRepo := repository.NewSurveyRepository(dbClient)
	responseRepo := repository.NewResponseRepository(dbClient)
	versionRepo := repository.NewVersionRepository(dbClient)
	auditRepo := repository.NewAuditRepository(dbClient)

	// Initialize services
	auditService := services.NewAuditService(auditRepo)
	analyticsService := services.NewAnalyticsService(surveyRepo, responseRepo, versionRepo, analyticsCache)
	scoringService := services.NewScoringService(surveyRepo, responseRepo, versionRepo, auditService, analyticsCache)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(dbClient, redisClient, Version)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	scoringHandler := handlers.NewScoringHandler(scoringService)

	// Create Gin router
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.SecureHeaders())

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	router.Use(rateLimiter.RateLimit())

	// Register health routes (not under /api/v1)
	healthHandler.RegisterRoutes(router)

	// Register Swagger documentation route outside production
	if !cfg.IsProduction() {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Create API v1 group
	apiV1 := router.Group("/api/v1")

	// Create auth middleware
	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Register routes
	analyticsHandler.RegisterRoutes(apiV1, authMiddleware)
	scoringHandler.RegisterRoutes(apiV1, authMiddleware)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting FormPulse Insights API server v%s on port %s", Version, cfg.ServerPort)
		log.Printf("Build: %s | Commit: %s | Branch: %s", BuildTime, GitCommit, GitBranch)
		log.Printf("Environment: %s", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown complete")
}
