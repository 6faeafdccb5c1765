package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/mise/backend/internal/application/identity"
	recipeapp "github.com/mise/backend/internal/application/recipe"
	"github.com/mise/backend/internal/infrastructure/auth"
	"github.com/mise/backend/internal/infrastructure/cache"
	"github.com/mise/backend/internal/infrastructure/config"
	"github.com/mise/backend/internal/infrastructure/logger"
	"github.com/mise/backend/internal/infrastructure/persistence"
	"github.com/mise/backend/internal/infrastructure/storage"
	"github.com/mise/backend/internal/interfaces/http/handler"
	"github.com/mise/backend/internal/interfaces/http/middleware"
	"github.com/mise/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting recipe backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	recipeRepo := persistence.NewGormRecipeRepository(db.DB)
	ingredientRepo := persistence.NewGormIngredientRepository(db.DB)
	compositionRepo := persistence.NewGormCompositionRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Costing cache (in-process LRU or Redis, per config)
	cacheFactory := cache.NewCostCacheFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log))
	costCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create cost cache", zap.Error(err))
	}
	log.Info("Cost cache initialized", zap.String("backend", cfg.Cache.Backend))

	// Image storage (S3 or stub when no bucket is configured)
	imageStore, err := storage.NewImageStore(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	// Token infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist, err := newTokenBlacklist(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize token blacklist", zap.Error(err))
	}

	// Initialize application services
	recipeService := recipeapp.NewRecipeService(recipeRepo, compositionRepo)
	ingredientService := recipeapp.NewIngredientService(ingredientRepo)
	costingService := recipeapp.NewCostingService(recipeRepo, ingredientRepo, compositionRepo, costCache)
	compositionService := recipeapp.NewCompositionService(recipeRepo, ingredientRepo, compositionRepo, costCache)
	imageService := recipeapp.NewImageService(recipeRepo, imageStore)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request IDs first so every later log line and
	// error envelope carries one
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))

	// JWT authentication, with public endpoints skipped
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	}))

	// Register route groups
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewHealthHandler(db)).
		Register(handler.NewAuthHandler(authService)).
		Register(handler.NewRecipeHandler(recipeService, costingService, imageService)).
		Register(handler.NewIngredientHandler(ingredientService)).
		Register(handler.NewCompositionHandler(compositionService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newTokenBlacklist selects the blacklist backend. Redis is used when a
// host is configured so revocation survives restarts and spans
// instances; otherwise an in-memory blacklist serves single-node
// deployments.
func newTokenBlacklist(cfg *config.Config, log *zap.Logger) (auth.TokenBlacklist, error) {
	if cfg.Redis.Host == "" {
		log.Info("No Redis configured, using in-memory token blacklist")
		return auth.NewInMemoryTokenBlacklist(), nil
	}

	blacklist, err := auth.NewRedisTokenBlacklist(&cfg.Redis)
	if err != nil {
		return nil, err
	}
	log.Info("Using Redis token blacklist", zap.String("addr", cfg.Redis.Addr()))
	return blacklist, nil
}
