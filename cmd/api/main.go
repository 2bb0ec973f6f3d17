package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/tegami/tegami-backend/internal/config"
	"github.com/tegami/tegami-backend/internal/database"
	"github.com/tegami/tegami-backend/internal/handler"
	"github.com/tegami/tegami-backend/internal/middleware"
	"github.com/tegami/tegami-backend/internal/migration"
	"github.com/tegami/tegami-backend/internal/repository"
	"github.com/tegami/tegami-backend/internal/routes"
	"github.com/tegami/tegami-backend/internal/service"
	"github.com/tegami/tegami-backend/internal/worker"
	"github.com/tegami/tegami-backend/internal/ws"
	pkgcache "github.com/tegami/tegami-backend/pkg/cache"
	"github.com/tegami/tegami-backend/pkg/jwt"
	pkglogger "github.com/tegami/tegami-backend/pkg/logger"
	pkgredis "github.com/tegami/tegami-backend/pkg/redis"
	pkgstorage "github.com/tegami/tegami-backend/pkg/storage"
)

const dbStatsTaskName = "db-pool-stats"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get sql.DB: %v", err)
	}
	pkglogger.Info("Connected to %s", cfg.Database.Driver)

	// Redis is optional; without it cache, rate limiting and the hub stay process-local
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(context.Background(), pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}
	cacheService := pkgcache.NewService(redisClient)

	// S3-compatible storage for audio uploads
	var blobs service.BlobStore
	if cfg.Storage.Enabled {
		s3Client, s3Err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			PublicURL:       cfg.Storage.PublicURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.Warn("S3 storage init failed: %v (audio uploads disabled)", s3Err)
		} else {
			blobs = s3Client
			pkglogger.Info("Connected to S3 storage (bucket %s)", cfg.Storage.Bucket)
		}
	}

	var jwtManager *jwt.Manager
	if cfg.Auth.JWTSecret != "" {
		jwtManager = jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Audience)
	}

	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()

	// Repositories
	letterRepo := repository.NewLetterRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	penpalRepo := repository.NewPenpalRepository(db)
	penpalLetterRepo := repository.NewPenpalLetterRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	audioRepo := repository.NewAudioRepository(db)

	// Services
	letterService := service.NewLetterService(letterRepo, profileRepo, cacheService)
	penpalService := service.NewPenpalService(penpalRepo, letterRepo, wsHub)
	penpalLetterService := service.NewPenpalLetterService(penpalLetterRepo, penpalRepo, wsHub, service.PenpalLetterOptions{
		RequireConnection: cfg.RequirePenpalConnection(),
	})
	journalService := service.NewJournalService(journalRepo)
	audioService := service.NewAudioService(audioRepo, blobs, cfg.Storage.MaxUploadBytes)

	// Background jobs
	scheduler := worker.NewScheduler(time.Second)
	worker.RegisterDelivery(scheduler, penpalLetterService, cfg.ReconcileEvery())
	scheduler.Register(dbStatsTaskName, 15*time.Second, func(ctx context.Context) error {
		middleware.SetDBConnectionsInUse(sqlDB.Stats().InUse)
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	scheduler.Start(ctx)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins(),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	healthHandler := handler.NewHealthHandler(sqlDB).WithCache(cacheService)
	if cfg.IsDevelopment() {
		healthHandler.WithTasks(scheduler)
	}

	routes.Setup(router, routes.Handlers{
		Letter:  handler.NewLetterHandler(letterService),
		Penpal:  handler.NewPenpalHandler(penpalService, penpalLetterService),
		Journal: handler.NewJournalHandler(journalService),
		Audio:   handler.NewAudioHandler(audioService, cfg.Storage.MaxUploadBytes),
		WS:      handler.NewWSHandler(wsHub, cfg.CORS.Origins()),
		Health:  healthHandler,
	}, middleware.BearerAuth(jwtManager, cfg.Auth.Required),
		middleware.RateLimit(redisClient, middleware.DefaultRateLimitConfig(cfg.RateLimit.RequestsPerMinute)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		pkglogger.Info("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	pkglogger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Error("Server shutdown: %v", err)
	}

	scheduler.Stop()
	wsHub.Stop()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := sqlDB.Close(); err != nil {
		pkglogger.Error("Database close: %v", err)
	}
	pkglogger.Info("Server stopped")
}
