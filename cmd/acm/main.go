package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/handler"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/service"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/storage"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/config"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting asset compliance manager",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Asset{},
		&entity.Contract{},
		&entity.ContractEvent{},
		&entity.ContractDocument{},
		&entity.CalibrationRecord{},
		&entity.CalibrationEvent{},
		&entity.CalibrationDocument{},
		&entity.ScrapRecord{},
		&entity.ReminderAck{},
		&entity.ImportBatch{},
	); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	rdb := initRedis(cfg.Redis)

	store, err := initObjectStore(cfg.MinIO)
	if err != nil {
		zapLogger.Warn("Object storage unavailable, attachments disabled", zap.Error(err))
		store = storage.NewObjectStore(nil, "")
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, store, cfg)

	seedUsers(services, zapLogger)

	handlers := handler.NewHandlers(services, cfg)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func initObjectStore(cfg config.MinIOConfig) (*storage.ObjectStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint not configured")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}
	return storage.NewObjectStore(client, cfg.Bucket), nil
}

// seedUsers creates the two stock accounts on first boot. Passwords come from
// the environment so a deployment never ships the defaults.
func seedUsers(services *service.Services, zapLogger *zap.Logger) {
	ctx := context.Background()
	seeds := []struct {
		username, password, role string
	}{
		{"developer", config.GetEnvOrDefault("SEED_DEVELOPER_PASSWORD", "developer123"), entity.RoleDeveloper},
		{"user", config.GetEnvOrDefault("SEED_USER_PASSWORD", "user12345"), entity.RoleUser},
	}
	for _, s := range seeds {
		if err := services.Auth.EnsureUser(ctx, s.username, s.password, s.role); err != nil {
			zapLogger.Warn("Failed to seed account", zap.String("username", s.username), zap.Error(err))
		}
	}
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.POST("/auth/reset-password",
				middleware.RequireRole(entity.RoleDeveloper), h.Auth.ResetPassword)

			assets := authorized.Group("/assets")
			{
				assets.GET("", h.Asset.List)
				assets.POST("", h.Asset.Create)
				assets.GET("/filter-options", h.Asset.FilterOptions)
				assets.GET("/export", h.Import.Export)

				assets.POST("/import", h.Import.Upload)
				assets.POST("/import/confirm", h.Import.Confirm)
				assets.GET("/import/template", h.Import.DownloadTemplate)

				assets.GET("/:id", h.Asset.Get)
				assets.PUT("/:id", h.Asset.Update)

				assets.GET("/:id/calibrations", h.Calibration.History)

				assets.POST("/:id/scrap",
					middleware.RequireRole(entity.RoleDeveloper), h.Scrap.Scrap)
				assets.GET("/:id/scrap", h.Scrap.Get)
				assets.GET("/:id/scrap/note", h.Scrap.DownloadNote)
			}

			contracts := authorized.Group("/contracts")
			{
				contracts.GET("", h.Contract.List)
				contracts.POST("", h.Contract.Create)
				contracts.GET("/documents/:docId/download", h.Contract.DownloadDocument)
				contracts.GET("/:id", h.Contract.Get)
				contracts.POST("/:id/events", h.Contract.AddEvent)
				contracts.POST("/:id/documents", h.Contract.AddDocument)
				contracts.POST("/:id/complete", h.Contract.Complete)
				contracts.POST("/:id/cancel", h.Contract.Cancel)
			}

			calibrations := authorized.Group("/calibrations")
			{
				calibrations.POST("", h.Calibration.Save)
				calibrations.GET("/documents/:docId/download", h.Calibration.DownloadDocument)
				calibrations.GET("/:id", h.Calibration.Get)
			}

			reminders := authorized.Group("/reminders")
			{
				reminders.GET("", h.Reminder.List)
				reminders.GET("/summary", h.Reminder.Summary)
				reminders.POST("/acknowledge", h.Reminder.Acknowledge)
			}

			authorized.GET("/scrap-records", h.Scrap.List)
		}
	}
}
