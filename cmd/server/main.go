// Package main runs the meeting recording sharing HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fuzemeet/backend/config"
	"github.com/fuzemeet/backend/internal/authz"
	"github.com/fuzemeet/backend/internal/meetings"
	"github.com/fuzemeet/backend/internal/middleware"
	"github.com/fuzemeet/backend/internal/recordings"
	"github.com/fuzemeet/backend/internal/users"
	"github.com/fuzemeet/backend/pkg/database"
	"github.com/fuzemeet/backend/pkg/redis"
	"github.com/fuzemeet/backend/pkg/response"
	"github.com/fuzemeet/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Redis is optional; without it the view rate limiter is disabled.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("redis disabled", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	// S3 is optional; without it the download endpoint answers with a stub.
	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			RecordingsBucket:     cfg.AWS.RecordingsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	// Identities
	userRepo := users.NewRepository(pool)
	userHandler := users.NewHandler(userRepo, logger)

	// Meetings (lifecycle coordinator) and view authorization
	meetingSvc := meetings.NewService(pool, logger)
	engine := authz.NewEngine(meetingSvc, logger)
	meetingHandler := meetings.NewHandler(meetingSvc, engine, logger)

	// Recording visibility and download redirect
	var presigner recordings.Presigner
	if s3Client != nil {
		presigner = s3Client
	}
	recordingHandler := recordings.NewHandler(meetingSvc, presigner, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Identities
	router.POST("/user", userHandler.Create)
	router.DELETE("/user", userHandler.Delete)

	// Meetings
	router.POST("/meeting", meetingHandler.Create)
	router.DELETE("/meeting", meetingHandler.Delete)
	router.PUT("/meeting", meetingHandler.Share)
	router.GET("/meeting", meetingHandler.Get)

	// View (basic credentials, rate limited when Redis is available)
	var limiterClient *goredis.Client
	if rdb != nil {
		limiterClient = rdb.Client
	}
	viewLimiter := middleware.RateLimit(limiterClient, cfg.RateLimit.ViewRequests,
		time.Duration(cfg.RateLimit.WindowSec)*time.Second, logger)
	router.GET("/view", viewLimiter, middleware.BasicAuth(), meetingHandler.View)

	// Recordings
	router.PUT("/recording", recordingHandler.SetVisibility)
	router.GET("/download/:key", recordingHandler.Download)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
