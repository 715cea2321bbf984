package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/config"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/api/handler"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/api/router"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/repository"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/service"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/database"
	applogger "github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/logger"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/redis"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/storage"
)

func main() {
	// 1. configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting up",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database and migrations
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("unwrap sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// 4. Redis, optional. Without it rate limiting is off but the
	// service runs.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
			rdb = nil
		}
	}

	// 5. object storage, optional. Without it attachment uploads are
	// rejected but everything else keeps working. store must stay a nil
	// interface when unset, so only assign on success.
	var store storage.Store
	if cfg.Storage.Endpoint != "" {
		minioStore, err := storage.NewMinioStore(&cfg.Storage, logger)
		if err != nil {
			logger.Warn("object store unavailable, attachment uploads disabled", zap.Error(err))
		} else {
			store = minioStore
		}
	}

	// 6. dependency wiring: repository → service → handler
	repo := repository.NewRepository(db)
	notifier := service.NewLogNotifier(logger)
	svc := service.NewService(cfg, repo, notifier, store, logger)
	h := handler.NewHandler(svc)

	// 7. routes
	engine := router.Setup(cfg, h, rdb, db, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 9. wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if closeDB, err := db.DB(); err == nil {
		closeDB.Close()
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
