package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasktracker/internal/cache"
	"tasktracker/internal/config"
	"tasktracker/internal/db"
	httpServer "tasktracker/internal/http"
	"tasktracker/internal/http/handlers"
	"tasktracker/internal/http/middleware"
	"tasktracker/internal/logger"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON, cfg.LogFile)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx, dbPool, func(name string) {
		logger.Debug("migration applied", "file", name)
	}); err != nil {
		cancelMigrate()
		logger.Fatal("failed to migrate database", "error", err)
	}
	cancelMigrate()

	redisClient := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		defer redisClient.Close()
	}
	middleware.UseRedis(redisClient)

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	sessions := service.NewSessionStore(redisClient)
	if sessions == nil {
		logger.Warn("no session store configured; sign-out only clears the cookie")
	}

	auth := service.NewLocalAuthProvider(
		repository.NewUserRepository(dbPool),
		tokens,
		sessions,
		service.LogConfirmationSender{},
		service.AuthConfig{PublicURL: cfg.PublicURL, AutoConfirm: cfg.DevMode},
	)
	tasks := service.NewTaskService(repository.NewTaskRepository(dbPool))

	var cachePinger handlers.Pinger
	if redisClient != nil {
		cachePinger = handlers.RedisPinger{Client: redisClient}
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Handler:  handlers.NewHandler(tasks, auth, handlers.CookieConfig{TTL: cfg.SessionTTL, Secure: cfg.CookieSecure}),
		Health:   handlers.NewHealthHandler(dbPool, cachePinger, version),
		Sessions: service.NewSessionVerifier(tokens, sessions),
	}, httpServer.RouteConfig{
		CORSOrigins:    cfg.CORSOrigins,
		APIRateLimit:   cfg.APIRateLimit,
		APIRateWindow:  cfg.APIRateWindow,
		AuthRateLimit:  cfg.AuthRateLimit,
		AuthRateWindow: cfg.AuthRateWindow,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version, "dev_mode", cfg.DevMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server exited")
}
