package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sigma-Eleven/model/internal/config"
	"github.com/Sigma-Eleven/model/internal/db"
	httpServer "github.com/Sigma-Eleven/model/internal/http"
	"github.com/Sigma-Eleven/model/internal/http/handlers"
	"github.com/Sigma-Eleven/model/internal/lobby"
	"github.com/Sigma-Eleven/model/internal/logger"
	"github.com/Sigma-Eleven/model/internal/repository"
	"github.com/Sigma-Eleven/model/internal/service"
	"github.com/Sigma-Eleven/model/internal/variant/elimination"
	"github.com/Sigma-Eleven/model/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()

	dbPool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}
	if dbPool != nil {
		defer dbPool.Close()
	}

	rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		// the feed and rate limits degrade without redis; games still run
		logger.Warn("redis unavailable", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	tokens, err := service.NewSeatTokens(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		logger.Fatal("seat tokens", "error", err)
	}
	hub := ws.NewHub()

	lcfg := lobby.Config{
		Hub:         hub,
		Tokens:      tokens,
		Redis:       rdb,
		Logger:      logger.Get(),
		TurnTimeout: cfg.TurnTimeout,
		Seed:        cfg.Seed,
		Settings: elimination.Settings{
			NightRounds: cfg.DiscussionMaxRounds,
			VoteRetries: cfg.VoteMaxRetries,
		},
	}
	var results handlers.ResultReader
	if dbPool != nil {
		repo := repository.NewResultRepository(dbPool)
		lcfg.Results = repo
		results = repo
	}
	games := lobby.New(lcfg)
	games.StartCleanup(10*time.Minute, cfg.GameTTL)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Lobby:          games,
		Hub:            hub,
		Tokens:         tokens,
		Results:        results,
		DB:             dbPool,
		Redis:          rdb,
		Version:        version,
		AllowedOrigin:  cfg.AllowedOrigin,
		APIRateLimit:   cfg.APIRateLimit,
		APIRateWindow:  cfg.APIRateWindow,
		GameRateLimit:  cfg.GameRateLimit,
		GameRateWindow: cfg.GameRateWindow,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := games.Shutdown(shutdownCtx); err != nil {
		logger.Error("games did not stop in time", "error", err)
	}

	logger.Info("server exited")
}
