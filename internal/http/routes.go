package http

import (
	"time"

	"github.com/Sigma-Eleven/model/internal/http/handlers"
	"github.com/Sigma-Eleven/model/internal/http/middleware"
	"github.com/Sigma-Eleven/model/internal/lobby"
	"github.com/Sigma-Eleven/model/internal/service"
	"github.com/Sigma-Eleven/model/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// Deps carries everything the router needs. DB, Redis and Results are optional.
type Deps struct {
	Lobby   *lobby.Lobby
	Hub     *ws.Hub
	Tokens  *service.SeatTokens
	Results handlers.ResultReader
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Version string

	AllowedOrigin  string
	APIRateLimit   int
	APIRateWindow  time.Duration
	GameRateLimit  int
	GameRateWindow time.Duration
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	healthHandler := handlers.NewHealthHandler(d.DB, d.Redis, d.Version)
	games := handlers.NewGameHandler(d.Lobby, d.Results, d.Redis)

	if d.APIRateLimit <= 0 {
		d.APIRateLimit = 10
	}
	if d.APIRateWindow <= 0 {
		d.APIRateWindow = time.Minute
	}
	if d.GameRateLimit <= 0 {
		d.GameRateLimit = 5
	}
	if d.GameRateWindow <= 0 {
		d.GameRateWindow = time.Minute
	}

	r.Use(middleware.Metrics(), middleware.CORS(d.AllowedOrigin))

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	createRL := middleware.RedisRateLimit(d.Redis, d.APIRateLimit, d.APIRateWindow)
	gameRL := middleware.GameRateLimit(d.Redis, d.GameRateLimit, d.GameRateWindow)

	v1.POST("/games", createRL, games.Create)
	v1.GET("/games/:id", games.Get)
	v1.POST("/games/:id/start", gameRL, games.Start)
	v1.POST("/games/:id/stop", gameRL, games.Stop)
	v1.GET("/games/:id/results", games.Result)
	v1.GET("/games/:id/feed", games.Feed)
	v1.GET("/results", games.Recent)

	// Seat connections for remote players
	r.GET("/ws", ws.HandleWS(d.Hub, d.Tokens, d.AllowedOrigin))
}
