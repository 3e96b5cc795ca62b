package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Sigma-Eleven/model/internal/domain"
	"github.com/Sigma-Eleven/model/internal/lobby"
	"github.com/Sigma-Eleven/model/internal/repository"
	"github.com/Sigma-Eleven/model/internal/sink"
	"github.com/Sigma-Eleven/model/internal/variant/elimination"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// ResultReader loads stored results. *repository.ResultRepository satisfies it.
type ResultReader interface {
	GetByGameID(ctx context.Context, gameID string) (*domain.GameRecord, error)
	Recent(ctx context.Context, limit int) ([]*domain.GameRecord, error)
}

type GameHandler struct {
	lobby   *lobby.Lobby
	results ResultReader
	rdb     *redis.Client
}

// NewGameHandler wires the games API. results and rdb are optional.
func NewGameHandler(l *lobby.Lobby, results ResultReader, rdb *redis.Client) *GameHandler {
	return &GameHandler{lobby: l, results: results, rdb: rdb}
}

// Create seats a new game: POST /games
func (h *GameHandler) Create(c *gin.Context) {
	var req lobby.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	created, err := h.lobby.Create(req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *GameHandler) Get(c *gin.Context) {
	snap, err := h.lobby.Status(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *GameHandler) Start(c *gin.Context) {
	if err := h.lobby.Start(c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "running"})
}

func (h *GameHandler) Stop(c *gin.Context) {
	if err := h.lobby.Stop(c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "stopping"})
}

// Result returns the stored result, falling back to the in-memory one.
func (h *GameHandler) Result(c *gin.Context) {
	id := c.Param("id")
	if h.results != nil {
		rec, err := h.results.GetByGameID(c.Request.Context(), id)
		if err == nil {
			c.JSON(http.StatusOK, rec)
			return
		}
		if !errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
	}

	rec, err := h.lobby.Result(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Recent lists the latest stored results: GET /results?limit=
func (h *GameHandler) Recent(c *gin.Context) {
	if h.results == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "result storage disabled"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	recs, err := h.results.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": recs})
}

// Feed returns the latest spectator lines of a game: GET /games/:id/feed
func (h *GameHandler) Feed(c *gin.Context) {
	if h.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "feed disabled"})
		return
	}
	n, _ := strconv.Atoi(c.DefaultQuery("n", strconv.Itoa(sink.DefaultRecent)))
	lines, err := sink.Recent(c.Request.Context(), h.rdb, c.Param("id"), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcements": lines})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, lobby.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lobby.ErrAlreadyStarted):
		return http.StatusConflict
	case errors.Is(err, lobby.ErrInvalidSeats),
		errors.Is(err, elimination.ErrTooFewPlayers),
		errors.Is(err, elimination.ErrRoleMix):
		return http.StatusBadRequest
	case errors.Is(err, lobby.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
