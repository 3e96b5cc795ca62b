package lobby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Sigma-Eleven/model/internal/domain"
	"github.com/Sigma-Eleven/model/internal/game"
	"github.com/Sigma-Eleven/model/internal/participant"
	"github.com/Sigma-Eleven/model/internal/service"
	"github.com/Sigma-Eleven/model/internal/sink"
	"github.com/Sigma-Eleven/model/internal/variant/elimination"
	"github.com/Sigma-Eleven/model/internal/ws"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

var (
	ErrNotFound          = errors.New("game not found")
	ErrAlreadyStarted    = errors.New("game already started")
	ErrRemoteUnavailable = errors.New("remote seats are not available")
	ErrInvalidSeats      = errors.New("invalid seats")
)

const storeTimeout = 5 * time.Second

// ResultStore keeps finished games. *repository.ResultRepository satisfies it.
type ResultStore interface {
	Create(ctx context.Context, rec *domain.GameRecord) error
}

type Config struct {
	Hub         *ws.Hub
	Tokens      *service.SeatTokens
	Results     ResultStore
	Redis       *redis.Client
	Logger      *slog.Logger
	TurnTimeout time.Duration
	Settings    elimination.Settings
	// Seed makes every game reproducible when non-zero.
	Seed uint64
}

type SeatSpec struct {
	Name   string `json:"name"`
	Remote bool   `json:"remote"`
}

type CreateRequest struct {
	Seats    []SeatSpec            `json:"seats"`
	Settings *elimination.Settings `json:"settings,omitempty"`
	Seed     uint64                `json:"seed,omitempty"`
}

type SeatTicket struct {
	Name   string `json:"name"`
	Remote bool   `json:"remote"`
	Token  string `json:"token,omitempty"`
}

type Created struct {
	GameID string       `json:"game_id"`
	Seats  []SeatTicket `json:"seats"`
}

type SeatView struct {
	Name      string `json:"name"`
	Remote    bool   `json:"remote"`
	Connected bool   `json:"connected"`
	Alive     bool   `json:"alive"`
	// Role is only revealed once the game is over.
	Role string `json:"role,omitempty"`
}

type Snapshot struct {
	GameID     string     `json:"game_id"`
	Status     string     `json:"status"`
	Day        int        `json:"day"`
	Winner     string     `json:"winner,omitempty"`
	Seats      []SeatView `json:"seats"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type entry struct {
	id       string
	table    *game.Table
	settings elimination.Settings
	clients  map[string]*ws.Client
	log      *slog.Logger

	mu         sync.Mutex
	game       *elimination.Game
	started    bool
	cancelled  bool
	err        error
	record     *domain.GameRecord
	createdAt  time.Time
	startedAt  time.Time
	finishedAt time.Time
	done       chan struct{}
}

// Lobby creates, runs and tracks games for the server.
type Lobby struct {
	cfg Config
	log *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.RWMutex
	games map[string]*entry
}

func New(cfg Config) *Lobby {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Lobby{
		cfg:    cfg,
		log:    cfg.Logger,
		ctx:    ctx,
		cancel: cancel,
		games:  make(map[string]*entry),
	}
}

// Create seats a new game. Robots take every seat not reserved for a remote
// player, and play remote turns that time out.
func (l *Lobby) Create(req CreateRequest) (*Created, error) {
	if err := validateSeats(req.Seats); err != nil {
		return nil, err
	}
	settings := l.cfg.Settings
	if req.Settings != nil {
		settings = *req.Settings
	}
	if err := settings.Validate(len(req.Seats)); err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = l.cfg.Seed
	}
	rng := game.NewRand(seed)

	id := uuid.NewString()
	log := l.log.With("game", id)

	sinks := []game.Sink{sink.NewLogSink(log)}
	if l.cfg.Redis != nil {
		sinks = append(sinks, sink.NewRedisSink(l.cfg.Redis, id, sink.DefaultRecent))
	}
	table := game.NewTable(game.WithRand(rng), game.WithLogger(log), game.WithSinks(sinks...))

	e := &entry{
		id:        id,
		table:     table,
		settings:  settings,
		clients:   make(map[string]*ws.Client),
		log:       log,
		createdAt: time.Now(),
		done:      make(chan struct{}),
	}
	out := &Created{GameID: id}

	for _, s := range req.Seats {
		robot := participant.NewRobot(s.Name, game.NewRand(rng.Uint64()))
		ticket := SeatTicket{Name: s.Name, Remote: s.Remote}

		var p game.Participant = robot
		if s.Remote {
			if l.cfg.Hub == nil || l.cfg.Tokens == nil {
				return nil, ErrRemoteUnavailable
			}
			tok, err := l.cfg.Tokens.Issue(id, s.Name)
			if err != nil {
				return nil, fmt.Errorf("issue seat token: %w", err)
			}
			client := ws.NewClient(id, s.Name, robot, l.cfg.TurnTimeout, log)
			e.clients[s.Name] = client
			ticket.Token = tok
			p = client
		}
		if err := table.Roster.Register(s.Name, p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSeats, err)
		}
		out.Seats = append(out.Seats, ticket)
	}

	for _, c := range e.clients {
		l.cfg.Hub.Register(c)
	}

	l.mu.Lock()
	l.games[id] = e
	l.mu.Unlock()

	log.Info("game created", "seats", len(req.Seats), "remote", len(e.clients))
	return out, nil
}

// Start deals the roles and runs the game in its own goroutine.
func (l *Lobby) Start(id string) error {
	e, err := l.get(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.started || e.cancelled {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	g, err := elimination.Setup(e.table, e.settings)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.game = g
	e.started = true
	e.startedAt = time.Now()
	e.mu.Unlock()

	l.wg.Add(1)
	go l.run(e, g)
	return nil
}

func (l *Lobby) run(e *entry, g *elimination.Game) {
	defer l.wg.Done()
	activeGames.Inc()
	defer activeGames.Dec()

	e.log.Info("game started")
	st, err := g.Run(l.ctx)
	if err != nil {
		e.log.Error("game failed", "error", err)
	}
	l.finish(e, st, err)
}

func (l *Lobby) finish(e *entry, st game.Status, runErr error) {
	defer close(e.done)

	e.mu.Lock()
	e.finishedAt = time.Now()
	e.err = runErr
	rec := l.record(e, st, runErr)
	e.record = rec
	e.mu.Unlock()

	gamesFinished.WithLabelValues(string(rec.Outcome)).Inc()
	e.log.Info("game finished", "outcome", rec.Outcome, "winner", rec.Winner, "days", rec.Days)

	if l.cfg.Hub != nil && len(e.clients) > 0 {
		l.cfg.Hub.Remove(e.id)
	}
	if l.cfg.Results == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := l.cfg.Results.Create(ctx, rec); err != nil {
		e.log.Error("store game result failed", "error", err)
	}
}

// record builds the result row; e.mu is held.
func (l *Lobby) record(e *entry, st game.Status, runErr error) *domain.GameRecord {
	rec := &domain.GameRecord{
		GameID:     e.id,
		Variant:    elimination.Name,
		Outcome:    domain.OutcomeStopped,
		StartedAt:  e.startedAt,
		FinishedAt: e.finishedAt,
	}
	switch {
	case runErr != nil:
		rec.Outcome = domain.OutcomeFailed
		rec.Error = runErr.Error()
	case st == game.StatusGameOver:
		rec.Outcome = domain.OutcomeGameOver
	}
	if e.game != nil {
		rec.Days, rec.Winner = e.game.State.Snapshot()
	}
	for _, p := range e.table.Roster.Players() {
		_, remote := e.clients[p.Name]
		rec.Seats = append(rec.Seats, domain.SeatRecord{
			Name:   p.Name,
			Role:   p.Role.String(),
			Alive:  p.Alive,
			Remote: remote,
		})
	}
	return rec
}

// Stop halts a running game before its next step. A game that never started
// is cancelled.
func (l *Lobby) Stop(id string) error {
	e, err := l.get(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	g := e.game
	idle := !e.started && !e.cancelled
	if idle {
		e.cancelled = true
	}
	e.mu.Unlock()

	switch {
	case idle:
		l.finish(e, game.StatusStopped, nil)
	case g != nil:
		g.Stop()
	}
	return nil
}

// Wait blocks until the game has finished or ctx is done.
func (l *Lobby) Wait(ctx context.Context, id string) error {
	e, err := l.get(id)
	if err != nil {
		return err
	}
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Lobby) Status(id string) (Snapshot, error) {
	e, err := l.get(id)
	if err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		GameID:    e.id,
		Status:    game.StatusIdle.String(),
		CreatedAt: e.createdAt,
	}
	if e.cancelled {
		snap.Status = game.StatusStopped.String()
	}
	if e.started {
		t := e.startedAt
		snap.StartedAt = &t
	}
	if e.err != nil {
		snap.Error = e.err.Error()
	}
	if !e.finishedAt.IsZero() {
		t := e.finishedAt
		snap.FinishedAt = &t
	}

	over := false
	if e.game != nil {
		st := e.game.Status()
		snap.Status = st.String()
		snap.Day, snap.Winner = e.game.State.Snapshot()
		over = st == game.StatusGameOver
	}

	for _, p := range e.table.Roster.Players() {
		v := SeatView{Name: p.Name, Alive: p.Alive}
		if c, ok := e.clients[p.Name]; ok {
			v.Remote = true
			v.Connected = c.Connected()
		}
		if over {
			v.Role = p.Role.String()
		}
		snap.Seats = append(snap.Seats, v)
	}
	return snap, nil
}

// Result returns the in-memory record of a finished game.
func (l *Lobby) Result(id string) (*domain.GameRecord, error) {
	e, err := l.get(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.record == nil {
		return nil, ErrNotFound
	}
	return e.record, nil
}

// Shutdown cancels games that never started, stops the running ones and
// waits for them to finish.
func (l *Lobby) Shutdown(ctx context.Context) error {
	l.mu.RLock()
	ids := make([]string, 0, len(l.games))
	for id := range l.games {
		ids = append(ids, id)
	}
	l.mu.RUnlock()

	for _, id := range ids {
		_ = l.Stop(id)
	}

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		l.cancel()
		return nil
	case <-ctx.Done():
		// unblock participants still waiting on a turn
		l.cancel()
		return ctx.Err()
	}
}

// StartCleanup evicts finished games every interval once they are older than
// ttl, and cancels games left waiting for a start for longer than ttl. It
// returns when the lobby shuts down.
func (l *Lobby) StartCleanup(interval, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-l.ctx.Done():
				return
			case now := <-ticker.C:
				l.sweep(now, ttl)
			}
		}
	}()
}

// sweep returns how many games it evicted.
func (l *Lobby) sweep(now time.Time, ttl time.Duration) int {
	var abandoned []string
	evicted := 0

	l.mu.Lock()
	for id, e := range l.games {
		e.mu.Lock()
		finished := e.record != nil && now.Sub(e.finishedAt) > ttl
		idle := !e.started && !e.cancelled && now.Sub(e.createdAt) > ttl
		e.mu.Unlock()

		switch {
		case finished:
			delete(l.games, id)
			evicted++
		case idle:
			abandoned = append(abandoned, id)
		}
	}
	l.mu.Unlock()

	for _, id := range abandoned {
		l.log.Info("cancel abandoned game", "game", id)
		_ = l.Stop(id)
	}
	if evicted > 0 {
		l.log.Info("evicted finished games", "count", evicted)
	}
	return evicted
}

func (l *Lobby) get(id string) (*entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func validateSeats(seats []SeatSpec) error {
	seen := make(map[string]struct{}, len(seats))
	for _, s := range seats {
		if s.Name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidSeats)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("%w: duplicate name %s", ErrInvalidSeats, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}
