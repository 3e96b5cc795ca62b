package lobby

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Sigma-Eleven/model/internal/domain"
	"github.com/Sigma-Eleven/model/internal/service"
	"github.com/Sigma-Eleven/model/internal/variant/elimination"
	"github.com/Sigma-Eleven/model/internal/ws"
)

type memStore struct {
	mu   sync.Mutex
	recs []*domain.GameRecord
}

func (m *memStore) Create(_ context.Context, rec *domain.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func robots(names ...string) []SeatSpec {
	out := make([]SeatSpec, len(names))
	for i, n := range names {
		out[i] = SeatSpec{Name: n}
	}
	return out
}

func TestRobotGameRunsToTheEnd(t *testing.T) {
	store := &memStore{}
	l := New(Config{Results: store, Logger: quiet(), Seed: 42})

	created, err := l.Create(CreateRequest{Seats: robots("A", "B", "C", "D", "E")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created.Seats) != 5 || created.Seats[0].Token != "" {
		t.Fatalf("created = %+v", created)
	}

	snap, _ := l.Status(created.GameID)
	if snap.Status != "idle" || snap.Seats[0].Role != "" {
		t.Fatalf("before start = %+v", snap)
	}

	if err := l.Start(created.GameID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := l.Start(created.GameID); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second start err = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := l.Wait(ctx, created.GameID); err != nil {
		t.Fatalf("wait: %v", err)
	}

	snap, err = l.Status(created.GameID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if snap.Status != "game_over" || snap.Day < 1 {
		t.Fatalf("after run = %+v", snap)
	}
	if snap.Winner != elimination.WinnerCitizens && snap.Winner != elimination.WinnerInfiltrators {
		t.Fatalf("winner = %q", snap.Winner)
	}
	for _, s := range snap.Seats {
		if s.Role == "" {
			t.Fatalf("role of %s not revealed after the game", s.Name)
		}
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.recs) != 1 {
		t.Fatalf("stored %d records", len(store.recs))
	}
	rec := store.recs[0]
	if rec.GameID != created.GameID || rec.Outcome != domain.OutcomeGameOver || len(rec.Seats) != 5 || rec.Winner != snap.Winner {
		t.Fatalf("record = %+v", rec)
	}
	if got, err := l.Result(created.GameID); err != nil || got != rec {
		t.Fatalf("result = %v, %v", got, err)
	}
}

func TestCreateValidatesSeats(t *testing.T) {
	l := New(Config{Logger: quiet()})

	cases := []struct {
		name  string
		seats []SeatSpec
		want  error
	}{
		{"duplicate", robots("A", "A", "B"), ErrInvalidSeats},
		{"empty name", robots("A", "", "B"), ErrInvalidSeats},
		{"too few", robots("A", "B"), elimination.ErrTooFewPlayers},
		{"remote without hub", []SeatSpec{{Name: "A", Remote: true}, {Name: "B"}, {Name: "C"}}, ErrRemoteUnavailable},
	}
	for _, tc := range cases {
		if _, err := l.Create(CreateRequest{Seats: tc.seats}); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v; want %v", tc.name, err, tc.want)
		}
	}
}

func TestRemoteSeatIsRegistered(t *testing.T) {
	tokens, _ := service.NewSeatTokens("lobby-secret", time.Hour)
	hub := ws.NewHub()
	l := New(Config{Hub: hub, Tokens: tokens, Logger: quiet(), TurnTimeout: time.Second})

	created, err := l.Create(CreateRequest{Seats: []SeatSpec{{Name: "Alice", Remote: true}, {Name: "B"}, {Name: "C"}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	claims, err := tokens.Parse(created.Seats[0].Token)
	if err != nil || claims.GameID != created.GameID || claims.Seat != "Alice" {
		t.Fatalf("claims = %+v, %v", claims, err)
	}
	if _, err := hub.Lookup(created.GameID, "Alice"); err != nil {
		t.Fatalf("lookup: %v", err)
	}

	snap, _ := l.Status(created.GameID)
	if !snap.Seats[0].Remote || snap.Seats[0].Connected {
		t.Fatalf("seat = %+v", snap.Seats[0])
	}
}

func TestStopBeforeStartCancels(t *testing.T) {
	l := New(Config{Logger: quiet()})
	created, err := l.Create(CreateRequest{Seats: robots("A", "B", "C")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := l.Stop(created.GameID); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := l.Stop(created.GameID); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	if err := l.Start(created.GameID); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("start after stop err = %v", err)
	}
	if err := l.Wait(context.Background(), created.GameID); err != nil {
		t.Fatalf("wait: %v", err)
	}
	snap, _ := l.Status(created.GameID)
	if snap.Status != "stopped" || snap.FinishedAt == nil {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestStopBeforeStartReleasesRemoteSeats(t *testing.T) {
	tokens, _ := service.NewSeatTokens("lobby-secret", time.Hour)
	hub := ws.NewHub()
	store := &memStore{}
	l := New(Config{Hub: hub, Tokens: tokens, Results: store, Logger: quiet(), TurnTimeout: time.Second})

	created, err := l.Create(CreateRequest{Seats: []SeatSpec{{Name: "Alice", Remote: true}, {Name: "B"}, {Name: "C"}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := l.Stop(created.GameID); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if _, err := hub.Lookup(created.GameID, "Alice"); !errors.Is(err, ws.ErrUnknownSeat) {
		t.Fatalf("lookup after stop err = %v", err)
	}
	if hub.Games() != 0 {
		t.Fatalf("hub still holds %d games", hub.Games())
	}

	rec, err := l.Result(created.GameID)
	if err != nil || rec.Outcome != domain.OutcomeStopped || len(rec.Seats) != 3 {
		t.Fatalf("result = %+v, %v", rec, err)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.recs) != 1 || store.recs[0] != rec {
		t.Fatalf("stored %+v", store.recs)
	}
}

func TestShutdownCancelsIdleGames(t *testing.T) {
	hub := ws.NewHub()
	tokens, _ := service.NewSeatTokens("lobby-secret", time.Hour)
	l := New(Config{Hub: hub, Tokens: tokens, Logger: quiet(), TurnTimeout: time.Second})

	created, err := l.Create(CreateRequest{Seats: []SeatSpec{{Name: "Alice", Remote: true}, {Name: "B"}, {Name: "C"}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := l.Wait(ctx, created.GameID); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if snap, _ := l.Status(created.GameID); snap.Status != "stopped" {
		t.Fatalf("status = %q", snap.Status)
	}
	if hub.Games() != 0 {
		t.Fatalf("hub still holds %d games", hub.Games())
	}
}

func TestSweepEvictsOldGames(t *testing.T) {
	l := New(Config{Logger: quiet()})

	stopped, err := l.Create(CreateRequest{Seats: robots("A", "B", "C")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	waiting, err := l.Create(CreateRequest{Seats: robots("D", "E", "F")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := l.Stop(stopped.GameID); err != nil {
		t.Fatalf("stop: %v", err)
	}

	now := time.Now()
	if n := l.sweep(now, time.Hour); n != 0 {
		t.Fatalf("evicted %d fresh games", n)
	}
	if _, err := l.Result(stopped.GameID); err != nil {
		t.Fatalf("result before ttl: %v", err)
	}

	// the finished game goes, the one never started is cancelled first
	later := now.Add(2 * time.Hour)
	if n := l.sweep(later, time.Hour); n != 1 {
		t.Fatalf("evicted %d games; want 1", n)
	}
	if _, err := l.Status(stopped.GameID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("status after eviction err = %v", err)
	}
	snap, err := l.Status(waiting.GameID)
	if err != nil || snap.Status != "stopped" {
		t.Fatalf("abandoned game = %+v, %v", snap, err)
	}

	if n := l.sweep(later.Add(2*time.Hour), time.Hour); n != 1 {
		t.Fatalf("evicted %d games; want 1", n)
	}
	if _, err := l.Status(waiting.GameID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("status after eviction err = %v", err)
	}
}

func TestUnknownGame(t *testing.T) {
	l := New(Config{Logger: quiet()})
	if _, err := l.Status("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("status err = %v", err)
	}
	if err := l.Start("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("start err = %v", err)
	}
	if err := l.Stop("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stop err = %v", err)
	}
	if err := l.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
