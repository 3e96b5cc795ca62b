package sink

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Sigma-Eleven/model/internal/game"

	redis "github.com/redis/go-redis/v9"
)

func TestLine(t *testing.T) {
	cases := []struct {
		a    game.Announcement
		want string
	}{
		{game.Announcement{Message: "night falls", Style: game.StyleNarration}, "#@ night falls"},
		{game.Announcement{Message: "A says hi", Style: game.StyleSpeech}, "#: A says hi"},
		{game.Announcement{Message: "you are citizen", VisibleTo: []string{"A", "B"}, Style: game.StyleAlert}, "#! [A, B] you are citizen"},
	}
	for _, tc := range cases {
		if got := Line(tc.a); got != tc.want {
			t.Fatalf("Line = %q; want %q", got, tc.want)
		}
	}
}

func TestLogSinkWritesAudience(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSink(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := s.Emit(game.Announcement{Seq: 3, Message: "secret", VisibleTo: []string{"W1"}, Style: game.StyleNarration}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"seq=3", "visible_to=[W1]", "message=secret"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log %q missing %q", out, want)
		}
	}
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisSinkIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gameID := "sink-test-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	defer client.Del(context.Background(), RecentKey(gameID))

	sub := client.Subscribe(ctx, FeedChannel(gameID))
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	s := NewRedisSink(client, gameID, 2)
	for i := 1; i <= 3; i++ {
		if err := s.Emit(game.Announcement{Seq: int64(i), Message: "m" + strconv.Itoa(i), Style: game.StyleNarration}); err != nil {
			t.Fatalf("emit: %v", err)
		}
	}

	msg, err := sub.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if !strings.Contains(msg.Payload, `"message":"m1"`) {
		t.Fatalf("payload = %s", msg.Payload)
	}

	recent, err := Recent(ctx, client, gameID, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Message != "m2" || recent[1].Message != "m3" {
		t.Fatalf("recent = %+v", recent)
	}
}
