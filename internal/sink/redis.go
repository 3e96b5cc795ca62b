package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sigma-Eleven/model/internal/game"

	redis "github.com/redis/go-redis/v9"
)

const (
	DefaultRecent = 100
	emitTimeout   = 2 * time.Second
	recentTTL     = 24 * time.Hour
)

func FeedChannel(gameID string) string {
	return "game:" + gameID + ":feed"
}

func RecentKey(gameID string) string {
	return "game:" + gameID + ":recent"
}

// RedisSink publishes announcements for spectators and keeps the last few
// in a capped list so late joiners can catch up.
type RedisSink struct {
	client *redis.Client
	gameID string
	keep   int64
}

func NewRedisSink(client *redis.Client, gameID string, keep int) *RedisSink {
	if keep <= 0 {
		keep = DefaultRecent
	}
	return &RedisSink{client: client, gameID: gameID, keep: int64(keep)}
}

func (s *RedisSink) Emit(a game.Announcement) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode announcement: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
	defer cancel()

	key := RecentKey(s.gameID)
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Publish(ctx, FeedChannel(s.gameID), payload)
		p.RPush(ctx, key, payload)
		p.LTrim(ctx, key, -s.keep, -1)
		p.Expire(ctx, key, recentTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis feed %s: %w", s.gameID, err)
	}
	return nil
}

// Recent returns up to n of the latest announcements of a game, oldest first.
func Recent(ctx context.Context, client *redis.Client, gameID string, n int) ([]game.Announcement, error) {
	if n <= 0 {
		n = DefaultRecent
	}
	raw, err := client.LRange(ctx, RecentKey(gameID), int64(-n), -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]game.Announcement, 0, len(raw))
	for _, r := range raw {
		var a game.Announcement
		if err := json.Unmarshal([]byte(r), &a); err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
