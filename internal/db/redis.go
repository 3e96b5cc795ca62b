package db

import (
	"context"
	"fmt"

	"github.com/Sigma-Eleven/model/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// ConnectRedis opens the client used by the spectator feed and the rate
// limiters. An empty addr disables both and returns a nil client.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		logger.Info("REDIS_ADDR not set, spectator feed disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("redis connected", "addr", addr)
	return client, nil
}
