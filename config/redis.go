package config

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
)

// RedisClient is nil when redis is not configured or unreachable. It carries
// resolver cache snapshots across CLI invocations; everything works without it.
var RedisClient *redis.Client

// InitRedis dials REDIS_ADDR and disables the client when the server does not
// answer a ping, so an absent redis never blocks a command.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		RedisClient = nil
		return
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		zlog.Warn().Err(err).Str("addr", addr).Msg("redis unreachable, cache snapshots disabled")
		RedisClient = nil
		return
	}
	RedisClient = rdb
}

func RedisCtx() context.Context {
	return context.Background()
}
