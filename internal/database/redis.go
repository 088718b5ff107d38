package database

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedis returns nil when addr is empty or the server does not answer a ping.
func NewRedis(ctx context.Context, addr, password string, db int, log *zap.Logger) *redis.Client {
	if strings.TrimSpace(addr) == "" {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis not available", zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}
