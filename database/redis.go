package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"backend_customerpro/config"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

// InitRedis connects to Redis. Redis is optional here, it only backs the
// session store; callers fall back to the in-memory store when this fails.
func InitRedis(cfg *config.Config) error {
	Redis = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Redis.Ping(ctx).Err(); err != nil {
		Redis = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("[REDIS] Connected")
	return nil
}

// GetRedis returns the Redis client, nil when Redis is not configured.
func GetRedis() *redis.Client {
	return Redis
}
