package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// ConnectRedis initializes a singleton Redis client based on environment
// variables. Returns the client (or nil) and an error if the ping failed.
// In the test environment no connection is attempted.
func ConnectRedis() (*redis.Client, error) {
	var err error
	redisOnce.Do(func() {
		cfg := LoadConfig()
		if cfg != nil && cfg.AppEnv == "test" {
			return
		}

		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		pass := os.Getenv("REDIS_PASS")
		dbNum := 0
		if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
			if v, e := strconv.Atoi(dbStr); e == nil {
				dbNum = v
			}
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: pass,
			DB:       dbNum,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if pingErr := rdb.Ping(ctx).Err(); pingErr != nil {
			err = fmt.Errorf("redis ping failed: %w", pingErr)
			log.Printf("redis unavailable at %s: %v", addr, pingErr)
			return
		}
		redisClient = rdb
	})
	return redisClient, err
}

// GetRedisClient returns the singleton Redis client, or nil when Redis was
// never connected. Callers treat nil as "feature disabled".
func GetRedisClient() *redis.Client {
	return redisClient
}

// SetRedisClient overrides the singleton; tests use this with a miniature
// or mock client.
func SetRedisClient(client *redis.Client) {
	redisClient = client
}
