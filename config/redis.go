package config

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var Ctx = context.Background()

// RedisClient is nil when REDIS_ADDRESS is unset; callers must tolerate that.
var RedisClient *redis.Client

// ConnectRedis initializes the Redis client used for rate limiting
func ConnectRedis() {
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		Log.Warn("REDIS_ADDRESS not set, rate limiting disabled")
		return
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if _, err := RedisClient.Ping(Ctx).Result(); err != nil {
		Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	Log.Info("Connected to Redis")
}
