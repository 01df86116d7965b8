package data

import (
	"github.com/go-redis/redis/v8"
	"github.com/roguepikachu/sendy/internal/config"
)

// NewRedisClient creates and returns a new Redis client using environment configuration.
func NewRedisClient() *redis.Client {
	redisAddr := config.Conf.RedisAddr
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
}
