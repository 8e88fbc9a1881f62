package helpers

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// KeyOAuthState is the Redis key holding a pending OAuth state nonce.
func KeyOAuthState(state string) string {
	return "oauth:state:" + state
}
