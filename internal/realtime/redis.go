package realtime

import (
	"log"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates the redis client used for notification publishing and the
// dashboard-stats cache.
func NewRedis(addr, password string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	log.Printf("Redis client created (addr: %s)\n", addr)
	return rdb
}
