// File: utils/cache.go
package utils

import (
	"barberbook/config"
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// BookingCacheClient holds booking sessions.
	BookingCacheClient *redis.Client
	// CategoryCacheClient holds the last active category per device.
	CategoryCacheClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Fatal("Failed to connect to Redis", zap.String("client", name), zap.Error(err))
	}
	return client
}

// InitRedis connects every Redis client the service uses.
func InitRedis() {
	GetBookingCacheClient()
	GetCategoryCacheClient()
}

// GetBookingCacheClient returns the Redis client for booking sessions.
func GetBookingCacheClient() *redis.Client {
	if BookingCacheClient == nil {
		BookingCacheClient = newRedisClient(config.AppConfig.RedisBookingDB, "booking")
	}
	return BookingCacheClient
}

// GetCategoryCacheClient returns the Redis client for the active category cache.
func GetCategoryCacheClient() *redis.Client {
	if CategoryCacheClient == nil {
		CategoryCacheClient = newRedisClient(config.AppConfig.RedisCategoryDB, "category")
	}
	return CategoryCacheClient
}

// RedisClients lists the connected clients, for health checks and shutdown.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{BookingCacheClient, CategoryCacheClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
