package database

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"project-sync-api/internal/config"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis connection used for cross-instance event fanout
func InitRedis(cfg config.Config, log *zap.Logger) error {
	var client *redis.Client

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return err
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	RedisClient = client
	log.Info("Redis connection established successfully",
		zap.String("addr", cfg.Redis.Addr),
		zap.Int("db", cfg.Redis.DB))
	return nil
}

// GetRedis returns the Redis client, nil when Redis was never initialized.
// Callers degrade to single-instance fanout in that case.
func GetRedis() *redis.Client {
	return RedisClient
}

// ProjectChannel is the pub/sub channel carrying one project's board events
func ProjectChannel(projectID string) string {
	return fmt.Sprintf("project:%s", projectID)
}

// PublishProjectEvent publishes an event payload to a project channel
func PublishProjectEvent(ctx context.Context, projectID string, payload []byte) error {
	if RedisClient == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return RedisClient.Publish(ctx, ProjectChannel(projectID), payload).Err()
}

// SubscribeProjectEvents subscribes to a project channel, nil without Redis
func SubscribeProjectEvents(ctx context.Context, projectID string) *redis.PubSub {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Subscribe(ctx, ProjectChannel(projectID))
}
