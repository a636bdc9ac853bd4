package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	noncePrefix = "nonce:"
	// StreamEvents carries every committed ledger event for off-platform
	// consumers (the Discord notifier reads it).
	StreamEvents = "caritas.events"
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

func SetNonce(ctx context.Context, rdb *redis.Client, addr, nonce string) error {
	return rdb.Set(ctx, noncePrefix+addr, nonce, 5*time.Minute).Err()
}

func GetNonce(ctx context.Context, rdb *redis.Client, addr string) (string, error) {
	return rdb.Get(ctx, noncePrefix+addr).Result()
}

func DelNonce(ctx context.Context, rdb *redis.Client, addr string) {
	_ = rdb.Del(ctx, noncePrefix+addr).Err()
}

func PublishEvent(ctx context.Context, rdb *redis.Client, payload map[string]interface{}) error {
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamEvents,
		Values: payload,
	}).Result()
	return err
}
