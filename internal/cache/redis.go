package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"PortfolioPulse/internal/model"
)

// RedisStore shares cached history between processes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisStore{client: client, prefix: "pulse:"}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (model.PriceSeries, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return model.PriceSeries{}, false, nil
	}
	if err != nil {
		return model.PriceSeries{}, false, err
	}
	var series model.PriceSeries
	if err := json.Unmarshal(data, &series); err != nil {
		return model.PriceSeries{}, false, fmt.Errorf("decode cached series: %w", err)
	}
	return series, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, series model.PriceSeries, ttl time.Duration) error {
	data, err := json.Marshal(series)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+key, data, ttl).Err()
}

func (r *RedisStore) Close() error { return r.client.Close() }
