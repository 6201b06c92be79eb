// Package redis is the shared response cache for multi-replica
// deployments. Expiry is delegated to Redis TTLs; any Redis error degrades
// to a cache miss.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

const keyPrefix = "biosearch:result:"

type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

var _ search.Cache = (*Store)(nil)

func Conn(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.Timeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed (%s:%s): %w", cfg.Host, cfg.Port, err)
	}
	return client, nil
}

func New(client *redis.Client, ttl time.Duration, logger *log.Logger) *Store {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[CACHE] ", log.LstdFlags)
	}
	return &Store{client: client, ttl: ttl, logger: logger}
}

func (s *Store) Get(ctx context.Context, key string) (search.AggregateResult, bool) {
	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		return search.AggregateResult{}, false
	}
	var result search.AggregateResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		s.logger.Printf("corrupt cache entry %q: %v", key, err)
		return search.AggregateResult{}, false
	}
	return result, true
}

func (s *Store) Set(ctx context.Context, key string, result search.AggregateResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err(); err != nil {
		s.logger.Printf("cache write %q dropped: %v", key, err)
	}
}
