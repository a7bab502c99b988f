package repository

import (
	"context"
	"fmt"
	"time"

	"StockSentry/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

// RedisSeen is a Redis-backed SeenStore. Titles live in one set per ticker
// (`<prefix>:seen:<ticker>`), so dedup state survives process restarts and
// an optional TTL bounds growth.
type RedisSeen struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisSeenConfig holds Redis connection settings for the seen store.
type RedisSeenConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration // 0 = no expiry
}

// NewRedisSeen connects to Redis and verifies the connection.
func NewRedisSeen(cfg RedisSeenConfig) (*RedisSeen, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "stocksentry"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisSeen{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}, nil
}

func (r *RedisSeen) key(ticker models.Ticker) string {
	return fmt.Sprintf("%s:seen:%s", r.prefix, ticker)
}

func (r *RedisSeen) Seen(ctx context.Context, ticker models.Ticker, title string) bool {
	ok, err := r.client.SIsMember(ctx, r.key(ticker), title).Result()
	if err != nil {
		// On a broken connection, claim seen: dropping a headline is
		// preferable to delivering it twice.
		return true
	}
	return ok
}

func (r *RedisSeen) Mark(ctx context.Context, ticker models.Ticker, title string) {
	key := r.key(ticker)
	if err := r.client.SAdd(ctx, key, title).Err(); err != nil {
		return
	}
	if r.ttl > 0 {
		r.client.Expire(ctx, key, r.ttl)
	}
}

// FilterNew claims each title via SADD: the reply says whether the member was
// actually added, which makes check-and-mark atomic per title across
// processes as well as goroutines.
func (r *RedisSeen) FilterNew(ctx context.Context, ticker models.Ticker, items []models.NewsItem) []models.NewsItem {
	key := r.key(ticker)
	fresh := make([]models.NewsItem, 0, len(items))
	for _, it := range items {
		added, err := r.client.SAdd(ctx, key, it.Title).Result()
		if err != nil || added == 0 {
			continue
		}
		fresh = append(fresh, it)
	}
	if len(fresh) > 0 && r.ttl > 0 {
		r.client.Expire(ctx, key, r.ttl)
	}
	return fresh
}

// Close closes the Redis connection.
func (r *RedisSeen) Close() error {
	return r.client.Close()
}
