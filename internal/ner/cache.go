package ner

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KhymNad/resume-matcher-api/internal/types"
)

// DefaultCacheTTL controls how long predictions stay cached.
const DefaultCacheTTL = 24 * time.Hour

// CachedRecognizer serves repeated chunks from Redis. Cache failures never
// fail a request; they fall through to the wrapped recognizer.
type CachedRecognizer struct {
	next      Recognizer
	rdb       *redis.Client
	ttl       time.Duration
	namespace string

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats reports cache effectiveness counters.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// NewCachedRecognizer wraps next with a Redis cache. namespace separates
// entries for different models (typically the endpoint URL).
func NewCachedRecognizer(next Recognizer, rdb *redis.Client, namespace string, ttl time.Duration) *CachedRecognizer {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedRecognizer{next: next, rdb: rdb, ttl: ttl, namespace: namespace}
}

// ConnectRedis parses redisURL, connects and pings the server.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}

	slog.Info("ner cache: redis connected", slog.String("addr", opts.Addr))
	return rdb, nil
}

// CacheKey builds a deterministic key for a chunk.
func CacheKey(namespace, text string) string {
	hash := sha256.Sum256([]byte(namespace + "|" + text))
	return fmt.Sprintf("ner:%x", hash[:16])
}

// Recognize returns cached predictions for text or calls the wrapped
// recognizer and caches its result.
func (c *CachedRecognizer) Recognize(ctx context.Context, text string) ([]types.RawEntity, error) {
	key := CacheKey(c.namespace, text)

	if entities, ok := c.get(ctx, key); ok {
		c.hits.Add(1)
		return entities, nil
	}
	c.misses.Add(1)

	entities, err := c.next.Recognize(ctx, text)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, entities)
	return entities, nil
}

// Stats returns the hit and miss counters.
func (c *CachedRecognizer) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *CachedRecognizer) get(ctx context.Context, key string) ([]types.RawEntity, bool) {
	if c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("ner cache: read failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}

	var entities []types.RawEntity
	if err := json.Unmarshal(data, &entities); err != nil {
		slog.Warn("ner cache: corrupt entry", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	slog.Debug("ner cache: hit", slog.String("key", key))
	return entities, true
}

func (c *CachedRecognizer) set(ctx context.Context, key string, entities []types.RawEntity) {
	if c.rdb == nil {
		return
	}

	data, err := json.Marshal(entities)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("ner cache: write failed", slog.String("key", key), slog.Any("error", err))
	}
}
