// Package cache holds the Redis snapshot cache that sits in front of the
// latest-quote queries. Redis is never authoritative: misses and errors
// fall through to Postgres, and the feed consumer invalidates the keys
// whenever new market data lands.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/veritasight/portfolio-service/internal/models"
)

const (
	quotesKey  = "quotes:latest"
	indicesKey = "indices:latest"
)

// QuoteCache caches the latest quote snapshots in Redis.
type QuoteCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// New creates a QuoteCache with the given TTL.
func New(client *redis.Client, ttl time.Duration, log zerolog.Logger) *QuoteCache {
	return &QuoteCache{
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "quote_cache").Logger(),
	}
}

// GetQuotes returns the cached latest quotes, or (nil, false) on a miss.
func (c *QuoteCache) GetQuotes(ctx context.Context) ([]models.Quote, bool) {
	var quotes []models.Quote
	if !c.get(ctx, quotesKey, &quotes) {
		return nil, false
	}
	return quotes, true
}

// SetQuotes stores the latest quotes under the cache TTL.
func (c *QuoteCache) SetQuotes(ctx context.Context, quotes []models.Quote) {
	c.set(ctx, quotesKey, quotes)
}

// GetIndexQuotes returns the cached latest index quotes, or (nil, false)
// on a miss.
func (c *QuoteCache) GetIndexQuotes(ctx context.Context) ([]models.IndexQuote, bool) {
	var indices []models.IndexQuote
	if !c.get(ctx, indicesKey, &indices) {
		return nil, false
	}
	return indices, true
}

// SetIndexQuotes stores the latest index quotes under the cache TTL.
func (c *QuoteCache) SetIndexQuotes(ctx context.Context, indices []models.IndexQuote) {
	c.set(ctx, indicesKey, indices)
}

// Invalidate drops both snapshot keys. Called by the feed consumer after
// new market data is written.
func (c *QuoteCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, quotesKey, indicesKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("failed to invalidate quote cache")
	}
}

func (c *QuoteCache) get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling through to database")
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt, dropping it")
		c.client.Del(ctx, key)
		return false
	}
	return true
}

func (c *QuoteCache) set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("failed to marshal cache entry")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Ping verifies the Redis connection at startup.
func (c *QuoteCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}
