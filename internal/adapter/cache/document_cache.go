package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"docman/internal/domain"
)

// RedisCmds is the slice of redis.Client the cache depends on.
type RedisCmds interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// DocumentCache is a read-through decorator over a DocumentGateway.
// Resolve results are cached in Redis for a TTL; SetStatus writes through
// and drops the cached entry so readers never see a stale status for
// longer than one round trip.
type DocumentCache struct {
	next   domain.DocumentGateway
	client RedisCmds
	ttl    time.Duration
	logger zerolog.Logger
}

func NewDocumentCache(next domain.DocumentGateway, client RedisCmds, ttl time.Duration, logger zerolog.Logger) *DocumentCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DocumentCache{next: next, client: client, ttl: ttl, logger: logger}
}

func cacheKey(documentID string) string {
	return "docman:document:" + documentID
}

func (c *DocumentCache) Resolve(ctx context.Context, documentID string) (*domain.DocumentMeta, error) {
	if raw, err := c.client.Get(ctx, cacheKey(documentID)).Bytes(); err == nil {
		var meta domain.DocumentMeta
		if err := json.Unmarshal(raw, &meta); err == nil {
			return &meta, nil
		}
		// Corrupt entry, fall through to the gateway.
		c.client.Del(ctx, cacheKey(documentID))
	}

	meta, err := c.next.Resolve(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(meta); err == nil {
		if err := c.client.Set(ctx, cacheKey(documentID), raw, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("document_id", documentID).Msg("cache: set failed")
		}
	}
	return meta, nil
}

func (c *DocumentCache) SetStatus(ctx context.Context, documentID string, status domain.DocumentStatus) error {
	if err := c.next.SetStatus(ctx, documentID, status); err != nil {
		return err
	}
	if err := c.client.Del(ctx, cacheKey(documentID)).Err(); err != nil {
		c.logger.Warn().Err(err).Str("document_id", documentID).Msg("cache: invalidate failed")
	}
	return nil
}

var _ domain.DocumentGateway = (*DocumentCache)(nil)
