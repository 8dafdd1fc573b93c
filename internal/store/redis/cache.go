package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/booksyhq/booksy/internal/domain"
)

// The enrichment cache has a redis mirror so replicas share fetch
// results. Expiry is native redis TTL here; the in-process cache in
// internal/cache stays the first layer.

// CacheMetadata stores an extracted metadata record under key with a TTL.
func (s *Store) CacheMetadata(ctx context.Context, key string, m *domain.Metadata, ttl time.Duration) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := s.client.Set(ctx, CacheKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache metadata: %w", err)
	}
	return nil
}

// GetCachedMetadata retrieves a cached metadata record. A miss returns
// (nil, nil).
func (s *Store) GetCachedMetadata(ctx context.Context, key string) (*domain.Metadata, error) {
	data, err := s.client.Get(ctx, CacheKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached metadata: %w", err)
	}

	var m domain.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached metadata: %w", err)
	}
	return &m, nil
}

// CacheFavicon stores a favicon URL under key with a TTL.
func (s *Store) CacheFavicon(ctx context.Context, key, favicon string, ttl time.Duration) error {
	if err := s.client.Set(ctx, CacheKey(key), favicon, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache favicon: %w", err)
	}
	return nil
}

// GetCachedFavicon retrieves a cached favicon URL. A miss returns "".
func (s *Store) GetCachedFavicon(ctx context.Context, key string) (string, error) {
	favicon, err := s.client.Get(ctx, CacheKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get cached favicon: %w", err)
	}
	return favicon, nil
}
