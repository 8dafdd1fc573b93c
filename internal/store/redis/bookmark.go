package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/booksyhq/booksy/internal/domain"
)

// Save inserts or replaces a bookmark record and tracks it in its
// scope's id list.
func (s *Store) Save(ctx context.Context, b *domain.Bookmark) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	key := BookmarkKey(b.ID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check bookmark existence: %w", err)
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}

	// Append to the scope list only on first insert so reads keep
	// insertion order.
	if exists == 0 {
		if err := s.client.RPush(ctx, ScopeKey(b.Scope()), b.ID).Err(); err != nil {
			return fmt.Errorf("failed to add bookmark to scope: %w", err)
		}
	}

	return nil
}

// Get retrieves a bookmark by id within a scope.
func (s *Store) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Bookmark, error) {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Scope() != scope {
		return nil, fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
	}
	return b, nil
}

func (s *Store) getByID(ctx context.Context, id string) (*domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var b domain.Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return &b, nil
}

// FindByURL returns the first record in scope whose URL equals url, or
// (nil, nil) when none matches. An empty url matches the scope's
// single null-url record.
func (s *Store) FindByURL(ctx context.Context, scope domain.Scope, url string) (*domain.Bookmark, error) {
	ids, err := s.client.LRange(ctx, ScopeKey(scope), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list scope bookmarks: %w", err)
	}

	for _, id := range ids {
		b, err := s.getByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Stale list entry, skip.
				continue
			}
			return nil, err
		}
		if b.URL == url {
			return b, nil
		}
	}
	return nil, nil
}

// List returns the scope's records in insertion order.
func (s *Store) List(ctx context.Context, scope domain.Scope, includeDeleted bool) ([]*domain.Bookmark, error) {
	ids, err := s.client.LRange(ctx, ScopeKey(scope), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list scope bookmarks: %w", err)
	}

	bookmarks := make([]*domain.Bookmark, 0, len(ids))
	for _, id := range ids {
		b, err := s.getByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if b.Deleted && !includeDeleted {
			continue
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, nil
}

// MarkAllDeleted sets the Deleted flag on every record in scope.
func (s *Store) MarkAllDeleted(ctx context.Context, scope domain.Scope) error {
	all, err := s.List(ctx, scope, true)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, b := range all {
		b.Deleted = true
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark %s: %w", b.ID, err)
		}
		pipe.Set(ctx, BookmarkKey(b.ID), data, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mark bookmarks deleted: %w", err)
	}
	return nil
}

// CountDeleted returns how many records in scope still carry the
// Deleted flag.
func (s *Store) CountDeleted(ctx context.Context, scope domain.Scope) (int, error) {
	all, err := s.List(ctx, scope, true)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, b := range all {
		if b.Deleted {
			count++
		}
	}
	return count, nil
}

// Delete physically removes a record and its scope list entry.
func (s *Store) Delete(ctx context.Context, scope domain.Scope, id string) error {
	// Scope check before removal.
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}

	if err := s.client.Del(ctx, BookmarkKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if err := s.client.LRem(ctx, ScopeKey(scope), 0, id).Err(); err != nil {
		return fmt.Errorf("failed to remove bookmark from scope: %w", err)
	}
	return nil
}
