// Package memory provides in-memory implementations of the store
// interfaces. It backs tests and redis-less development runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/booksyhq/booksy/internal/domain"
)

// Store keeps all records in process memory, guarded by a single
// RWMutex. Records are copied on the way in and out so callers can
// mutate what they hold without racing the store, mirroring the JSON
// round-trip of the redis store.
type Store struct {
	mu        sync.RWMutex
	bookmarks map[string]*domain.Bookmark
	order     []string // bookmark ids in insertion order
	profiles  map[string]*domain.Profile
	users     map[string]*domain.User
}

// New creates an empty store.
func New() *Store {
	return &Store{
		bookmarks: make(map[string]*domain.Bookmark),
		profiles:  make(map[string]*domain.Profile),
		users:     make(map[string]*domain.User),
	}
}

func cloneBookmark(b *domain.Bookmark) *domain.Bookmark {
	c := *b
	if b.Metadata != nil {
		m := *b.Metadata
		m.Tags = append([]string(nil), b.Metadata.Tags...)
		c.Metadata = &m
	}
	if b.DateGroupModified != nil {
		t := *b.DateGroupModified
		c.DateGroupModified = &t
	}
	return &c
}

func inScope(b *domain.Bookmark, scope domain.Scope) bool {
	return b.UserID == scope.UserID && b.ProfileID == scope.ProfileID
}

// ─────────────────────────────────────────────────────────────────
// BookmarkStore
// ─────────────────────────────────────────────────────────────────

func (s *Store) Save(_ context.Context, b *domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookmarks[b.ID]; !exists {
		s.order = append(s.order, b.ID)
	}
	s.bookmarks[b.ID] = cloneBookmark(b)
	return nil
}

func (s *Store) Get(_ context.Context, scope domain.Scope, id string) (*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookmarks[id]
	if !ok || !inScope(b, scope) {
		return nil, fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
	}
	return cloneBookmark(b), nil
}

func (s *Store) FindByURL(_ context.Context, scope domain.Scope, url string) (*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		b := s.bookmarks[id]
		if inScope(b, scope) && b.URL == url {
			return cloneBookmark(b), nil
		}
	}
	return nil, nil
}

func (s *Store) List(_ context.Context, scope domain.Scope, includeDeleted bool) ([]*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Bookmark, 0)
	for _, id := range s.order {
		b := s.bookmarks[id]
		if !inScope(b, scope) {
			continue
		}
		if b.Deleted && !includeDeleted {
			continue
		}
		out = append(out, cloneBookmark(b))
	}
	return out, nil
}

func (s *Store) MarkAllDeleted(_ context.Context, scope domain.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookmarks {
		if inScope(b, scope) {
			b.Deleted = true
		}
	}
	return nil
}

func (s *Store) CountDeleted(_ context.Context, scope domain.Scope) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, b := range s.bookmarks {
		if inScope(b, scope) && b.Deleted {
			count++
		}
	}
	return count, nil
}

func (s *Store) Delete(_ context.Context, scope domain.Scope, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok || !inScope(b, scope) {
		return fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
	}
	delete(s.bookmarks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────
// ProfileStore
// ─────────────────────────────────────────────────────────────────

func (s *Store) SaveProfile(_ context.Context, p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *p
	s.profiles[p.ID] = &c
	return nil
}

func (s *Store) GetProfile(_ context.Context, userID, id string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok || p.UserID != userID {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	c := *p
	return &c, nil
}

func (s *Store) ListProfiles(_ context.Context, userID string) ([]*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Profile, 0)
	for _, p := range s.profiles {
		if p.UserID == userID {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *Store) DeleteProfile(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok || p.UserID != userID {
		return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	delete(s.profiles, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────
// UserStore
// ─────────────────────────────────────────────────────────────────

func (s *Store) SaveUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	c := *u
	return &c, nil
}
