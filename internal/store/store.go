// Package store defines the persistence interfaces the services are
// written against. Implementations live in the redis and memory
// subpackages; callers receive them by injection and never reach for a
// process-wide singleton.
package store

import (
	"context"

	"github.com/booksyhq/booksy/internal/domain"
)

// BookmarkStore is the flat bookmark collection, scoped by owner and
// profile. Lookup failures return domain.ErrNotFound; infrastructure
// failures wrap domain.ErrStore.
type BookmarkStore interface {
	// Save inserts or replaces a record by ID.
	Save(ctx context.Context, b *domain.Bookmark) error

	// Get returns the record with the given id within scope.
	Get(ctx context.Context, scope domain.Scope, id string) (*domain.Bookmark, error)

	// FindByURL returns the record in scope whose URL equals url, or
	// (nil, nil) when none matches. An empty url matches the single
	// null-url record of the scope.
	FindByURL(ctx context.Context, scope domain.Scope, url string) (*domain.Bookmark, error)

	// List returns the scope's records in insertion order. Soft-deleted
	// records are excluded unless includeDeleted is set.
	List(ctx context.Context, scope domain.Scope, includeDeleted bool) ([]*domain.Bookmark, error)

	// MarkAllDeleted sets Deleted on every record in scope.
	MarkAllDeleted(ctx context.Context, scope domain.Scope) error

	// CountDeleted returns the number of records in scope with
	// Deleted set.
	CountDeleted(ctx context.Context, scope domain.Scope) (int, error)

	// Delete physically removes a record.
	Delete(ctx context.Context, scope domain.Scope, id string) error
}

// ProfileStore holds the per-user bookmark containers. Method names
// are prefixed so a single concrete store can satisfy every interface
// in this package.
type ProfileStore interface {
	SaveProfile(ctx context.Context, p *domain.Profile) error
	GetProfile(ctx context.Context, userID, id string) (*domain.Profile, error)
	ListProfiles(ctx context.Context, userID string) ([]*domain.Profile, error)
	DeleteProfile(ctx context.Context, userID, id string) error
}

// UserStore resolves owning accounts.
type UserStore interface {
	SaveUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
}
