// Package redis implements the store interfaces on top of a redis
// client. Records are stored as JSON values under prefixed keys; scope
// membership is tracked in per-scope id lists so reads preserve
// insertion order.
package redis

import (
	"github.com/redis/go-redis/v9"
)

// Store handles redis operations for bookmarks, profiles and users.
type Store struct {
	client *redis.Client
}

// NewStore creates a new redis store.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
