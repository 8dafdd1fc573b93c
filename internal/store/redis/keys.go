package redis

import "github.com/booksyhq/booksy/internal/domain"

const (
	// KeyPrefixBookmark is the prefix for bookmark record keys.
	KeyPrefixBookmark = "booksy:bookmark:"
	// KeyPrefixScope is the prefix for per-scope bookmark id lists.
	KeyPrefixScope = "booksy:scope:"
	// KeyPrefixProfile is the prefix for profile record keys.
	KeyPrefixProfile = "booksy:profile:"
	// KeyPrefixUserProfiles is the prefix for per-user profile id sets.
	KeyPrefixUserProfiles = "booksy:user-profiles:"
	// KeyPrefixUser is the prefix for user record keys.
	KeyPrefixUser = "booksy:user:"
	// KeyPrefixCache is the prefix for enrichment cache keys.
	KeyPrefixCache = "booksy:cache:"
)

// BookmarkKey returns the redis key for a bookmark record.
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// ScopeKey returns the redis key for a scope's bookmark id list.
func ScopeKey(scope domain.Scope) string {
	return KeyPrefixScope + scope.UserID + ":" + scope.ProfileID + ":bookmarks"
}

// ProfileKey returns the redis key for a profile record.
func ProfileKey(id string) string {
	return KeyPrefixProfile + id
}

// UserProfilesKey returns the redis key for the set of a user's
// profile ids.
func UserProfilesKey(userID string) string {
	return KeyPrefixUserProfiles + userID
}

// UserKey returns the redis key for a user record.
func UserKey(id string) string {
	return KeyPrefixUser + id
}

// CacheKey returns the redis key for an enrichment cache entry.
func CacheKey(key string) string {
	return KeyPrefixCache + key
}
