package domain

import "time"

// Kind distinguishes folders from leaf bookmarks.
type Kind string

const (
	KindFolder   Kind = "folder"
	KindBookmark Kind = "bookmark"
)

// Scope is the reconciliation boundary: one sync call touches exactly
// one profile's records for one owner.
type Scope struct {
	UserID    string
	ProfileID string
}

// Bookmark is the persisted, flat representation of a node.
// Hierarchy is encoded only through ParentID, resolved at read time
// by BuildTree.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical internal identifier, generated at creation
	// and never reused.
	ID string `json:"id"`

	// UserID / ProfileID scope the record to its owner.
	UserID    string `json:"userId"`
	ProfileID string `json:"profileId"`

	// ─────────────────────────────
	// Hierarchy & ordering
	// ─────────────────────────────

	// ParentID references another record's ID, empty for a root node.
	ParentID string `json:"parentId"`

	// Position orders the record among its siblings. Not required unique.
	Position int `json:"position"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	Kind  Kind   `json:"kind"`
	Title string `json:"title"`

	// URL is empty for folders. Within a scope it is the natural
	// matching key used by the reconciler.
	URL string `json:"url"`

	Description string `json:"description,omitempty"`

	// Tags is a comma-joined tag list.
	Tags string `json:"tags,omitempty"`

	// Metadata is the enrichment payload, set only by the enricher.
	Metadata *Metadata `json:"metadata,omitempty"`

	// DateGroupModified is carried through from the source snapshot
	// for folders.
	DateGroupModified *time.Time `json:"dateGroupModified,omitempty"`

	// ─────────────────────────────
	// Lifecycle
	// ─────────────────────────────

	// Deleted marks a record as logically absent from the current
	// snapshot. It stays stored until a later sync heals it or an
	// explicit delete removes it.
	Deleted bool `json:"deleted"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Scope returns the record's reconciliation scope.
func (b *Bookmark) Scope() Scope {
	return Scope{UserID: b.UserID, ProfileID: b.ProfileID}
}

// IsFolder reports whether the record is a folder node.
func (b *Bookmark) IsFolder() bool {
	return b.Kind == KindFolder
}

// Metadata is the structured enrichment payload scraped from a
// bookmark's target URL.
type Metadata struct {
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	Favicon       string   `json:"favicon,omitempty"`
	SiteName      string   `json:"siteName,omitempty"`
	Author        string   `json:"author,omitempty"`
	PublishedTime string   `json:"publishedTime,omitempty"`
	ModifiedTime  string   `json:"modifiedTime,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// Profile is a named bookmark container and the unit a snapshot syncs into.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is the owning account. Lookup goes through an injected store,
// never a process-wide list.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}
