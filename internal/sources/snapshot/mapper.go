package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/booksyhq/booksy/internal/domain"
)

// Mapper converts a parsed snapshot file into the sync item forest the
// reconciler consumes.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

// Map converts file to sync items. Entries without an explicit id get
// a stable one derived from their URL (or title, for folders) so the
// parent links survive re-syncs. Sibling order becomes the index.
func (m *Mapper) Map(file File) ([]domain.SyncItem, error) {
	if len(file) == 0 {
		return nil, fmt.Errorf("no entries found in snapshot file")
	}

	items := make([]domain.SyncItem, 0, len(file))
	for i, entry := range file {
		items = append(items, m.mapEntry(entry, "", i))
	}
	return items, nil
}

func (m *Mapper) mapEntry(entry Entry, parentID string, index int) domain.SyncItem {
	id := entry.ID
	if id == "" {
		id = stableID(entry)
	}

	item := domain.SyncItem{
		ExternalID: id,
		Title:      entry.Title,
		ParentID:   parentID,
		Index:      index,
	}
	if entry.URL != "" {
		url := entry.URL
		item.URL = &url
	}

	for i, child := range entry.Children {
		item.Children = append(item.Children, m.mapEntry(child, id, i))
	}
	return item
}

// stableID hashes the entry's URL (or title for folders) so the same
// entry always produces the same external id across reloads.
func stableID(entry Entry) string {
	seed := entry.URL
	if seed == "" {
		seed = "folder:" + entry.Title
	}
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:16]
}
