package domain

// SyncItem is one node of the external snapshot tree submitted in a
// sync call. It is never persisted; identity across runs is matched by
// URL, not by ExternalID.
type SyncItem struct {
	// ExternalID is the identifier assigned by the external source
	// (e.g. a browser). Its id space is unrelated to Bookmark.ID.
	ExternalID string `json:"id"`

	Title string `json:"title"`

	// URL is nil for folders.
	URL *string `json:"url,omitempty"`

	// ParentID references another item's ExternalID.
	ParentID string `json:"parentId,omitempty"`

	// Index is the position among siblings.
	Index int `json:"index"`

	DateAdded         int64  `json:"dateAdded,omitempty"`
	DateGroupModified *int64 `json:"dateGroupModified,omitempty"`

	Children []SyncItem `json:"children,omitempty"`
}

// reservedRootIDs are the browser-reserved containers (root, bookmarks
// bar, other bookmarks). They are implicit and never materialized as
// records.
var reservedRootIDs = map[string]bool{"0": true, "1": true, "2": true}

// IsReservedRoot reports whether an external id names one of the three
// browser-reserved containers.
func IsReservedRoot(externalID string) bool {
	return reservedRootIDs[externalID]
}

// KindOf determines the record kind for an incoming item: a folder if
// it has no URL or has at least one child, a bookmark otherwise.
func (it *SyncItem) KindOf() Kind {
	if it.URL == nil || *it.URL == "" || len(it.Children) > 0 {
		return KindFolder
	}
	return KindBookmark
}
