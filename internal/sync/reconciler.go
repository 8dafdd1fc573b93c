// Package sync reconciles an external bookmark snapshot against the
// flat persisted collection of a single scope.
//
// The merge is full-snapshot: every record in scope is first marked
// tentatively deleted, the incoming tree is walked matching items to
// records by URL identity, and whatever is still marked afterwards is
// the deletion count. Reappearing records are healed by the same pass.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/logger"
	"github.com/booksyhq/booksy/internal/store"
)

// Result reports the change counts of one reconciliation.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// Reconciler merges snapshots into a BookmarkStore.
type Reconciler struct {
	store    store.BookmarkStore
	profiles store.ProfileStore
	logger   logger.Logger

	// onCreate, when set, is invoked for every record the
	// reconciliation created (after the traversal commits). The
	// bookmark service wires this to enrichment dispatch.
	onCreate func(b *domain.Bookmark)

	now   func() time.Time
	newID func() string
}

// New creates a reconciler. onCreate may be nil.
func New(s store.BookmarkStore, profiles store.ProfileStore, log logger.Logger, onCreate func(b *domain.Bookmark)) *Reconciler {
	return &Reconciler{
		store:    s,
		profiles: profiles,
		logger:   log,
		onCreate: onCreate,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// walkState carries the per-call bookkeeping of one traversal.
type walkState struct {
	scope domain.Scope
	stats Result

	// extToInt maps external ids to the internal ids of the records
	// they produced, for the parent fix-up pass.
	extToInt map[string]string

	// links records, per processed record, the external parent id it
	// arrived with. Resolved after the traversal, when every external
	// id has been seen.
	links []parentLink

	created []*domain.Bookmark
}

type parentLink struct {
	recordID  string
	extParent string
}

// Reconcile merges snapshot into scope and returns the change counts.
//
// The snapshot must be non-empty; an empty one would wipe the scope,
// so it is rejected as invalid input. Store errors abort the remaining
// traversal with no partial-commit guarantee across items.
func (r *Reconciler) Reconcile(ctx context.Context, scope domain.Scope, snapshot []domain.SyncItem) (Result, error) {
	if len(snapshot) == 0 {
		return Result{}, fmt.Errorf("snapshot must be a non-empty array: %w", domain.ErrInvalidInput)
	}

	// The target profile must exist before anything is touched;
	// reconciling into an unknown scope would silently build an
	// unreachable collection.
	if _, err := r.profiles.GetProfile(ctx, scope.UserID, scope.ProfileID); err != nil {
		return Result{}, err
	}

	// Innocent until proven present: everything starts marked deleted
	// and is unmarked as the snapshot confirms it.
	if err := r.store.MarkAllDeleted(ctx, scope); err != nil {
		return Result{}, fmt.Errorf("failed to mark scope deleted: %w", err)
	}

	st := &walkState{
		scope:    scope,
		extToInt: make(map[string]string),
	}

	for i := range snapshot {
		if err := r.processItem(ctx, &snapshot[i], st); err != nil {
			return Result{}, err
		}
	}

	if err := r.resolveParents(ctx, st); err != nil {
		return Result{}, err
	}

	deleted, err := r.store.CountDeleted(ctx, scope)
	if err != nil {
		return Result{}, fmt.Errorf("failed to count deletions: %w", err)
	}
	st.stats.Deleted = deleted

	if r.onCreate != nil {
		for _, b := range st.created {
			r.onCreate(b)
		}
	}

	r.logger.Info("snapshot reconciled",
		logger.String("profile", scope.ProfileID),
		logger.Int("created", st.stats.Created),
		logger.Int("updated", st.stats.Updated),
		logger.Int("deleted", st.stats.Deleted))

	return st.stats, nil
}

// processItem handles one snapshot node, children first. Children are
// fully processed before the item itself so their lookups are settled
// by the time the parent is matched.
func (r *Reconciler) processItem(ctx context.Context, item *domain.SyncItem, st *walkState) error {
	for i := range item.Children {
		if err := r.processItem(ctx, &item.Children[i], st); err != nil {
			return err
		}
	}

	// The browser-reserved root containers are implicit and never
	// materialized as records.
	if domain.IsReservedRoot(item.ExternalID) {
		return nil
	}

	url := ""
	if item.URL != nil {
		url = *item.URL
	}

	existing, err := r.store.FindByURL(ctx, st.scope, url)
	if err != nil {
		return fmt.Errorf("failed to match item %q: %w", item.Title, err)
	}

	var record *domain.Bookmark
	if existing != nil {
		record = r.applyItem(existing, item)
		st.stats.Updated++
	} else {
		record = r.newRecord(item, st.scope, url)
		st.stats.Created++
		st.created = append(st.created, record)
	}

	if err := r.store.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save item %q: %w", item.Title, err)
	}

	st.extToInt[item.ExternalID] = record.ID
	st.links = append(st.links, parentLink{recordID: record.ID, extParent: item.ParentID})
	return nil
}

// applyItem updates an existing record in place from a snapshot item
// and clears its tentative deletion.
func (r *Reconciler) applyItem(b *domain.Bookmark, item *domain.SyncItem) *domain.Bookmark {
	b.Title = item.Title
	b.Position = item.Index
	b.Kind = item.KindOf()
	if item.URL != nil {
		b.URL = *item.URL
	}
	if item.DateGroupModified != nil {
		t := time.UnixMilli(*item.DateGroupModified)
		b.DateGroupModified = &t
	}
	b.Deleted = false
	b.UpdatedAt = r.now()
	return b
}

func (r *Reconciler) newRecord(item *domain.SyncItem, scope domain.Scope, url string) *domain.Bookmark {
	now := r.now()
	b := &domain.Bookmark{
		ID:        r.newID(),
		UserID:    scope.UserID,
		ProfileID: scope.ProfileID,
		Position:  item.Index,
		Kind:      item.KindOf(),
		Title:     item.Title,
		URL:       url,
		Deleted:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if item.DateGroupModified != nil {
		t := time.UnixMilli(*item.DateGroupModified)
		b.DateGroupModified = &t
	}
	return b
}

// resolveParents maps the external parent references collected during
// the walk onto internal record ids. Children are processed before
// their parents, so resolution has to wait until the whole snapshot
// has been seen. Parents that are reserved roots, or external ids the
// snapshot never produced a record for, resolve to "" (root).
func (r *Reconciler) resolveParents(ctx context.Context, st *walkState) error {
	for _, link := range st.links {
		parentID := ""
		if !domain.IsReservedRoot(link.extParent) {
			parentID = st.extToInt[link.extParent]
		}

		record, err := r.store.Get(ctx, st.scope, link.recordID)
		if err != nil {
			return fmt.Errorf("failed to load record for parent resolution: %w", err)
		}
		if record.ParentID == parentID {
			continue
		}
		record.ParentID = parentID
		if err := r.store.Save(ctx, record); err != nil {
			return fmt.Errorf("failed to save parent link: %w", err)
		}
	}
	return nil
}
