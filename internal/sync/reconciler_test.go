package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/logger"
	"github.com/booksyhq/booksy/internal/store/memory"
)

func strptr(s string) *string { return &s }

func testScope() domain.Scope {
	return domain.Scope{UserID: "u1", ProfileID: "p1"}
}

// newTestReconciler returns a reconciler over s with the test profile
// seeded and deterministic ids so assertions can name records.
func newTestReconciler(t *testing.T, s *memory.Store, onCreate func(b *domain.Bookmark)) *Reconciler {
	t.Helper()
	seedProfile(t, s, "p1")

	r := New(s, s, logger.Nop(), onCreate)
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return r
}

func seedProfile(t *testing.T, s *memory.Store, id string) {
	t.Helper()
	err := s.SaveProfile(context.Background(), &domain.Profile{
		ID:     id,
		UserID: "u1",
		Name:   id,
	})
	if err != nil {
		t.Fatalf("failed to seed profile %s: %v", id, err)
	}
}

// snapshot of one toolbar root with a folder holding two bookmarks.
func sampleSnapshot() []domain.SyncItem {
	return []domain.SyncItem{
		{
			ExternalID: "1",
			Title:      "Bookmarks Toolbar",
			Children: []domain.SyncItem{
				{
					ExternalID: "10",
					Title:      "Dev",
					ParentID:   "1",
					Index:      0,
					Children: []domain.SyncItem{
						{
							ExternalID: "11",
							Title:      "Go",
							URL:        strptr("https://go.dev"),
							ParentID:   "10",
							Index:      0,
						},
						{
							ExternalID: "12",
							Title:      "Chi",
							URL:        strptr("https://go-chi.io"),
							ParentID:   "10",
							Index:      1,
						},
					},
				},
			},
		},
	}
}

func TestReconcileCreatesFromEmptyStore(t *testing.T) {
	s := memory.New()
	r := newTestReconciler(t, s, nil)

	res, err := r.Reconcile(context.Background(), testScope(), sampleSnapshot())
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if res.Created != 3 || res.Updated != 0 || res.Deleted != 0 {
		t.Fatalf("expected {3 0 0}, got %+v", res)
	}

	list, err := s.List(context.Background(), testScope(), false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	s := memory.New()
	r := newTestReconciler(t, s, nil)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, testScope(), sampleSnapshot()); err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}

	res, err := r.Reconcile(ctx, testScope(), sampleSnapshot())
	if err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}
	if res.Created != 0 {
		t.Errorf("second run created %d records, want 0", res.Created)
	}
	if res.Updated != 3 {
		t.Errorf("second run updated %d records, want 3", res.Updated)
	}
	if res.Deleted != 0 {
		t.Errorf("second run deleted %d records, want 0", res.Deleted)
	}
}

func TestReconcileDetectsRemovals(t *testing.T) {
	s := memory.New()
	r := newTestReconciler(t, s, nil)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, testScope(), sampleSnapshot()); err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}

	// Same snapshot minus the second bookmark.
	next := sampleSnapshot()
	folder := &next[0].Children[0]
	folder.Children = folder.Children[:1]

	res, err := r.Reconcile(ctx, testScope(), next)
	if err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}
	if res.Deleted != 1 {
		t.Fatalf("expected 1 deletion, got %d", res.Deleted)
	}

	gone, err := s.FindByURL(ctx, testScope(), "https://go-chi.io")
	if err != nil {
		t.Fatalf("FindByURL failed: %v", err)
	}
	if gone == nil {
		t.Fatal("removed bookmark should still exist as a record")
	}
	if !gone.Deleted {
		t.Error("removed bookmark should be flagged deleted")
	}

	kept, err := s.FindByURL(ctx, testScope(), "https://go.dev")
	if err != nil {
		t.Fatalf("FindByURL failed: %v", err)
	}
	if kept == nil || kept.Deleted {
		t.Error("kept bookmark should not be flagged deleted")
	}
}

func TestReconcileHealsReappearedRecords(t *testing.T) {
	s := memory.New()
	r := newTestReconciler(t, s, nil)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, testScope(), sampleSnapshot()); err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}

	shrunk := sampleSnapshot()
	folder := &shrunk[0].Children[0]
	folder.Children = folder.Children[:1]
	if _, err := r.Reconcile(ctx, testScope(), shrunk); err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}

	// Full snapshot again: the deleted record comes back as an update,
	// not a duplicate.
	res, err := r.Reconcile(ctx, testScope(), sampleSnapshot())
	if err != nil {
		t.Fatalf("third Reconcile failed: %v", err)
	}
	if res.Created != 0 || res.Updated != 3 || res.Deleted != 0 {
		t.Fatalf("expected {0 3 0}, got %+v", res)
	}

	back, err := s.FindByURL(ctx, testScope(), "https://go-chi.io")
	if err != nil || back == nil {
		t.Fatalf("reappeared bookmark missing: %v", err)
	}
	if back.Deleted {
		t.Error("reappeared bookmark should be undeleted")
	}
}

func TestReconcileRejectsEmptySnapshot(t *testing.T) {
	s := memory.New()
	r := newTestReconciler(t, s, nil)

	_, err := r.Reconcile(context.Background(), testScope(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReconcileSkipsReservedRoots(t *testing.T) {
	s := memory.New()
	r := newTestReconciler(t, s, nil)
	ctx := context.Background()

	snapshot := []domain.SyncItem{
		{ExternalID: "0", Title: "root", Children: []domain.SyncItem{
			{ExternalID: "1", Title: "toolbar", ParentID: "0"},
			{ExternalID: "2", Title: "other", ParentID: "0"},
		}},
	}

	res, err := r.Reconcile(ctx, testScope(), snapshot)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if res.Created != 0 {
		t.Fatalf("reserved containers must not create records, created %d", res.Created)
	}
}

func TestReconcileResolvesParentLinks(t *testing.T) {
	s := memory.New()
	r := newTestReconciler(t, s, nil)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, testScope(), sampleSnapshot()); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	folder, err := s.FindByURL(ctx, testScope(), "")
	if err != nil || folder == nil {
		t.Fatalf("folder record missing: %v", err)
	}
	// The folder hangs off a reserved root, so it resolves to top level.
	if folder.ParentID != "" {
		t.Errorf("folder parent = %q, want root", folder.ParentID)
	}

	child, err := s.FindByURL(ctx, testScope(), "https://go.dev")
	if err != nil || child == nil {
		t.Fatalf("bookmark record missing: %v", err)
	}
	// Parent links point at internal record ids, not snapshot ids.
	if child.ParentID != folder.ID {
		t.Errorf("bookmark parent = %q, want folder id %q", child.ParentID, folder.ID)
	}
	if child.ParentID == "10" {
		t.Error("bookmark parent kept the external snapshot id")
	}
}

func TestReconcileFoldersShareNullURLRecord(t *testing.T) {
	s := memory.New()
	r := newTestReconciler(t, s, nil)
	ctx := context.Background()

	snapshot := []domain.SyncItem{
		{ExternalID: "1", Title: "toolbar", Children: []domain.SyncItem{
			{ExternalID: "10", Title: "Dev", ParentID: "1", Index: 0},
			{ExternalID: "20", Title: "News", ParentID: "1", Index: 1},
		}},
	}

	res, err := r.Reconcile(ctx, testScope(), snapshot)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	// URL identity folds every URL-less folder onto one record: the
	// second folder matches the record the first one created.
	if res.Created != 1 || res.Updated != 1 {
		t.Fatalf("expected created=1 updated=1, got %+v", res)
	}

	list, err := s.List(ctx, testScope(), true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected a single folder record, got %d", len(list))
	}
	if list[0].Title != "News" {
		t.Errorf("folder title = %q, want last writer %q", list[0].Title, "News")
	}
}

func TestReconcileInvokesOnCreateForNewRecords(t *testing.T) {
	s := memory.New()
	var created []string
	r := newTestReconciler(t, s, func(b *domain.Bookmark) {
		created = append(created, b.URL)
	})
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, testScope(), sampleSnapshot()); err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 onCreate calls, got %d", len(created))
	}

	created = created[:0]
	if _, err := r.Reconcile(ctx, testScope(), sampleSnapshot()); err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("updates must not trigger onCreate, got %d calls", len(created))
	}
}

func TestReconcileRejectsUnknownProfile(t *testing.T) {
	s := memory.New()
	r := newTestReconciler(t, s, nil)
	ctx := context.Background()

	ghost := domain.Scope{UserID: "u1", ProfileID: "ghost"}
	_, err := r.Reconcile(ctx, ghost, sampleSnapshot())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Nothing may be persisted under the unknown scope.
	list, err := s.List(ctx, ghost, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("%d records created under an unknown profile", len(list))
	}
}

func TestReconcileScopesAreIsolated(t *testing.T) {
	s := memory.New()
	r := newTestReconciler(t, s, nil)
	ctx := context.Background()

	other := domain.Scope{UserID: "u1", ProfileID: "p2"}
	seedProfile(t, s, "p2")
	if _, err := r.Reconcile(ctx, other, sampleSnapshot()); err != nil {
		t.Fatalf("Reconcile into p2 failed: %v", err)
	}

	// Reconciling p1 must not count or touch p2 records.
	res, err := r.Reconcile(ctx, testScope(), sampleSnapshot())
	if err != nil {
		t.Fatalf("Reconcile into p1 failed: %v", err)
	}
	if res.Created != 3 || res.Deleted != 0 {
		t.Fatalf("expected {3 0 0}, got %+v", res)
	}

	otherList, err := s.List(ctx, other, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(otherList) != 3 {
		t.Fatalf("sibling profile lost records: %d left", len(otherList))
	}
}
