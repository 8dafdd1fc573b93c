package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/logger"
	"github.com/booksyhq/booksy/internal/store"
	"github.com/booksyhq/booksy/internal/store/memory"
)

// failingStore makes one bookmark id fail on Get and Delete so partial
// bulk outcomes can be asserted.
type failingStore struct {
	store.BookmarkStore
	failID string
}

func (f *failingStore) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Bookmark, error) {
	if id == f.failID {
		return nil, fmt.Errorf("bookmark %s: %w", id, domain.ErrStore)
	}
	return f.BookmarkStore.Get(ctx, scope, id)
}

func (f *failingStore) Delete(ctx context.Context, scope domain.Scope, id string) error {
	if id == f.failID {
		return fmt.Errorf("bookmark %s: %w", id, domain.ErrStore)
	}
	return f.BookmarkStore.Delete(ctx, scope, id)
}

func seedBookmarks(t *testing.T, st store.BookmarkStore, ids ...string) {
	t.Helper()
	for i, id := range ids {
		err := st.Save(context.Background(), &domain.Bookmark{
			ID:        id,
			UserID:    "u1",
			ProfileID: "p1",
			Kind:      domain.KindBookmark,
			Title:     fmt.Sprintf("bookmark %d", i),
			URL:       fmt.Sprintf("https://example.com/%s", id),
		})
		if err != nil {
			t.Fatalf("failed to seed bookmark %s: %v", id, err)
		}
	}
}

func TestBulkDeleteAllSucceed(t *testing.T) {
	st := memory.New()
	seedBookmarks(t, st, "a", "b", "c")
	svc := NewService(st, st, nil, nil, logger.Nop())

	res, err := svc.BulkDelete(context.Background(), testScope(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("BulkDelete failed: %v", err)
	}
	if !res.Success || res.TotalDeleted != 3 || res.TotalFailed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.Message != "Successfully deleted 3 bookmarks" {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestBulkDeletePartialFailure(t *testing.T) {
	st := memory.New()
	seedBookmarks(t, st, "a", "b", "c")
	svc := NewService(&failingStore{BookmarkStore: st, failID: "b"}, st, nil, nil, logger.Nop())

	res, err := svc.BulkDelete(context.Background(), testScope(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("BulkDelete failed: %v", err)
	}
	if res.Success {
		t.Error("partial failure must not report success")
	}
	if res.TotalDeleted != 2 || res.TotalFailed != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", res.TotalDeleted, res.TotalFailed)
	}
	if len(res.FailedIDs) != 1 || res.FailedIDs[0] != "b" {
		t.Errorf("FailedIDs = %v", res.FailedIDs)
	}
	if res.Message != "Deleted 2 bookmarks, failed to delete 1 bookmarks" {
		t.Errorf("Message = %q", res.Message)
	}
	// Failing one id must not stop the rest of the batch.
	if _, err := st.Get(context.Background(), testScope(), "c"); !errors.Is(err, domain.ErrNotFound) {
		t.Error("later id not processed after a failure")
	}
}

func TestBulkDeleteEmptyIDs(t *testing.T) {
	svc := NewService(memory.New(), memory.New(), nil, nil, logger.Nop())

	_, err := svc.BulkDelete(context.Background(), testScope(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBulkTagSetWins(t *testing.T) {
	st := memory.New()
	seedBookmarks(t, st, "a")
	svc := NewService(st, st, nil, nil, logger.Nop())

	// All three lists supplied: set takes priority.
	res, err := svc.BulkTag(context.Background(), testScope(), BulkTagInput{
		IDs:          []string{"a"},
		TagsToAdd:    []string{"added"},
		TagsToRemove: []string{"removed"},
		TagsToSet:    []string{"x", "y"},
	})
	if err != nil {
		t.Fatalf("BulkTag failed: %v", err)
	}
	if res.Operation != TagOpSet {
		t.Errorf("Operation = %q, want set", res.Operation)
	}

	b, err := st.Get(context.Background(), testScope(), "a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if b.Tags != "x,y" {
		t.Errorf("Tags = %q, want %q", b.Tags, "x,y")
	}
}

func TestBulkTagAddDeduplicates(t *testing.T) {
	st := memory.New()
	seedBookmarks(t, st, "a")
	svc := NewService(st, st, nil, nil, logger.Nop())
	ctx := context.Background()

	b, _ := st.Get(ctx, testScope(), "a")
	b.Tags = "go,web"
	if err := st.Save(ctx, b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	res, err := svc.BulkTag(ctx, testScope(), BulkTagInput{
		IDs:       []string{"a"},
		TagsToAdd: []string{"web", "tools"},
	})
	if err != nil {
		t.Fatalf("BulkTag failed: %v", err)
	}
	if res.Operation != TagOpAdd {
		t.Errorf("Operation = %q, want add", res.Operation)
	}

	b, _ = st.Get(ctx, testScope(), "a")
	if b.Tags != "go,web,tools" {
		t.Errorf("Tags = %q, want %q", b.Tags, "go,web,tools")
	}
}

func TestBulkTagRemove(t *testing.T) {
	st := memory.New()
	seedBookmarks(t, st, "a")
	svc := NewService(st, st, nil, nil, logger.Nop())
	ctx := context.Background()

	b, _ := st.Get(ctx, testScope(), "a")
	b.Tags = "go,web,tools"
	if err := st.Save(ctx, b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	res, err := svc.BulkTag(ctx, testScope(), BulkTagInput{
		IDs:          []string{"a"},
		TagsToRemove: []string{"web", "absent"},
	})
	if err != nil {
		t.Fatalf("BulkTag failed: %v", err)
	}
	if res.Operation != TagOpRemove {
		t.Errorf("Operation = %q, want remove", res.Operation)
	}

	b, _ = st.Get(ctx, testScope(), "a")
	if b.Tags != "go,tools" {
		t.Errorf("Tags = %q, want %q", b.Tags, "go,tools")
	}
}

func TestBulkTagPartialFailure(t *testing.T) {
	st := memory.New()
	seedBookmarks(t, st, "a", "c")
	svc := NewService(&failingStore{BookmarkStore: st, failID: "b"}, st, nil, nil, logger.Nop())

	res, err := svc.BulkTag(context.Background(), testScope(), BulkTagInput{
		IDs:       []string{"a", "b", "c"},
		TagsToSet: []string{"t"},
	})
	if err != nil {
		t.Fatalf("BulkTag failed: %v", err)
	}
	if res.Success || res.TotalUpdated != 2 || res.TotalFailed != 1 {
		t.Fatalf("result = %+v", res)
	}
	if res.Message != "Updated tags for 2 bookmarks, failed to update 1 bookmarks" {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestBulkTagEmptyIDs(t *testing.T) {
	svc := NewService(memory.New(), memory.New(), nil, nil, logger.Nop())

	_, err := svc.BulkTag(context.Background(), testScope(), BulkTagInput{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
