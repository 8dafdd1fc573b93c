package bookmarks

import (
	"context"
	"fmt"
	"strings"

	"github.com/booksyhq/booksy/internal/domain"
)

// Bulk operations process each id independently and continue past
// individual failures; partial success is reported explicitly, never
// hidden behind an aborted batch.

// BulkDeleteResult partitions a bulk delete by outcome.
type BulkDeleteResult struct {
	DeletedIDs   []string `json:"deletedIds"`
	FailedIDs    []string `json:"failedIds"`
	TotalDeleted int      `json:"totalDeleted"`
	TotalFailed  int      `json:"totalFailed"`
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
}

// BulkDelete physically removes each listed bookmark, accumulating a
// per-id success/failure partition.
func (s *Service) BulkDelete(ctx context.Context, scope domain.Scope, ids []string) (BulkDeleteResult, error) {
	if len(ids) == 0 {
		return BulkDeleteResult{}, fmt.Errorf("ids must be a non-empty array: %w", domain.ErrInvalidInput)
	}

	deleted := make([]string, 0, len(ids))
	failed := make([]string, 0)
	for _, id := range ids {
		if err := s.bookmarks.Delete(ctx, scope, id); err != nil {
			failed = append(failed, id)
			continue
		}
		deleted = append(deleted, id)
	}

	res := BulkDeleteResult{
		DeletedIDs:   deleted,
		FailedIDs:    failed,
		TotalDeleted: len(deleted),
		TotalFailed:  len(failed),
		Success:      len(failed) == 0,
	}
	if res.Success {
		res.Message = fmt.Sprintf("Successfully deleted %d bookmarks", len(deleted))
	} else {
		res.Message = fmt.Sprintf("Deleted %d bookmarks, failed to delete %d bookmarks", len(deleted), len(failed))
	}
	return res, nil
}

// TagOp is the applied tagging operation. When several tag lists are
// supplied, priority is set > add > remove.
type TagOp string

const (
	TagOpAdd    TagOp = "add"
	TagOpRemove TagOp = "remove"
	TagOpSet    TagOp = "set"
)

// BulkTagInput names the bookmarks and the tag deltas to apply.
type BulkTagInput struct {
	IDs          []string `json:"ids"`
	TagsToAdd    []string `json:"tagsToAdd,omitempty"`
	TagsToRemove []string `json:"tagsToRemove,omitempty"`
	TagsToSet    []string `json:"tagsToSet,omitempty"`
}

// BulkTagResult partitions a bulk tag update by outcome.
type BulkTagResult struct {
	UpdatedIDs   []string `json:"updatedIds"`
	FailedIDs    []string `json:"failedIds"`
	TotalUpdated int      `json:"totalUpdated"`
	TotalFailed  int      `json:"totalFailed"`
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	Operation    TagOp    `json:"operation"`
}

// BulkTag applies one tag operation to each listed bookmark.
func (s *Service) BulkTag(ctx context.Context, scope domain.Scope, in BulkTagInput) (BulkTagResult, error) {
	if len(in.IDs) == 0 {
		return BulkTagResult{}, fmt.Errorf("ids must be a non-empty array: %w", domain.ErrInvalidInput)
	}

	op := tagOperation(in)
	updated := make([]string, 0, len(in.IDs))
	failed := make([]string, 0)

	for _, id := range in.IDs {
		if err := s.applyTags(ctx, scope, id, op, in); err != nil {
			failed = append(failed, id)
			continue
		}
		updated = append(updated, id)
	}

	res := BulkTagResult{
		UpdatedIDs:   updated,
		FailedIDs:    failed,
		TotalUpdated: len(updated),
		TotalFailed:  len(failed),
		Success:      len(failed) == 0,
		Operation:    op,
	}
	if res.Success {
		res.Message = fmt.Sprintf("Successfully updated tags for %d bookmarks", len(updated))
	} else {
		res.Message = fmt.Sprintf("Updated tags for %d bookmarks, failed to update %d bookmarks", len(updated), len(failed))
	}
	return res, nil
}

func tagOperation(in BulkTagInput) TagOp {
	switch {
	case len(in.TagsToSet) > 0:
		return TagOpSet
	case len(in.TagsToAdd) > 0:
		return TagOpAdd
	case len(in.TagsToRemove) > 0:
		return TagOpRemove
	default:
		return TagOpSet
	}
}

func (s *Service) applyTags(ctx context.Context, scope domain.Scope, id string, op TagOp, in BulkTagInput) error {
	b, err := s.bookmarks.Get(ctx, scope, id)
	if err != nil {
		return err
	}

	b.Tags = strings.Join(nextTags(splitTags(b.Tags), op, in), ",")
	b.UpdatedAt = s.now()
	return s.bookmarks.Save(ctx, b)
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	out := make([]string, 0)
	for _, tag := range strings.Split(tags, ",") {
		if strings.TrimSpace(tag) != "" {
			out = append(out, tag)
		}
	}
	return out
}

func nextTags(current []string, op TagOp, in BulkTagInput) []string {
	switch op {
	case TagOpSet:
		return in.TagsToSet
	case TagOpAdd:
		seen := make(map[string]bool, len(current))
		merged := make([]string, 0, len(current)+len(in.TagsToAdd))
		for _, tag := range append(append([]string{}, current...), in.TagsToAdd...) {
			if !seen[tag] {
				seen[tag] = true
				merged = append(merged, tag)
			}
		}
		return merged
	case TagOpRemove:
		drop := make(map[string]bool, len(in.TagsToRemove))
		for _, tag := range in.TagsToRemove {
			drop[tag] = true
		}
		kept := make([]string, 0, len(current))
		for _, tag := range current {
			if !drop[tag] {
				kept = append(kept, tag)
			}
		}
		return kept
	default:
		return current
	}
}
