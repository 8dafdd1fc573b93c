// Package bookmarks implements the bookmark operations on top of the
// store interfaces: CRUD, tree reads, metadata refresh and the bulk
// operations. Enrichment after a create is dispatched to a background
// pool and never blocks the caller.
package bookmarks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/logger"
	"github.com/booksyhq/booksy/internal/metadata"
	"github.com/booksyhq/booksy/internal/store"
	"github.com/booksyhq/booksy/internal/worker"
)

// Service holds the bookmark use cases.
type Service struct {
	bookmarks store.BookmarkStore
	profiles  store.ProfileStore
	enricher  *metadata.Service
	pool      *worker.Pool
	logger    logger.Logger

	now   func() time.Time
	newID func() string
}

// NewService wires the bookmark service. pool may be nil, in which
// case enrichment only happens through RefreshMetadata.
func NewService(
	bookmarks store.BookmarkStore,
	profiles store.ProfileStore,
	enricher *metadata.Service,
	pool *worker.Pool,
	log logger.Logger,
) *Service {
	return &Service{
		bookmarks: bookmarks,
		profiles:  profiles,
		enricher:  enricher,
		pool:      pool,
		logger:    log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CreateInput is the payload of a direct (non-sync) create.
type CreateInput struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	ParentID    string `json:"parentId"`
	Position    int    `json:"position"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

// Create stores a new bookmark in the profile and dispatches detached
// enrichment for it. The returned record may not carry metadata yet;
// callers must tolerate it arriving later.
func (s *Service) Create(ctx context.Context, scope domain.Scope, in CreateInput) (*domain.Bookmark, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrInvalidInput)
	}
	if _, err := s.profiles.GetProfile(ctx, scope.UserID, scope.ProfileID); err != nil {
		return nil, err
	}

	now := s.now()
	b := &domain.Bookmark{
		ID:          s.newID(),
		UserID:      scope.UserID,
		ProfileID:   scope.ProfileID,
		ParentID:    in.ParentID,
		Position:    in.Position,
		Title:       in.Title,
		URL:         in.URL,
		Description: in.Description,
		Tags:        in.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.Kind = domain.KindBookmark
	if b.URL == "" {
		b.Kind = domain.KindFolder
	}

	if err := s.bookmarks.Save(ctx, b); err != nil {
		return nil, err
	}

	s.DispatchEnrichment(b)
	return b, nil
}

// DispatchEnrichment queues a background metadata fetch for the
// record. No handle is returned; completion applies a conditional
// update and a failed fetch simply leaves the fallback values in.
func (s *Service) DispatchEnrichment(b *domain.Bookmark) {
	if s.pool == nil || b.URL == "" {
		return
	}
	scope, id, url := b.Scope(), b.ID, b.URL
	s.pool.Submit(func(ctx context.Context) {
		s.enrich(ctx, scope, id, url)
	})
}

// enrich runs on the pool. The record may have been mutated or removed
// since dispatch, so it is re-read and updated only if still present.
func (s *Service) enrich(ctx context.Context, scope domain.Scope, id, url string) {
	meta := s.enricher.ExtractMetadata(ctx, url)

	current, err := s.bookmarks.Get(ctx, scope, id)
	if err != nil {
		s.logger.Debug("enrichment target gone, skipping",
			logger.String("bookmark", id))
		return
	}

	current.Metadata = meta
	if current.Title == "" {
		current.Title = meta.Title
	}
	if current.Description == "" {
		current.Description = meta.Description
	}
	current.UpdatedAt = s.now()

	if err := s.bookmarks.Save(ctx, current); err != nil {
		s.logger.Warn("failed to persist enrichment",
			logger.String("bookmark", id),
			logger.Error(err))
	}
}

// List returns the scope's live records, flat, in store order.
func (s *Service) List(ctx context.Context, scope domain.Scope, rootsOnly bool) ([]*domain.Bookmark, error) {
	if _, err := s.profiles.GetProfile(ctx, scope.UserID, scope.ProfileID); err != nil {
		return nil, err
	}
	flat, err := s.bookmarks.List(ctx, scope, false)
	if err != nil {
		return nil, err
	}
	if !rootsOnly {
		return flat, nil
	}
	roots := make([]*domain.Bookmark, 0, len(flat))
	for _, b := range flat {
		if b.ParentID == "" {
			roots = append(roots, b)
		}
	}
	return roots, nil
}

// Forest returns the scope's live records as a nested forest.
func (s *Service) Forest(ctx context.Context, scope domain.Scope) ([]*domain.Node, error) {
	flat, err := s.List(ctx, scope, false)
	if err != nil {
		return nil, err
	}
	return domain.BuildTree(flat), nil
}

// UpdateInput carries the mutable fields of a direct update; nil
// pointers leave the field untouched.
type UpdateInput struct {
	Title       *string `json:"title,omitempty"`
	URL         *string `json:"url,omitempty"`
	ParentID    *string `json:"parentId,omitempty"`
	Position    *int    `json:"position,omitempty"`
	Description *string `json:"description,omitempty"`
	Tags        *string `json:"tags,omitempty"`
}

// Update applies a partial update to a record in scope.
func (s *Service) Update(ctx context.Context, scope domain.Scope, id string, in UpdateInput) (*domain.Bookmark, error) {
	b, err := s.bookmarks.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.URL != nil {
		b.URL = *in.URL
	}
	if in.ParentID != nil {
		b.ParentID = *in.ParentID
	}
	if in.Position != nil {
		b.Position = *in.Position
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.Tags != nil {
		b.Tags = *in.Tags
	}
	b.UpdatedAt = s.now()

	if err := s.bookmarks.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete physically removes a record from its scope.
func (s *Service) Delete(ctx context.Context, scope domain.Scope, id string) error {
	return s.bookmarks.Delete(ctx, scope, id)
}

// RefreshResult is the in-band outcome of a metadata refresh; failure
// is reported here, never as a transport error.
type RefreshResult struct {
	ID       string           `json:"id"`
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Metadata *domain.Metadata `json:"metadata,omitempty"`
}

// RefreshMetadata re-extracts metadata for one bookmark synchronously.
func (s *Service) RefreshMetadata(ctx context.Context, scope domain.Scope, id string) (RefreshResult, error) {
	b, err := s.bookmarks.Get(ctx, scope, id)
	if err != nil {
		return RefreshResult{}, err
	}
	if b.URL == "" {
		return RefreshResult{ID: id, Success: false, Message: "bookmark has no URL"}, nil
	}

	meta := s.enricher.ExtractMetadata(ctx, b.URL)
	b.Metadata = meta
	b.UpdatedAt = s.now()
	if err := s.bookmarks.Save(ctx, b); err != nil {
		return RefreshResult{ID: id, Success: false, Message: "failed to persist metadata"}, nil
	}

	return RefreshResult{ID: id, Success: true, Metadata: meta}, nil
}
