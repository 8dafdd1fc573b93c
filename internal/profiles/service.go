// Package profiles manages the per-user bookmark containers that
// scope reconciliation.
package profiles

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/store"
)

type Service struct {
	profiles store.ProfileStore

	now   func() time.Time
	newID func() string
}

func NewService(profiles store.ProfileStore) *Service {
	return &Service{
		profiles: profiles,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create stores a new named profile for the user.
func (s *Service) Create(ctx context.Context, userID, name string) (*domain.Profile, error) {
	if name == "" {
		return nil, fmt.Errorf("profile name is required: %w", domain.ErrInvalidInput)
	}

	now := s.now()
	p := &domain.Profile{
		ID:        s.newID(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.SaveProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Profile, error) {
	return s.profiles.GetProfile(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID string) ([]*domain.Profile, error) {
	return s.profiles.ListProfiles(ctx, userID)
}

// Rename updates a profile's name.
func (s *Service) Rename(ctx context.Context, userID, id, name string) (*domain.Profile, error) {
	if name == "" {
		return nil, fmt.Errorf("profile name is required: %w", domain.ErrInvalidInput)
	}

	p, err := s.profiles.GetProfile(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.UpdatedAt = s.now()
	if err := s.profiles.SaveProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.profiles.DeleteProfile(ctx, userID, id)
}
