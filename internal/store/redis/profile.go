package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/booksyhq/booksy/internal/domain"
)

// SaveProfile stores a profile and registers it under its owner.
func (s *Store) SaveProfile(ctx context.Context, p *domain.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := s.client.Set(ctx, ProfileKey(p.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if err := s.client.SAdd(ctx, UserProfilesKey(p.UserID), p.ID).Err(); err != nil {
		return fmt.Errorf("failed to add profile to user set: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by id, checking ownership.
func (s *Store) GetProfile(ctx context.Context, userID, id string) (*domain.Profile, error) {
	data, err := s.client.Get(ctx, ProfileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if p.UserID != userID {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

// ListProfiles returns all profiles owned by a user.
func (s *Store) ListProfiles(ctx context.Context, userID string) ([]*domain.Profile, error) {
	ids, err := s.client.SMembers(ctx, UserProfilesKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list user profiles: %w", err)
	}

	profiles := make([]*domain.Profile, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetProfile(ctx, userID, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// DeleteProfile removes a profile and its membership entry.
func (s *Store) DeleteProfile(ctx context.Context, userID, id string) error {
	if _, err := s.GetProfile(ctx, userID, id); err != nil {
		return err
	}

	if err := s.client.Del(ctx, ProfileKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if err := s.client.SRem(ctx, UserProfilesKey(userID), id).Err(); err != nil {
		return fmt.Errorf("failed to remove profile from user set: %w", err)
	}
	return nil
}
