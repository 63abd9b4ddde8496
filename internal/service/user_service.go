package service

import (
	"context"
	"fmt"

	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

// ============================================
// User Service
// ============================================

type UserService interface {
	GetProfile(ctx context.Context, uid string) (*repository.Profile, error)
	UpdateProfile(ctx context.Context, uid string, name *string) (*repository.Profile, error)
	SetRole(ctx context.Context, uid, role string) (*repository.Profile, error)
	SetActive(ctx context.Context, uid string, active bool) (*repository.Profile, error)
	SyncClaims(ctx context.Context, uid string) (*repository.Profile, error)
}

type userService struct {
	profileRepo repository.ProfileRepository
}

func NewUserService(profileRepo repository.ProfileRepository) UserService {
	return &userService{profileRepo: profileRepo}
}

func (s *userService) GetProfile(ctx context.Context, uid string) (*repository.Profile, error) {
	profile, err := s.profileRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, uid string, name *string) (*repository.Profile, error) {
	profile, err := s.profileRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	if name != nil {
		profile.Name = *name
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

// SetRole changes the role and bumps the claims version, so outstanding
// session tokens carrying the old role stop validating.
func (s *userService) SetRole(ctx context.Context, uid, role string) (*repository.Profile, error) {
	if !types.IsValidRole(role) {
		return nil, ErrInvalidInput
	}

	profile, err := s.profileRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	if profile.Role == role {
		return profile, nil
	}

	if err := s.profileRepo.SetRole(ctx, uid, role); err != nil {
		return nil, fmt.Errorf("failed to set role: %w", err)
	}
	profile.Role = role

	return s.SyncClaims(ctx, uid)
}

func (s *userService) SetActive(ctx context.Context, uid string, active bool) (*repository.Profile, error) {
	profile, err := s.profileRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	if profile.Active == active {
		return profile, nil
	}

	profile.Active = active
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	// Deactivation also invalidates outstanding tokens
	if !active {
		return s.SyncClaims(ctx, uid)
	}
	return profile, nil
}

func (s *userService) SyncClaims(ctx context.Context, uid string) (*repository.Profile, error) {
	version, err := s.profileRepo.BumpClaimsVersion(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to bump claims version: %w", err)
	}

	profile, err := s.profileRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	profile.ClaimsVersion = version
	return profile, nil
}
