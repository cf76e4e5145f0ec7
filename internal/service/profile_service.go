package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// ProfileService manages access profiles. Permission maps only accept
// capability names from the closed catalog.
type ProfileService struct {
	profiles repository.ProfileRepository
}

// ProfileInput describes a profile payload. Permissions are raw capability
// names as sent by clients.
type ProfileInput struct {
	Name        string
	Description string
	Permissions map[string]bool
}

// NewProfileService constructs the service.
func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// CreateProfile validates and persists a profile.
func (s *ProfileService) CreateProfile(ctx context.Context, input ProfileInput) (*domain.Profile, error) {
	permissions, err := resolvePermissions(input.Permissions)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("profile name is required", nil)
	}
	profile := &domain.Profile{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Permissions: permissions,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile replaces a profile's fields. Users pick up the new map on
// their next login.
func (s *ProfileService) UpdateProfile(ctx context.Context, id int64, input ProfileInput) (*domain.Profile, error) {
	permissions, err := resolvePermissions(input.Permissions)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("profile name is required", nil)
	}
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.Name = strings.TrimSpace(input.Name)
	profile.Description = strings.TrimSpace(input.Description)
	profile.Permissions = permissions
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile fetches one profile.
func (s *ProfileService) GetProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("profile", map[string]any{"id": id})
		}
		return nil, err
	}
	return profile, nil
}

// ListProfiles returns every profile.
func (s *ProfileService) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	return s.profiles.List(ctx)
}

// DeleteProfile removes a profile unless users still reference it.
func (s *ProfileService) DeleteProfile(ctx context.Context, id int64) error {
	count, err := s.profiles.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflict("profile still assigned to users", map[string]any{
			"profile_id": id,
			"users":      count,
		})
	}
	if err := s.profiles.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("profile", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func resolvePermissions(raw map[string]bool) (domain.PermissionMap, error) {
	permissions := make(domain.PermissionMap, len(raw))
	for name, granted := range raw {
		perm, ok := domain.ParsePermission(name)
		if !ok {
			return nil, apperrors.NewValidationError("unknown permission", map[string]any{"permission": name})
		}
		permissions[perm] = granted
	}
	return permissions, nil
}
