package dto

import (
	"time"

	"github.com/spec-kit/order-service/internal/domain"
)

// UserRequest payload for account create/update. Password is optional on
// update.
type UserRequest struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	ProfileID int64  `json:"profile_id"`
	Active    bool   `json:"active"`
}

// ProfileRequest payload for profile create/update.
type ProfileRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Permissions map[string]bool `json:"permissions"`
}

// ProfileResponse full profile representation.
type ProfileResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Permissions map[string]bool `json:"permissions"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToProfileResponse maps a domain profile.
func ToProfileResponse(profile *domain.Profile) ProfileResponse {
	permissions := make(map[string]bool, len(profile.Permissions))
	for perm, granted := range profile.Permissions {
		permissions[string(perm)] = granted
	}
	return ProfileResponse{
		ID:          profile.ID,
		Name:        profile.Name,
		Description: profile.Description,
		Permissions: permissions,
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	}
}

// ToProfileResponses maps a slice.
func ToProfileResponses(profiles []domain.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, ToProfileResponse(&profiles[i]))
	}
	return out
}
