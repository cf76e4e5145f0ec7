package dto

import (
	"time"

	"github.com/spec-kit/order-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returned on successful authentication.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse never carries credential material.
type UserResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Username    string          `json:"username"`
	ProfileID   int64           `json:"profile_id"`
	ProfileName string          `json:"profile_name"`
	Permissions map[string]bool `json:"permissions"`
	Active      bool            `json:"active"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToUserResponse maps a domain user, suppressing the password hash.
func ToUserResponse(user *domain.User) UserResponse {
	permissions := make(map[string]bool, len(user.Permissions))
	for perm, granted := range user.Permissions {
		permissions[string(perm)] = granted
	}
	return UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Username:    user.Username,
		ProfileID:   user.ProfileID,
		ProfileName: user.ProfileName,
		Permissions: permissions,
		Active:      user.Active,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// ToUserResponses maps a slice.
func ToUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}
