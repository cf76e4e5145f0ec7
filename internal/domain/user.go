package domain

import "time"

// User is an operator account. Permissions come from the user's profile and
// are resolved at authentication time.
type User struct {
	ID           int64
	Name         string
	Username     string
	PasswordHash string
	ProfileID    int64
	ProfileName  string
	Permissions  PermissionMap
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is a named bundle of granted capabilities.
type Profile struct {
	ID          int64
	Name        string
	Description string
	Permissions PermissionMap
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
