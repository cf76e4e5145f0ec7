package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// primaryAdminUsername is the bootstrap account; it can be neither deleted
// nor deactivated.
const primaryAdminUsername = "admin"

// UserService manages operator accounts.
type UserService struct {
	users      repository.UserRepository
	profiles   repository.ProfileRepository
	bcryptCost int
}

// UserInput describes an account payload. Password is optional on update.
type UserInput struct {
	Name      string
	Username  string
	Password  string
	ProfileID int64
	Active    bool
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, profiles repository.ProfileRepository, bcryptCost int) *UserService {
	return &UserService{users: users, profiles: profiles, bcryptCost: bcryptCost}
}

// CreateUser validates and persists an operator account.
func (s *UserService) CreateUser(ctx context.Context, input UserInput) (*domain.User, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Username) == "" {
		return nil, apperrors.NewValidationError("name and username are required", nil)
	}
	if input.Password == "" {
		return nil, apperrors.NewValidationError("password is required", nil)
	}
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.NewConflict("username already taken", map[string]any{"username": input.Username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	profile, err := s.profileByID(ctx, input.ProfileID)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: hash,
		ProfileID:    profile.ID,
		ProfileName:  profile.Name,
		Permissions:  profile.Permissions,
		Active:       input.Active,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser replaces an account's fields; an empty password keeps the
// stored hash.
func (s *UserService) UpdateUser(ctx context.Context, id int64, input UserInput) (*domain.User, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Username) == "" {
		return nil, apperrors.NewValidationError("name and username are required", nil)
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Username == primaryAdminUsername && !input.Active {
		return nil, apperrors.NewValidationError("primary admin account cannot be deactivated", nil)
	}
	profile, err := s.profileByID(ctx, input.ProfileID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(input.Name)
	user.Username = strings.TrimSpace(input.Username)
	user.ProfileID = profile.ID
	user.ProfileName = profile.Name
	user.Permissions = profile.Permissions
	user.Active = input.Active
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser fetches one account.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns every account.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes an account. The primary admin is protected.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Username == primaryAdminUsername {
		return apperrors.NewValidationError("primary admin account cannot be deleted", nil)
	}
	return s.users.Delete(ctx, id)
}

func (s *UserService) profileByID(ctx context.Context, id int64) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("unknown profile", map[string]any{"profile_id": id})
		}
		return nil, err
	}
	return profile, nil
}
