package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// AuthService coordinates login, logout and token validation. A caller is
// authenticated only when the token passes the signature/expiry check and has
// a live session entry; logout revokes tokens before their embedded expiry.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	sessions auth.SessionRegistry
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, sessions auth.SessionRegistry) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		sessions: sessions,
	}
}

// Login authenticates credentials and opens a live session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if !user.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("user inactive")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokenMgr.Issue(user.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := s.sessions.Open(ctx, token, user.Username, s.tokenMgr.TTL()); err != nil {
		return nil, "", time.Time{}, err
	}
	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// Logout revokes the live session; idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Close(ctx, token)
}

// Authenticate resolves a bearer token to its user. Revocation overrides the
// token's own expiry: a cryptographically valid token with no live session is
// rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if !s.tokenMgr.Validate(token) {
		// lazily drop the dead entry so the registry does not accumulate
		_ = s.sessions.Close(ctx, token)
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	live, err := s.sessions.IsLive(ctx, token)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, apperrors.NewUnauthorized("session revoked")
	}

	subject, ok := s.tokenMgr.Subject(token)
	if !ok {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	user, err := s.users.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("user inactive")
	}
	return user, nil
}

// TokenManager exposes the underlying token manager.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Sessions exposes the live-session registry.
func (s *AuthService) Sessions() auth.SessionRegistry {
	return s.sessions
}
