package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/domain"
)

type fakeUserRepo struct {
	users      map[string]*domain.User
	lastLogins map[int64]time.Time
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		users:      make(map[string]*domain.User),
		lastLogins: make(map[int64]time.Time),
	}
	for _, user := range users {
		repo.users[user.Username] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	for username, user := range f.users {
		if user.ID == id {
			delete(f.users, username)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, id int64) error {
	f.lastLogins[id] = time.Now()
	return nil
}

func newAuthServiceForTest(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	hash, err := auth.HashPassword("123", 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := &domain.User{
		ID:           1,
		Name:         "Administrador",
		Username:     "admin",
		PasswordHash: hash,
		Permissions:  domain.GrantAll(),
		Active:       true,
	}
	inactive := &domain.User{
		ID:           2,
		Name:         "Desativado",
		Username:     "inativo",
		PasswordHash: hash,
		Active:       false,
	}
	repo := newFakeUserRepo(admin, inactive)
	cfg := config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 1, BcryptCost: 4}
	return NewAuthService(cfg, repo, auth.NewMemorySessionRegistry()), repo
}

func TestLoginHappyPath(t *testing.T) {
	svc, repo := newAuthServiceForTest(t)
	ctx := context.Background()

	user, token, expiresAt, err := svc.Login(ctx, "admin", "123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "admin" {
		t.Fatalf("username = %q", user.Username)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatal("expiry not in the future")
	}
	if _, ok := repo.lastLogins[user.ID]; !ok {
		t.Fatal("last login not touched")
	}

	authenticated, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authenticated.Username != "admin" {
		t.Fatalf("authenticated username = %q", authenticated.Username)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	if _, _, _, err := svc.Login(ctx, "admin", "wrong"); err == nil {
		t.Fatal("expected error for wrong password")
	}
	if _, _, _, err := svc.Login(ctx, "ghost", "123"); err == nil {
		t.Fatal("expected error for unknown user")
	}
	if _, _, _, err := svc.Login(ctx, "inativo", "123"); err == nil {
		t.Fatal("expected error for inactive user")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	_, token, _, err := svc.Login(ctx, "admin", "123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// The token is still cryptographically valid but the session is gone.
	if !svc.TokenManager().Validate(token) {
		t.Fatal("token should still pass signature checks")
	}
	if _, err := svc.Authenticate(ctx, token); err == nil {
		t.Fatal("revoked token authenticated")
	}

	// Logout is idempotent.
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestAuthenticateRejectsForgedToken(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	other := auth.NewTokenManager("other-secret", time.Hour)
	forged, _, err := other.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Authenticate(ctx, forged); err == nil {
		t.Fatal("forged token authenticated")
	}
}

func TestAuthenticateRejectsDeactivatedUser(t *testing.T) {
	svc, repo := newAuthServiceForTest(t)
	ctx := context.Background()

	_, token, _, err := svc.Login(ctx, "admin", "123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	repo.users["admin"].Active = false
	if _, err := svc.Authenticate(ctx, token); err == nil {
		t.Fatal("deactivated user authenticated")
	}
}
