package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/domain"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User  *domain.User
	Token string
}

// HasPermission is a convenience lookup into the principal's permission map.
func (p *Principal) HasPermission(perm domain.Permission) bool {
	if p == nil || p.User == nil {
		return false
	}
	return p.User.Permissions.Granted(perm)
}

// Authenticator resolves a bearer token to an authenticated user. A token must
// pass both the signature/expiry check and the live-session check.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	authenticator Authenticator
}

// NewMiddleware constructs middleware.
func NewMiddleware(authenticator Authenticator) *Middleware {
	return &Middleware{authenticator: authenticator}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c)
	if !ok {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	user, err := m.authenticator.Authenticate(c.Context(), token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{User: user, Token: token})
	return c.Next()
}

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequirePermission ensures the caller's profile grants the capability.
func RequirePermission(perm domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.HasPermission(perm) {
			return apperrors.NewForbidden("insufficient permissions")
		}
		return c.Next()
	}
}
