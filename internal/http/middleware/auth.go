package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docmarket/internal/model"
)

// IdentityLocalKey is the key under which the caller's model.Identity is stored in Fiber locals.
const IdentityLocalKey = "identity"

// Authenticator reads a session token back into an identity.
type Authenticator interface {
	Authenticate(token string) (model.Identity, error)
}

// Authenticate parses an optional "Authorization: Bearer <token>" header. Requests without the
// header continue anonymously; a header carrying an invalid token is rejected with 401.
func Authenticate(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		if h == "" {
			return c.Next()
		}
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "malformed authorization header")
		}
		id, err := a.Authenticate(strings.TrimSpace(token))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid session")
		}
		c.Locals(IdentityLocalKey, id)
		return c.Next()
	}
}

// IdentityFrom returns the authenticated caller, or the zero Identity for anonymous requests.
func IdentityFrom(c *fiber.Ctx) model.Identity {
	id, _ := c.Locals(IdentityLocalKey).(model.Identity)
	return id
}

// RequireUser rejects anonymous requests.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if IdentityFrom(c).Email == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "sign in required")
		}
		return c.Next()
	}
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := IdentityFrom(c)
		if id.Email == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "sign in required")
		}
		if !id.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin role required")
		}
		return c.Next()
	}
}
