package middleware

import (
	"github.com/gofiber/fiber/v2"

	"stickynote/internal/auth"
)

const (
	PrincipalIDLocalKey = "principal_id"
	ClaimsLocalKey      = "claims"
)

// TokenVerifier checks a session token for one role.
type TokenVerifier interface {
	Verify(token string, role auth.Role) (*auth.Claims, error)
}

// RequireRole rejects requests whose "token" header does not verify under
// role's secret. Accepted claims are stored in locals.
func RequireRole(v TokenVerifier, role auth.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := v.Verify(c.Get(auth.HeaderName), role)
		if err != nil {
			return err
		}
		c.Locals(ClaimsLocalKey, claims)
		c.Locals(PrincipalIDLocalKey, claims.PrincipalID)
		return c.Next()
	}
}

// PrincipalID returns the id of the authenticated principal, or "".
func PrincipalID(c *fiber.Ctx) string {
	id, _ := c.Locals(PrincipalIDLocalKey).(string)
	return id
}

// ClaimsFrom returns the verified claims, or nil.
func ClaimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}
