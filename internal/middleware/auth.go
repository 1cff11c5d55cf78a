package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ashika-normality/project-portico-backend/internal/token"
)

// Locals keys set by the auth middleware for downstream handlers.
const (
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
)

// RequireAuth rejects requests without a valid bearer access token and
// stores the caller's id and role in the request locals.
func RequireAuth(issuer *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := extractToken(c)
		if raw == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "A token is required for authentication",
			})
		}
		claims, err := issuer.Verify(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid Token",
			})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserRole, claims.Role)
		return c.Next()
	}
}

// extractToken checks the Authorization header first, then the
// x-access-token header and the token query parameter.
func extractToken(c *fiber.Ctx) string {
	if auth := c.Get(fiber.HeaderAuthorization); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
		return strings.TrimSpace(auth)
	}
	if tok := c.Get("x-access-token"); tok != "" {
		return tok
	}
	return c.Query("token")
}

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

// UserRole returns the authenticated user's role stored by RequireAuth.
func UserRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalUserRole).(string)
	return role
}
