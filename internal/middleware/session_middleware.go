package middleware

import (
	"perpus/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Keys under which the middleware stores the caller's identity in the
// Fiber context, and the name of the session cookie.
const (
	ContextEmail  = "email"
	ContextRole   = "role"
	SessionCookie = "session_token"
)

// SessionRequired rejects requests that carry no valid session cookie
// with 401. On success the caller's email and role are stored in the
// request context for subsequent handlers.
func SessionRequired(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not logged in",
			})
		}

		sess, ok := store.Get(token)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not logged in",
			})
		}

		c.Locals(ContextEmail, sess.Email)
		c.Locals(ContextRole, sess.Role)

		return c.Next()
	}
}

// RoleRequired rejects callers whose session role does not match with
// 403. It must run after SessionRequired.
func RoleRequired(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerRole, _ := c.Locals(ContextRole).(string)
		if callerRole != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}
		return c.Next()
	}
}
