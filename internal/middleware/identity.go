package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/soulscroll/luma/internal/logging"
)

// UserIDLocal is the fiber.Ctx locals key holding the caller's user id
const UserIDLocal = "user_id"

// DefaultUserHeader carries the user identity when none is configured
const DefaultUserHeader = "X-User-ID"

// UserIdentity resolves the caller's user id from header and rejects
// requests without one. The id is stored in locals and in the request
// context for logging.
func UserIdentity(logger *logging.Logger, header string) fiber.Handler {
	if header == "" {
		header = DefaultUserHeader
	}

	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(header))
		if userID == "" {
			logger.Warn("User identity missing",
				"path", c.Path(),
				"method", c.Method(),
				"header", header,
			)
			return unauthorized(c, "User identity is required. Provide it via the "+header+" header.")
		}

		c.Locals(UserIDLocal, userID)
		c.SetUserContext(logging.WithUserID(c.UserContext(), userID))

		return c.Next()
	}
}

// UserID returns the id stored by UserIdentity, or "" when absent
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDLocal).(string)
	return id
}
