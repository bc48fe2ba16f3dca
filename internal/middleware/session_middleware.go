package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SessionTokenKey is the fiber.Ctx locals key holding the raw session token.
const SessionTokenKey = "session_token"

// SessionToken is a Fiber middleware that extracts a bearer token from the
// Authorization header into the request locals. Requests without the header
// pass through unauthenticated; handlers decide whether a session is required.
func SessionToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		c.Locals(SessionTokenKey, parts[1])
		return c.Next()
	}
}

// TokenFrom returns the session token stored by SessionToken, or "".
func TokenFrom(c *fiber.Ctx) string {
	tokenString, _ := c.Locals(SessionTokenKey).(string)
	return tokenString
}
