package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/talentlink/marketplace-api/internal/utils"
)

// JWTFromHeader reads a bearer token from the Authorization header and stores
// the verified claims in locals.
func JWTFromHeader(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authorized, no token")
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authorized, token failed")
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}
