package middleware

import (
	"log"
	"strings"

	"loja/internal/models"
	"loja/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserKey is the Locals key holding the authenticated *models.User.
const UserKey = "user"

// AuthRequired is a Fiber middleware that checks for a valid bearer
// token and loads the account behind it into the request context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		userID, _ := claims["user_id"].(string)
		user, err := authService.GetUserByID(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, the token failed",
			})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// AdminRequired gates a route on the admin flag. It must run after
// AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized as administrator",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthRequired, or
// nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}
