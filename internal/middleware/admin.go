package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lenbersih/lenbersih-api/internal/dto"
	"github.com/lenbersih/lenbersih-api/internal/models"
	"gorm.io/gorm"
)

// AdminRequired checks the JWT groups claim for admin membership, falling
// back to a DB lookup for tokens issued before a role change.
func AdminRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}

		if groups, ok := claims["groups"].([]interface{}); ok {
			for _, g := range groups {
				if name, ok := g.(string); ok && strings.EqualFold(name, models.GroupAdmin) {
					return c.Next()
				}
			}
		}

		if sub, _ := claims["sub"].(string); sub != "" {
			if userID, err := strconv.Atoi(sub); err == nil {
				var user models.User
				if err := db.Preload("UserGroups.Group").First(&user, "id = ?", userID).Error; err == nil {
					if user.InGroup(models.GroupAdmin) {
						return c.Next()
					}
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}
