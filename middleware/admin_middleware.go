package middleware

import (
	"budget-portal-backend/models"
	apimodels "budget-portal-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func AdminRole() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		token, ok := ctx.Locals("user").(*jwt.Token)
		if !ok {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation not permitted"))
		}
		claims := token.Claims.(jwt.MapClaims)
		role, _ := claims["role"].(string)
		if !models.UserRole(role).IsAdmin() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation not permitted"))
		}
		return ctx.Next()
	}
}

// GetUserName returns the display name from the JWT claims, empty for
// anonymous requests
func GetUserName(ctx *fiber.Ctx) string {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	name, _ := claims["name"].(string)
	return name
}
