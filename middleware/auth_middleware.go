package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	config "github.com/ncastellanos/telesalud/configs"
)

// Protected verifies the bearer token issued by the external auth
// provider. This service never issues tokens itself.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "error": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"success": false, "error": "Invalid or expired JWT"})
}

func PatientRequired() fiber.Handler {
	return roleRequired("patient")
}

func DoctorRequired() fiber.Handler {
	return roleRequired("doctor")
}

func roleRequired(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"success": false, "error": "Invalid or expired JWT"})
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"success": false, "error": "Invalid or expired JWT"})
		}

		if tokenRole, ok := claims["role"].(string); !ok || tokenRole != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Forbidden: " + role + " access required",
			})
		}
		return c.Next()
	}
}
