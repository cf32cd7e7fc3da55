package utils

import (
	"time"

	"cupomgo/backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func GenerateJWTToken(userID uint, email string, cfg *config.Config) (string, error) {
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ExtractUserFromToken validates the Authorization token and returns
// the user id and email stored in its claims.
func ExtractUserFromToken(c *fiber.Ctx, cfg *config.Config) (uint, string, error) {
	tokenString := c.Get("Authorization")
	if tokenString == "" {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})

	if err != nil {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid email in token")
	}

	return uint(userIDFloat), email, nil
}
