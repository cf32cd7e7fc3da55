package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cupomgo/backend/config"
)

func extractVia(t *testing.T, cfg *config.Config, token string) (int, map[string]interface{}) {
	t.Helper()

	app := fiber.New()
	app.Get("/whoami", func(c *fiber.Ctx) error {
		userID, email, err := ExtractUserFromToken(c, cfg)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(fiber.Map{"user_id": userID, "email": email})
	})

	req := httptest.NewRequest("GET", "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret", TokenTTLHours: 1}

	token, err := GenerateJWTToken(7, "maria@example.com", cfg)
	require.NoError(t, err)

	status, body := extractVia(t, cfg, token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(7), body["user_id"])
	assert.Equal(t, "maria@example.com", body["email"])
}

func TestJWTZeroTTLFallsBack(t *testing.T) {
	// A config without an explicit TTL must still issue live tokens.
	cfg := &config.Config{JWTSecret: "testsecret"}

	token, err := GenerateJWTToken(7, "maria@example.com", cfg)
	require.NoError(t, err)

	status, _ := extractVia(t, cfg, token)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestJWTRejected(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret", TokenTTLHours: 1}

	status, _ := extractVia(t, cfg, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	other := &config.Config{JWTSecret: "othersecret", TokenTTLHours: 1}
	token, err := GenerateJWTToken(7, "maria@example.com", other)
	require.NoError(t, err)

	status, _ = extractVia(t, cfg, token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
