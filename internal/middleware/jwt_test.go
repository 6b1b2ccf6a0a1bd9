package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", JWTProtected(testSecret), func(c *fiber.Ctx) error {
		response := fiber.Map{}
		if id, ok := c.Locals("user_id").(uint); ok {
			response["user_id"] = id
		}
		if name, ok := c.Locals("user_name").(string); ok {
			response["user_name"] = name
		}
		return c.JSON(response)
	})
	return app
}

func TestJWTProtectedRejectsMissingHeader(t *testing.T) {
	app := newProtectedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsBadSignature(t *testing.T) {
	app := newProtectedApp()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"})
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedExtractsActorLocals(t *testing.T) {
	app := fiber.New()
	var gotID uint
	var gotName string
	app.Get("/me", JWTProtected(testSecret), func(c *fiber.Ctx) error {
		gotID, _ = c.Locals("user_id").(uint)
		gotName, _ = c.Locals("user_name").(string)
		return c.SendStatus(fiber.StatusOK)
	})

	signed := signToken(t, jwt.MapClaims{
		"sub":  "42",
		"name": "Priya Raman",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(42), gotID)
	require.Equal(t, "Priya Raman", gotName)
}

func TestNormalizeUserIDHandlesClaimShapes(t *testing.T) {
	id, err := normalizeUserID(float64(7))
	require.NoError(t, err)
	require.Equal(t, uint(7), id)

	id, err = normalizeUserID("19")
	require.NoError(t, err)
	require.Equal(t, uint(19), id)

	_, err = normalizeUserID("not-a-number")
	require.Error(t, err)

	_, err = normalizeUserID([]string{"nope"})
	require.Error(t, err)
}
