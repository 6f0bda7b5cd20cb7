package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"foodgram/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret"

func signedToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newGuardedApp() *fiber.App {
	authService := services.NewAuthService(nil, testSecret, time.Hour, "")
	app := fiber.New()
	whoami := func(c *fiber.Ctx) error {
		return c.SendString(strconv.FormatUint(uint64(UserID(c)), 10))
	}
	app.Get("/private", AuthRequired(authService), whoami)
	app.Get("/public", OptionalAuth(authService), whoami)
	return app
}

func call(t *testing.T, app *fiber.App, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthRequired(t *testing.T) {
	app := newGuardedApp()
	token := signedToken(t, 42)

	status, body := call(t, app, "/private", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "42", body)

	status, body = call(t, app, "/private", "Token "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "42", body)

	status, body = call(t, app, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "not_authenticated")

	status, body = call(t, app, "/private", "Basic "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "not_authenticated")

	status, body = call(t, app, "/private", "Bearer "+token+"x")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "invalid_token")
}

func TestOptionalAuthFallsBackToAnonymous(t *testing.T) {
	app := newGuardedApp()

	status, body := call(t, app, "/public", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0", body)

	status, body = call(t, app, "/public", "Bearer garbage")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0", body)

	status, body = call(t, app, "/public", "Token "+signedToken(t, 7))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "7", body)
}
