package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signTestToken(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	schoolID := uint(7)
	claims := Claims{
		Sub:      42,
		Role:     "admin",
		Name:     "Ana Reyes",
		SchoolID: &schoolID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func runAuth(token string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireAuth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestRequireAuthAttachesClaims(t *testing.T) {
	c, err := runAuth(signTestToken(t, testSecret, time.Hour))
	require.NoError(t, err)

	assert.Equal(t, uint(42), CurrentUserID(c))
	assert.Equal(t, "admin", CurrentRole(c))
	assert.Equal(t, "Ana Reyes", CurrentName(c))
	require.NotNil(t, CurrentSchoolID(c))
	assert.Equal(t, uint(7), *CurrentSchoolID(c))
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	_, err := runAuth("")
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	_, err := runAuth(signTestToken(t, testSecret, -time.Hour))
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	_, err := runAuth(signTestToken(t, "some-other-secret", time.Hour))
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	newCtx := func(role string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("role", role)
		return c
	}

	allow := RequireRole("admin", "super_admin")(next)
	assert.NoError(t, allow(newCtx("admin")))
	assert.NoError(t, allow(newCtx("super_admin")))

	err := allow(newCtx("student"))
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}
