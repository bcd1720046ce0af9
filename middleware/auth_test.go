package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salon/apiclient"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, expires time.Time) string {
	t.Helper()
	claims := &Claims{
		Name: "Awa Diallo",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

type captured struct {
	called bool
	token  string
	claims *Claims
}

func captureHandler(c *captured) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.token = apiclient.TokenFromContext(r.Context())
		c.claims = GetClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate_PassThroughWithoutSecret(t *testing.T) {
	var c captured
	h := Authenticate("", "")(captureHandler(&c))

	req := httptest.NewRequest(http.MethodGet, "/debts/history", nil)
	req.Header.Set("Authorization", "Bearer opaque-token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, c.called)
	assert.Equal(t, "opaque-token", c.token)
	assert.Nil(t, c.claims)
}

func TestAuthenticate_NoTokenWithoutSecret(t *testing.T) {
	var c captured
	h := Authenticate("", "")(captureHandler(&c))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debts/history", nil))

	assert.True(t, c.called)
	assert.Empty(t, c.token)
}

func TestAuthenticate_ValidCookie(t *testing.T) {
	var c captured
	h := Authenticate(testSecret, "/login")(captureHandler(&c))

	token := signToken(t, testSecret, time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/debts/history", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.True(t, c.called)
	assert.Equal(t, token, c.token)
	require.NotNil(t, c.claims)
	assert.Equal(t, "42", c.claims.Subject)
	assert.Equal(t, "Awa Diallo", c.claims.Name)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	cases := map[string]string{
		"missing":      "",
		"wrong secret": signToken(t, "other", time.Now().Add(time.Hour)),
		"expired":      signToken(t, testSecret, time.Now().Add(-time.Hour)),
		"garbage":      "not.a.jwt",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			var c captured
			h := Authenticate(testSecret, "")(captureHandler(&c))

			req := httptest.NewRequest(http.MethodGet, "/debts/history", nil)
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.False(t, c.called)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestAuthenticate_RedirectsToLogin(t *testing.T) {
	var c captured
	h := Authenticate(testSecret, "https://salon.test/login")(captureHandler(&c))

	req := httptest.NewRequest(http.MethodGet, "/debts/history", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "stale"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.False(t, c.called)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "https://salon.test/login", rr.Header().Get("Location"))
	assert.Contains(t, rr.Header().Get("Set-Cookie"), "token=;")
}
