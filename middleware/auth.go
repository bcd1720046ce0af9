package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"salon/apiclient"
	"salon/logging"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

const tokenCookie = "token"

type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// ValidateToken checks an HS256 token against secret.
func ValidateToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return ""
}

// Authenticate forwards the caller's token to the salon API. With a secret
// configured the token is also verified; callers without a valid one are
// sent to loginURL, or refused when loginURL is empty.
func Authenticate(secret, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)

			ctx := r.Context()
			if secret != "" {
				if tokenString == "" {
					reject(w, r, loginURL)
					return
				}
				claims, err := ValidateToken(tokenString, []byte(secret))
				if err != nil {
					ClearTokenCookie(w)
					reject(w, r, loginURL)
					return
				}
				ctx = context.WithValue(ctx, ClaimsContextKey, claims)
				ctx = logging.WithContext(ctx, logging.FromContext(ctx).WithField("subject", claims.Subject))
			}
			if tokenString != "" {
				ctx = apiclient.WithToken(ctx, tokenString)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClearTokenCookie expires the token cookie on the client.
func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func reject(w http.ResponseWriter, r *http.Request, loginURL string) {
	if loginURL != "" {
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
		return
	}
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// GetClaimsFromContext returns the verified claims, or nil when tokens are
// not verified.
func GetClaimsFromContext(ctx context.Context) *Claims {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}
