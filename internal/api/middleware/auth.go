package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/streamhub/backend/internal/service"
)

type contextKey string

const identityKey contextKey = "identity"

// AccessTokenCookie is the cookie the login handler sets and this middleware
// reads. The cookie takes precedence over the Authorization header.
const AccessTokenCookie = "accessToken"

// Auth attaches a verified Identity to the request context or short-circuits
// with 401. Verification is stateless: signature and expiry only, no store
// access.
func Auth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				log.Printf("ERROR [middleware.Auth] missing access token")
				unauthorized(w, "Unauthorized access")
				return
			}

			identity, err := tokens.VerifyAccess(token)
			if err != nil {
				log.Printf("ERROR [middleware.Auth] token verification failed: %v", err)
				unauthorized(w, "Invalid access token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity returns the identity the Auth middleware attached.
func GetIdentity(ctx context.Context) (*service.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*service.Identity)
	return identity, ok
}

func bearerToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"status":401,"success":false,"message":"` + message + `"}`))
}
