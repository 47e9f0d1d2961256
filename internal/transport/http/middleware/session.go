package middleware

import (
	"context"
	"net/http"

	"github.com/aleixpv/fortuna/internal/auth"
)

type contextKey string

const sessionKey contextKey = "session"

// CookieName is the cookie the session credential travels in.
const CookieName = "access_token"

// Session resolves the credential cookie on every request. A missing,
// invalid, expired or revoked credential leaves the request anonymous; it is
// never an error at this layer.
func Session(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err == nil && cookie.Value != "" {
				if claims, ok := issuer.Verify(r.Context(), cookie.Value); ok {
					r = r.WithContext(context.WithValue(r.Context(), sessionKey, claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionUser returns the verified claims for the request, or nil for an
// anonymous request.
func SessionUser(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(sessionKey).(*auth.Claims)
	return claims
}
