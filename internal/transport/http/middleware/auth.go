package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/devmetrics/gitpulse/internal/constants"
	"github.com/devmetrics/gitpulse/pkg/httputils"
)

// SessionCookie carries the session JWT for browser clients. API clients may
// send the same token as a bearer header instead.
const SessionCookie = "gp_session"

type contextKey string

const userIDKey contextKey = "userID"

// TokenValidator verifies a session token and returns the user id.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// AuthMiddleware rejects requests without a valid session token and stores
// the authenticated user id in the request context.
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httputils.WriteAPIError(w, r, constants.ErrUnauthorized)
				return
			}

			userID, err := tokens.Validate(token)
			if err != nil {
				httputils.WriteAPIError(w, r, constants.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id set by AuthMiddleware, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
