package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dukerupert/shopery/internal/cookie"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/handler"
)

// Authenticator resolves a session token. Implemented by service.UserService.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// WithUser resolves the session token from the Authorization bearer header or
// the session cookie and attaches the user to the context. It never rejects:
// a missing, unknown or expired token leaves the request anonymous.
func WithUser(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), user)
			ctx = domain.NewContextWithSessionToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionToken returns the bearer token, falling back to the session cookie.
func SessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return cookie.Get(r, cookie.SessionCookieName)
}

// RequireAuth answers 401 when no user is attached.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			handler.ErrorResponse(w, r, domain.ErrAuthRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin answers 401 without a user and 403 for non-admins.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := domain.UserFromContext(r.Context())
		if user == nil {
			handler.ErrorResponse(w, r, domain.ErrAuthRequired)
			return
		}
		if !user.IsAdmin() {
			handler.ErrorResponse(w, r, domain.ErrAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
