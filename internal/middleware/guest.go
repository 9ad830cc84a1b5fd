package middleware

import (
	"net/http"
	"strings"

	"github.com/dukerupert/shopery/internal/cookie"
	"github.com/dukerupert/shopery/internal/domain"
)

// GuestTokenHeader carries the guest cart token.
const GuestTokenHeader = "X-Guest-Token"

// GuestToken copies the guest cart token from the X-Guest-Token header, or
// the guest cookie when the header is absent, into the context.
func GuestToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get(GuestTokenHeader))
		if token == "" {
			token = cookie.Get(r, cookie.GuestCookieName)
		}
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.NewContextWithGuestToken(r.Context(), token)))
	})
}
