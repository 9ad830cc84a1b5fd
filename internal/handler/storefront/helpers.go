// Package storefront holds the customer-facing JSON handlers.
package storefront

import (
	"net/http"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/middleware"
)

// currentUser returns the signed-in user, writing a 401 when there is none.
// Routes behind RequireAuth never see the 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		handler.UnauthorizedResponse(w, r)
		return nil, false
	}
	return user, true
}

// clientContext is the request metadata recorded on guest carts.
func clientContext(r *http.Request) domain.ClientContext {
	ip := middleware.GetClientIPFromContext(r.Context())
	if ip == "" {
		ip = middleware.GetClientIP(r)
	}
	return domain.ClientContext{IPAddress: ip, UserAgent: r.UserAgent()}
}

func guestToken(r *http.Request) string {
	return domain.GuestTokenFromContext(r.Context())
}
