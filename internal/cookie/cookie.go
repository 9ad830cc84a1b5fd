// Package cookie provides the session and guest-cart cookie helpers. All
// cookies are HttpOnly and SameSite=Lax; Domain is set only when a base
// domain is configured so that local development works on localhost.
package cookie

import (
	"net/http"
	"time"
)

// Common cookie names used throughout the application.
const (
	// SessionCookieName is the session cookie for authenticated users.
	SessionCookieName = "shopery_session"

	// GuestCookieName carries the guest cart token for browsers that do not
	// send the X-Guest-Token header.
	GuestCookieName = "shopery_guest"
)

// Config holds cookie configuration.
type Config struct {
	// BaseDomain scopes cookies to the domain and its subdomains. Empty
	// leaves Domain unset (host-only cookie).
	BaseDomain string

	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool
}

func NewConfig(baseDomain string, secure bool) *Config {
	return &Config{
		BaseDomain: baseDomain,
		Secure:     secure,
	}
}

// SetSessionWithExpiry sets the session cookie to expire at expires.
func (c *Config) SetSessionWithExpiry(w http.ResponseWriter, value string, expires time.Time) {
	c.set(w, SessionCookieName, value, expires, 0)
}

// ClearSession removes the session cookie by setting MaxAge to -1.
func (c *Config) ClearSession(w http.ResponseWriter) {
	c.set(w, SessionCookieName, "", time.Time{}, -1)
}

// SetGuestToken stores the guest cart token until the cart expires.
func (c *Config) SetGuestToken(w http.ResponseWriter, token string, expires time.Time) {
	c.set(w, GuestCookieName, token, expires, 0)
}

// ClearGuestToken removes the guest cart cookie, e.g. after a merge or a
// guest checkout consumed the cart.
func (c *Config) ClearGuestToken(w http.ResponseWriter) {
	c.set(w, GuestCookieName, "", time.Time{}, -1)
}

func (c *Config) set(w http.ResponseWriter, name, value string, expires time.Time, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.BaseDomain,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
