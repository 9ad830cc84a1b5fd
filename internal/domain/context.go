// Package domain holds the entities, status enums and error taxonomy shared by
// the services and the HTTP layer, plus request-scoped context helpers.
package domain

import "context"

type contextKey int

const (
	userContextKey contextKey = iota
	guestTokenContextKey
	requestIDContextKey
	sessionTokenContextKey
)

// --- User Context Helpers ---

// NewContextWithUser returns a new context with the authenticated user attached.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns nil if no user is present.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// MustUser retrieves the user from context, panicking if not present.
// Only use behind RequireAuth.
func MustUser(ctx context.Context) *User {
	user := UserFromContext(ctx)
	if user == nil {
		panic("user required in context but not found")
	}
	return user
}

func IsAuthenticated(ctx context.Context) bool {
	return UserFromContext(ctx) != nil
}

// --- Session / Guest Token Helpers ---

func NewContextWithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenContextKey, token)
}

func SessionTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(sessionTokenContextKey).(string)
	return token
}

// NewContextWithGuestToken attaches the guest cart token read from the
// x-guest-token header or cookie.
func NewContextWithGuestToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, guestTokenContextKey, token)
}

// GuestTokenFromContext returns "" when the client sent no guest token.
func GuestTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(guestTokenContextKey).(string)
	return token
}

// --- Request ID Context Helpers ---

func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
