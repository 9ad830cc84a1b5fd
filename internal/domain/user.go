package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// USER DOMAIN TYPES
// =============================================================================

// Role is the authorization role of a user account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

var (
	ErrUserNotFound       = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrEmailTaken         = &Error{Code: ECONFLICT, Message: "An account with this email already exists"}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrSessionExpired     = &Error{Code: EUNAUTHORIZED, Message: "Session expired"}
	ErrAuthRequired       = &Error{Code: EUNAUTHORIZED, Message: "Authentication required"}
	ErrAdminRequired      = &Error{Code: EFORBIDDEN, Message: "Admin access required"}
	ErrAccountDeactivated = &Error{Code: EFORBIDDEN, Message: "This account has been deactivated"}

	ErrInvalidCode          = &Error{Code: EUNAUTHORIZED, Message: "Invalid or expired code"}
	ErrCodeExpired          = &Error{Code: EUNAUTHORIZED, Message: "Code expired, please request a new one"}
	ErrEmailAlreadyVerified = &Error{Code: ECONFLICT, Message: "Email already verified"}
)

// User is the public view of an account. ID is the internal key and is never
// serialized; PublicID is exposed as "id".
type User struct {
	ID            int64     `json:"-"`
	PublicID      uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Role          Role      `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AuthResult is returned by register and login. GuestCartRetained is set
// when the guest cart could not be merged and must stay reachable.
type AuthResult struct {
	User              *User        `json:"user"`
	SessionToken      string       `json:"-"`
	ExpiresAt         time.Time    `json:"expiresAt"`
	Cart              *CartSummary `json:"cart,omitempty"`
	GuestCartRetained bool         `json:"guestCartRetained,omitempty"`
}
