package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN TYPES
// =============================================================================

// CartStatus is the lifecycle state of a registered cart.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusConverted CartStatus = "converted"
)

const (
	// GuestCartTTL is the lifetime of a newly created guest cart.
	GuestCartTTL = 7 * 24 * time.Hour

	// GuestCartActiveTTL replaces the expiry when the first item lands in an empty guest cart.
	GuestCartActiveTTL = 30 * 24 * time.Hour
)

var (
	ErrCartNotFound      = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound  = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrGuestCartNotFound = &Error{Code: ENOTFOUND, Message: "Guest cart not found"}
	ErrCartEmpty         = &Error{Code: ENOTFOUND, Message: "Cart is empty"}
	ErrCartChanged       = &Error{Code: ECONFLICT, Message: "Cart changed while it was being processed, please retry"}
	ErrInvalidQuantity   = &Error{Code: EINVALID, Message: "Quantity must be a positive integer"}
)

// Cart is a registered user's cart.
type Cart struct {
	ID        int64      `json:"-"`
	PublicID  uuid.UUID  `json:"id"`
	UserID    int64      `json:"-"`
	Status    CartStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// GuestCart is a token-identified cart with no owner.
type GuestCart struct {
	ID        int64     `json:"-"`
	PublicID  uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the guest cart is past its expiry at now.
func (g *GuestCart) Expired(now time.Time) bool {
	return !now.Before(g.ExpiresAt)
}

// LineItem is one product line of a cart, guest cart or order. UnitPrice is
// the price captured when the line was created.
type LineItem struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	ProductSlug string          `json:"productSlug"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// CartSummary is a cart with its items and totals computed on read.
type CartSummary struct {
	Cart      *Cart           `json:"cart,omitempty"`
	GuestCart *GuestCart      `json:"guestCart,omitempty"`
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int32           `json:"itemCount"`
}

// Totals sums quantity x unit price over items and fills in each LineTotal.
func Totals(items []LineItem) (total decimal.Decimal, count int32) {
	total = decimal.Zero
	for i := range items {
		items[i].LineTotal = items[i].UnitPrice.Mul(decimal.NewFromInt32(items[i].Quantity))
		total = total.Add(items[i].LineTotal)
		count += items[i].Quantity
	}
	return total, count
}

// ClientContext is request metadata recorded on guest carts.
type ClientContext struct {
	IPAddress string
	UserAgent string
}
