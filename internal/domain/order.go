package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ORDER DOMAIN TYPES
// =============================================================================

// OrderStatus follows pending -> {paid, failed} -> {shipped -> delivered, cancelled, refunded}.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// OrderStatuses lists every valid status.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusFailed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

func (s OrderStatus) IsValid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CanCancel reports whether an order in status s may be cancelled.
func (s OrderStatus) CanCancel() bool {
	return s != OrderStatusShipped && s != OrderStatusDelivered
}

var (
	ErrOrderNotFound      = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrInvalidOrderStatus = &Error{Code: EINVALID, Message: "Unsupported order status"}
	ErrOrderNotCancelable = &Error{Code: EINVALIDSTATE, Message: "Order can no longer be cancelled"}
	ErrCheckoutSource     = &Error{Code: EINVALID, Message: "Exactly one of cartId or guestCartId is required"}
	ErrGuestTokenMismatch = &Error{Code: EFORBIDDEN, Message: "Guest cart does not belong to this client"}
)

// Order is an immutable snapshot of a cart. Only Status changes after creation.
type Order struct {
	ID        int64           `json:"-"`
	PublicID  uuid.UUID       `json:"id"`
	UserID    *int64          `json:"-"`
	Email     string          `json:"email"`
	Status    OrderStatus     `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Items     []LineItem      `json:"items,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CheckoutParams identifies the cart to convert. Exactly one of CartID and
// GuestCartID is set. Total is the client's pre-computed total.
type CheckoutParams struct {
	UserID      *int64
	CartID      *uuid.UUID
	GuestCartID *uuid.UUID
	GuestToken  string
	Email       string
	Total       decimal.Decimal
}
