package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID            int64
	PublicID      uuid.UUID
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Role          string
	IsActive      bool
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Address struct {
	ID           int64
	PublicID     uuid.UUID
	UserID       int64
	Label        string
	FullName     string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	Phone        string
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OneTimeCode is a row of email_verifications or password_resets.
type OneTimeCode struct {
	ID        int64
	UserID    int64
	CodeHash  string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

type Session struct {
	ID        int64
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Category struct {
	ID          int64
	PublicID    uuid.UUID
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Tag struct {
	ID        int64
	PublicID  uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID         int64
	PublicID   uuid.UUID
	CategoryID *int64
	// CategoryPublicID is resolved by a subquery on every product read.
	CategoryPublicID *uuid.UUID
	Name             string
	Slug             string
	SKU              string
	Description      string
	Price            decimal.Decimal
	SalePrice        decimal.NullDecimal
	StockQuantity    int32
	IsActive         bool
	AverageRating    decimal.Decimal
	ReviewCount      int32
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Cart struct {
	ID        int64
	PublicID  uuid.UUID
	UserID    int64
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is used for both cart_items and guest_cart_items; CartID holds
// the owning cart or guest cart id.
type CartItem struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int32
	UnitPrice decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine is a cart, guest cart or order line joined with its product.
type CartLine struct {
	ID              int64
	ProductID       int64
	ProductPublicID uuid.UUID
	ProductName     string
	ProductSlug     string
	Quantity        int32
	UnitPrice       decimal.Decimal
	CreatedAt       time.Time
}

type GuestCart struct {
	ID        int64
	PublicID  uuid.UUID
	Token     string
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID          int64
	PublicID    uuid.UUID
	UserID      *int64
	CartID      *int64
	GuestCartID *int64
	Email       string
	Status      string
	Total       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int32
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

type Review struct {
	ID         int64
	PublicID   uuid.UUID
	ProductID  int64
	UserID     int64
	Rating     int32
	Title      string
	Body       string
	IsApproved bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReviewRow is a review joined with its author.
type ReviewRow struct {
	Review
	UserPublicID  uuid.UUID
	UserFirstName string
}

// ReviewStats is the approved-review aggregate of a product.
type ReviewStats struct {
	Average decimal.Decimal
	Count   int32
}

type Comment struct {
	ID        int64
	PublicID  uuid.UUID
	ProductID int64
	UserID    int64
	ParentID  *int64
	Body      string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommentRow is a comment joined with its author and reaction counts.
type CommentRow struct {
	Comment
	UserPublicID  uuid.UUID
	UserFirstName string
	Likes         int32
	Dislikes      int32
}

type Wishlist struct {
	ID        int64
	PublicID  uuid.UUID
	UserID    int64
	CreatedAt time.Time
}

type WishlistItem struct {
	ID         int64
	WishlistID int64
	ProductID  int64
	CreatedAt  time.Time
}
