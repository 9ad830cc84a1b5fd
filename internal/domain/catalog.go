package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CATALOG DOMAIN TYPES
// =============================================================================

var (
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrProductInactive  = &Error{Code: EINVALIDSTATE, Message: "Product is not available"}
	ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found"}
	ErrTagNotFound      = &Error{Code: ENOTFOUND, Message: "Tag not found"}
	ErrSlugTaken        = &Error{Code: ECONFLICT, Message: "Slug is already in use"}
	ErrSKUTaken         = &Error{Code: ECONFLICT, Message: "SKU is already in use"}
	ErrInvalidSort      = &Error{Code: EINVALID, Message: "sortBy must be one of newest, price-asc, price-desc, rating-asc, rating-desc"}
)

type Category struct {
	ID          int64     `json:"-"`
	PublicID    uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Tag struct {
	ID        int64     `json:"-"`
	PublicID  uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID            int64            `json:"-"`
	PublicID      uuid.UUID        `json:"id"`
	CategoryID    *uuid.UUID       `json:"categoryId"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	SKU           string           `json:"sku"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	SalePrice     *decimal.Decimal `json:"salePrice"`
	StockQuantity int32            `json:"stockQuantity"`
	IsActive      bool             `json:"isActive"`
	AverageRating decimal.Decimal  `json:"averageRating"`
	ReviewCount   int32            `json:"reviewCount"`
	Tags          []Tag            `json:"tags,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// EffectivePrice is the price captured into carts: the sale price when set, else the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// Slugify lower-cases s and collapses every run of non-alphanumerics into one hyphen.
func Slugify(s string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
