package domain

import (
	"time"

	"github.com/google/uuid"
)

var (
	ErrWishlistItemNotFound = &Error{Code: ENOTFOUND, Message: "Product is not in the wishlist"}
	ErrAlreadyWishlisted    = &Error{Code: ECONFLICT, Message: "Product is already in the wishlist"}
)

type Wishlist struct {
	PublicID uuid.UUID      `json:"id"`
	Items    []WishlistItem `json:"items"`
}

type WishlistItem struct {
	Product *Product  `json:"product"`
	AddedAt time.Time `json:"addedAt"`
}
