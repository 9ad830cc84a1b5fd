package domain

import (
	"time"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound  = &Error{Code: ENOTFOUND, Message: "Review not found"}
	ErrAlreadyReviewed = &Error{Code: ECONFLICT, Message: "You have already reviewed this product"}
	ErrInvalidRating   = &Error{Code: EINVALID, Message: "Rating must be between 1 and 5"}
)

// Author is the public face of a user attached to reviews and comments.
type Author struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
}

type Review struct {
	ID         int64     `json:"-"`
	PublicID   uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"productId"`
	Author     *Author   `json:"author,omitempty"`
	Rating     int32     `json:"rating"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}
