package domain

import (
	"time"

	"github.com/google/uuid"
)

var ErrAddressNotFound = &Error{Code: ENOTFOUND, Message: "Address not found"}

// Address is a saved postal address of a customer. At most one address per
// user is the default.
type Address struct {
	ID         int64     `json:"-"`
	PublicID   uuid.UUID `json:"id"`
	Label      string    `json:"label"`
	FullName   string    `json:"fullName"`
	Address1   string    `json:"address1"`
	Address2   string    `json:"address2"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"zip"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
