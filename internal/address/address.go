// Package address normalizes and checks postal addresses before they are
// saved to a customer's account.
package address

import "context"

// Validator checks an address. Implementations may call an external
// verification API; BasicValidator only checks format.
type Validator interface {
	// Validate returns a normalized copy of addr. When IsValid is false the
	// Errors say which fields failed.
	Validate(ctx context.Context, addr Address) (*ValidationResult, error)
}

// Address is a postal address as entered by a customer.
type Address struct {
	FullName     string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	Phone        string
}

type ValidationResult struct {
	IsValid           bool
	NormalizedAddress *Address
	Errors            []ValidationError
	Warnings          []string
}

// ValidationError names the failing field by its JSON name.
type ValidationError struct {
	Field   string
	Message string
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, addr Address) (*ValidationResult, error)

func (f ValidatorFunc) Validate(ctx context.Context, addr Address) (*ValidationResult, error) {
	return f(ctx, addr)
}
