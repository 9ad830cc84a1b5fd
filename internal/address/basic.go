package address

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Countries whose postal codes are checked against validator's
// postcode_iso3166_alpha2 patterns. Others are accepted as entered.
var checkedPostcodes = map[string]bool{
	"US": true,
	"CA": true,
	"GB": true,
	"DE": true,
	"FR": true,
	"AU": true,
}

// BasicValidator performs format validation without external calls: required
// fields, minimum lengths, ISO country codes and postal code patterns.
type BasicValidator struct {
	validate *validator.Validate
}

func NewBasicValidator() *BasicValidator {
	return &BasicValidator{validate: validator.New()}
}

func (v *BasicValidator) Validate(ctx context.Context, addr Address) (*ValidationResult, error) {
	n := normalize(addr)
	result := &ValidationResult{NormalizedAddress: &n}

	fail := func(field, msg string) {
		result.Errors = append(result.Errors, ValidationError{Field: field, Message: msg})
	}
	minLen := func(field, value string, min int) {
		if utf8.RuneCountInString(value) < min {
			fail(field, field+" is required")
		}
	}
	minLen("address1", n.AddressLine1, 3)
	minLen("city", n.City, 2)
	minLen("state", n.State, 2)
	minLen("zip", n.PostalCode, 2)
	minLen("country", n.Country, 2)

	switch len(n.Country) {
	case 2:
		if v.validate.Var(n.Country, "iso3166_1_alpha2") != nil {
			fail("country", "country is not a valid ISO 3166 code")
		} else if checkedPostcodes[n.Country] && n.PostalCode != "" &&
			v.validate.Var(n.PostalCode, "postcode_iso3166_alpha2="+n.Country) != nil {
			fail("zip", "zip is not a valid postal code for "+n.Country)
		}
	case 3:
		if v.validate.Var(n.Country, "iso3166_1_alpha3") != nil {
			result.Warnings = append(result.Warnings, "country is not an ISO 3166 code")
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result, nil
}

// normalize trims and collapses whitespace. Short country codes are
// upper-cased; full country names are kept as entered.
func normalize(a Address) Address {
	clean := func(s string) string { return strings.Join(strings.Fields(s), " ") }
	a.FullName = clean(a.FullName)
	a.AddressLine1 = clean(a.AddressLine1)
	a.AddressLine2 = clean(a.AddressLine2)
	a.City = clean(a.City)
	a.State = clean(a.State)
	a.PostalCode = strings.ToUpper(clean(a.PostalCode))
	a.Country = clean(a.Country)
	if len(a.Country) <= 3 {
		a.Country = strings.ToUpper(a.Country)
	}
	a.Phone = clean(a.Phone)
	return a
}
