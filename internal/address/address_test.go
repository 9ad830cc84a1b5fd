package address

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() Address {
	return Address{
		FullName:     "Ada Lovelace",
		AddressLine1: "123 Main St",
		City:         "New York",
		State:        "NY",
		PostalCode:   "10001",
		Country:      "US",
	}
}

func TestBasicValidator_Validate(t *testing.T) {
	v := NewBasicValidator()

	tests := []struct {
		name       string
		modify     func(*Address)
		wantValid  bool
		wantFields []string
	}{
		{"valid", func(a *Address) {}, true, nil},
		{"lower-case country", func(a *Address) { a.Country = "us" }, true, nil},
		{"zip plus four", func(a *Address) { a.PostalCode = "10001-1234" }, true, nil},
		{"uk postcode", func(a *Address) { a.Country = "GB"; a.PostalCode = "sw1a 1aa"; a.State = "London" }, true, nil},
		{"country name kept", func(a *Address) { a.Country = "United States"; a.PostalCode = "anything" }, true, nil},
		{"unchecked country", func(a *Address) { a.Country = "BD"; a.PostalCode = "1207" }, true, nil},
		{"missing line", func(a *Address) { a.AddressLine1 = "  " }, false, []string{"address1"}},
		{"short city and state", func(a *Address) { a.City = "N"; a.State = "" }, false, []string{"city", "state"}},
		{"bad us zip", func(a *Address) { a.PostalCode = "ABCDE" }, false, []string{"zip"}},
		{"unknown country code", func(a *Address) { a.Country = "ZZ" }, false, []string{"country"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := validAddress()
			tt.modify(&addr)

			result, err := v.Validate(context.Background(), addr)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.IsValid, "%+v", result.Errors)

			var fields []string
			for _, e := range result.Errors {
				fields = append(fields, e.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestBasicValidator_Normalizes(t *testing.T) {
	addr := Address{
		AddressLine1: "  742   Evergreen Terrace ",
		City:         " Springfield",
		State:        "Oregon  State",
		PostalCode:   " 97403 ",
		Country:      "us",
	}

	result, err := NewBasicValidator().Validate(context.Background(), addr)
	require.NoError(t, err)
	require.True(t, result.IsValid, "%+v", result.Errors)

	n := result.NormalizedAddress
	assert.Equal(t, "742 Evergreen Terrace", n.AddressLine1)
	assert.Equal(t, "Springfield", n.City)
	assert.Equal(t, "Oregon State", n.State)
	assert.Equal(t, "97403", n.PostalCode)
	assert.Equal(t, "US", n.Country)
}

func TestValidatorFunc(t *testing.T) {
	var called bool
	var v Validator = ValidatorFunc(func(ctx context.Context, addr Address) (*ValidationResult, error) {
		called = true
		return &ValidationResult{IsValid: true, NormalizedAddress: &addr}, nil
	})

	_, err := v.Validate(context.Background(), Address{})
	require.NoError(t, err)
	assert.True(t, called)
}
