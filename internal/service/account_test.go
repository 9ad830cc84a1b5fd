package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/shopery/internal/address"
	"github.com/dukerupert/shopery/internal/auth"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

func homeAddress() AddressInput {
	return AddressInput{
		Label:    "Home",
		FullName: "Ada Lovelace",
		Address1: "123  Main St",
		City:     "New York",
		State:    "NY",
		Zip:      "10001",
		Country:  "us",
	}
}

func strPtr(s string) *string { return &s }

func TestAccountService_AddAddress(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewAccountService(deps, nil)
	ctx := context.Background()
	user := store.addUser(t, "ada@example.com", domain.RoleCustomer)

	first, err := svc.AddAddress(ctx, user.ID, homeAddress())
	require.NoError(t, err)
	assert.True(t, first.IsDefault, "first address becomes the default")
	assert.Equal(t, "123 Main St", first.Address1)
	assert.Equal(t, "US", first.Country)

	work := homeAddress()
	work.Label = "Work"
	second, err := svc.AddAddress(ctx, user.ID, work)
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	work.Label = "Cabin"
	work.IsDefault = true
	third, err := svc.AddAddress(ctx, user.ID, work)
	require.NoError(t, err)
	assert.True(t, third.IsDefault)

	list, err := svc.ListAddresses(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Cabin", list[0].Label, "default first")
	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestAccountService_AddAddress_Invalid(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewAccountService(deps, nil)
	user := store.addUser(t, "ada@example.com", domain.RoleCustomer)

	in := homeAddress()
	in.Address1 = ""
	in.Zip = "ABCDE"

	_, err := svc.AddAddress(context.Background(), user.ID, in)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	fields := domain.GetValidationFields(err)
	assert.Contains(t, fields, "address1")
	assert.Contains(t, fields, "zip")
	assert.Empty(t, store.st.addresses)
}

func TestAccountService_AddAddress_UsesValidator(t *testing.T) {
	deps, store, _ := testDeps(t)
	user := store.addUser(t, "ada@example.com", domain.RoleCustomer)

	tests := []struct {
		name      string
		validator address.Validator
		wantErr   bool
	}{
		{"undeliverable", address.ValidatorFunc(func(ctx context.Context, a address.Address) (*address.ValidationResult, error) {
			return &address.ValidationResult{IsValid: false}, nil
		}), true},
		{"validator error", address.ValidatorFunc(func(ctx context.Context, a address.Address) (*address.ValidationResult, error) {
			return nil, errInjected
		}), true},
		{"normalized by validator", address.ValidatorFunc(func(ctx context.Context, a address.Address) (*address.ValidationResult, error) {
			a.City = "NEW YORK"
			return &address.ValidationResult{IsValid: true, NormalizedAddress: &a}, nil
		}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAccountService(deps, tt.validator)
			got, err := svc.AddAddress(context.Background(), user.ID, homeAddress())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "NEW YORK", got.City)
		})
	}
}

func TestAccountService_UpdateAddress(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewAccountService(deps, nil)
	ctx := context.Background()
	user := store.addUser(t, "ada@example.com", domain.RoleCustomer)
	other := store.addUser(t, "eve@example.com", domain.RoleCustomer)

	home, err := svc.AddAddress(ctx, user.ID, homeAddress())
	require.NoError(t, err)
	work, err := svc.AddAddress(ctx, user.ID, homeAddress())
	require.NoError(t, err)

	updated, err := svc.UpdateAddress(ctx, user.ID, work.PublicID, AddressPatch{
		City:  strPtr("Brooklyn"),
		Label: strPtr("Work"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Brooklyn", updated.City)
	assert.Equal(t, "123 Main St", updated.Address1, "unset fields keep their value")

	yes := true
	updated, err = svc.UpdateAddress(ctx, user.ID, work.PublicID, AddressPatch{IsDefault: &yes})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	assert.False(t, store.st.addresses[home.ID].IsDefault)

	tests := []struct {
		name    string
		userID  int64
		id      uuid.UUID
		patch   AddressPatch
		wantErr error
		field   string
	}{
		{"other user's address", other.ID, home.PublicID, AddressPatch{City: strPtr("Paris")}, domain.ErrAddressNotFound, ""},
		{"unknown address", user.ID, uuid.New(), AddressPatch{}, domain.ErrAddressNotFound, ""},
		{"invalid zip", user.ID, home.PublicID, AddressPatch{Zip: strPtr("ABCDE")}, nil, "zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateAddress(ctx, tt.userID, tt.id, tt.patch)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.field != "" {
				assert.Contains(t, domain.GetValidationFields(err), tt.field)
			}
		})
	}
	assert.Equal(t, "New York", store.st.addresses[home.ID].City)
}

func TestAccountService_DeleteAddress_PromotesNextDefault(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewAccountService(deps, nil)
	ctx := context.Background()
	user := store.addUser(t, "ada@example.com", domain.RoleCustomer)
	other := store.addUser(t, "eve@example.com", domain.RoleCustomer)

	home, err := svc.AddAddress(ctx, user.ID, homeAddress())
	require.NoError(t, err)
	work, err := svc.AddAddress(ctx, user.ID, homeAddress())
	require.NoError(t, err)

	err = svc.DeleteAddress(ctx, other.ID, home.PublicID)
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)

	require.NoError(t, svc.DeleteAddress(ctx, user.ID, home.PublicID))
	require.Len(t, store.st.addresses, 1)
	assert.True(t, store.st.addresses[work.ID].IsDefault)

	require.NoError(t, svc.DeleteAddress(ctx, user.ID, work.PublicID))
	assert.Empty(t, store.st.addresses)
}

func TestAccountService_Deactivate(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewAccountService(deps, nil)
	users := NewUserService(deps, UserConfig{Hasher: auth.NewHasher(bcrypt.MinCost)}, nil)
	ctx := context.Background()

	result, err := users.Register(ctx, RegisterParams{Email: "ada@example.com", Password: testPassword}, "")
	require.NoError(t, err)
	_, err = users.Login(ctx, "ada@example.com", testPassword, "")
	require.NoError(t, err)
	bystander := store.addUser(t, "eve@example.com", domain.RoleCustomer)
	_, err = store.CreateSession(ctx, repository.CreateSessionParams{
		Token:     "bystander-session",
		UserID:    bystander.ID,
		ExpiresAt: store.now.Add(time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, result.User.ID))

	assert.False(t, store.st.users[result.User.ID].IsActive)
	assert.Len(t, store.st.sessions, 1, "only the other user's session is left")
	_, err = users.Authenticate(ctx, result.SessionToken)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	_, err = users.Login(ctx, "ada@example.com", testPassword, "")
	assert.ErrorIs(t, err, domain.ErrAccountDeactivated)

	assert.ErrorIs(t, svc.Deactivate(ctx, result.User.ID), domain.ErrAccountDeactivated)
	assert.ErrorIs(t, svc.Deactivate(ctx, 4242), domain.ErrUserNotFound)
}
