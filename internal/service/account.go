package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/address"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

// AccountService manages a customer's saved addresses and the account's
// active state.
type AccountService interface {
	// ListAddresses returns the default address first, then oldest first.
	ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error)

	// AddAddress saves an address. The first address of an account becomes
	// its default.
	AddAddress(ctx context.Context, userID int64, input AddressInput) (*domain.Address, error)

	// UpdateAddress applies the non-nil fields of patch. Addresses of other
	// users are reported as not found.
	UpdateAddress(ctx context.Context, userID int64, addressID uuid.UUID, patch AddressPatch) (*domain.Address, error)

	// DeleteAddress removes an address; when it was the default the oldest
	// remaining address takes over.
	DeleteAddress(ctx context.Context, userID int64, addressID uuid.UUID) error

	// Deactivate disables the account and ends all of its sessions.
	Deactivate(ctx context.Context, userID int64) error
}

type AddressInput struct {
	Label     string
	FullName  string
	Address1  string
	Address2  string
	City      string
	State     string
	Zip       string
	Country   string
	Phone     string
	IsDefault bool
}

type AddressPatch struct {
	Label     *string
	FullName  *string
	Address1  *string
	Address2  *string
	City      *string
	State     *string
	Zip       *string
	Country   *string
	Phone     *string
	IsDefault *bool
}

type accountService struct {
	Deps
	validator address.Validator
}

// NewAccountService returns an AccountService; a nil validator uses
// address.BasicValidator.
func NewAccountService(deps Deps, validator address.Validator) AccountService {
	if validator == nil {
		validator = address.NewBasicValidator()
	}
	return &accountService{Deps: deps, validator: validator}
}

func (s *accountService) ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error) {
	rows, err := s.Store.ListAddressesForUser(ctx, userID)
	if err != nil {
		return nil, fail(err, nil, "account.list_addresses")
	}
	out := make([]domain.Address, len(rows))
	for i, r := range rows {
		out[i] = toAddress(r)
	}
	return out, nil
}

func (s *accountService) AddAddress(ctx context.Context, userID int64, input AddressInput) (*domain.Address, error) {
	const op = "account.add_address"

	addr, err := s.check(ctx, address.Address{
		FullName:     input.FullName,
		AddressLine1: input.Address1,
		AddressLine2: input.Address2,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.Zip,
		Country:      input.Country,
		Phone:        input.Phone,
	}, op)
	if err != nil {
		return nil, err
	}

	var out domain.Address
	err = s.Store.ExecTx(ctx, func(q repository.Querier) error {
		existing, err := q.ListAddressesForUser(ctx, userID)
		if err != nil {
			return fail(err, nil, op)
		}
		isDefault := input.IsDefault || len(existing) == 0
		if isDefault {
			if err := q.ClearDefaultAddress(ctx, userID); err != nil {
				return fail(err, nil, op)
			}
		}
		row, err := q.CreateAddress(ctx, repository.CreateAddressParams{
			UserID:       userID,
			Label:        input.Label,
			FullName:     addr.FullName,
			AddressLine1: addr.AddressLine1,
			AddressLine2: addr.AddressLine2,
			City:         addr.City,
			State:        addr.State,
			PostalCode:   addr.PostalCode,
			Country:      addr.Country,
			Phone:        addr.Phone,
			IsDefault:    isDefault,
		})
		if err != nil {
			return fail(err, nil, op)
		}
		out = toAddress(row)
		return nil
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return &out, nil
}

func (s *accountService) UpdateAddress(ctx context.Context, userID int64, addressID uuid.UUID, patch AddressPatch) (*domain.Address, error) {
	const op = "account.update_address"

	var out domain.Address
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		row, err := owned(ctx, q, userID, addressID, op)
		if err != nil {
			return err
		}

		set := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		set(&row.Label, patch.Label)
		set(&row.FullName, patch.FullName)
		set(&row.AddressLine1, patch.Address1)
		set(&row.AddressLine2, patch.Address2)
		set(&row.City, patch.City)
		set(&row.State, patch.State)
		set(&row.PostalCode, patch.Zip)
		set(&row.Country, patch.Country)
		set(&row.Phone, patch.Phone)

		addr, err := s.check(ctx, address.Address{
			FullName:     row.FullName,
			AddressLine1: row.AddressLine1,
			AddressLine2: row.AddressLine2,
			City:         row.City,
			State:        row.State,
			PostalCode:   row.PostalCode,
			Country:      row.Country,
			Phone:        row.Phone,
		}, op)
		if err != nil {
			return err
		}

		isDefault := row.IsDefault
		if patch.IsDefault != nil {
			isDefault = *patch.IsDefault
		}
		if isDefault && !row.IsDefault {
			if err := q.ClearDefaultAddress(ctx, userID); err != nil {
				return fail(err, nil, op)
			}
		}

		updated, err := q.UpdateAddress(ctx, repository.UpdateAddressParams{
			ID:           row.ID,
			Label:        row.Label,
			FullName:     addr.FullName,
			AddressLine1: addr.AddressLine1,
			AddressLine2: addr.AddressLine2,
			City:         addr.City,
			State:        addr.State,
			PostalCode:   addr.PostalCode,
			Country:      addr.Country,
			Phone:        addr.Phone,
			IsDefault:    isDefault,
		})
		if err != nil {
			return fail(err, domain.ErrAddressNotFound, op)
		}
		out = toAddress(updated)
		return nil
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return &out, nil
}

func (s *accountService) DeleteAddress(ctx context.Context, userID int64, addressID uuid.UUID) error {
	const op = "account.delete_address"

	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		row, err := owned(ctx, q, userID, addressID, op)
		if err != nil {
			return err
		}
		if err := q.DeleteAddress(ctx, row.ID); err != nil {
			return fail(err, nil, op)
		}
		if !row.IsDefault {
			return nil
		}

		rest, err := q.ListAddressesForUser(ctx, userID)
		if err != nil {
			return fail(err, nil, op)
		}
		if len(rest) == 0 {
			return nil
		}
		next := rest[0]
		_, err = q.UpdateAddress(ctx, repository.UpdateAddressParams{
			ID:           next.ID,
			Label:        next.Label,
			FullName:     next.FullName,
			AddressLine1: next.AddressLine1,
			AddressLine2: next.AddressLine2,
			City:         next.City,
			State:        next.State,
			PostalCode:   next.PostalCode,
			Country:      next.Country,
			Phone:        next.Phone,
			IsDefault:    true,
		})
		if err != nil {
			return fail(err, nil, op)
		}
		return nil
	})
	if err != nil {
		return keepDomain(err, op)
	}
	return nil
}

func (s *accountService) Deactivate(ctx context.Context, userID int64) error {
	const op = "account.deactivate"

	var sessions int64
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		n, err := q.DeactivateUser(ctx, userID)
		if err != nil {
			return fail(err, nil, op)
		}
		if n == 0 {
			if _, err := q.GetUserByID(ctx, userID); err != nil {
				return fail(err, domain.ErrUserNotFound, op)
			}
			return domain.WithOp(domain.ErrAccountDeactivated, op)
		}
		sessions, err = q.DeleteUserSessions(ctx, userID)
		if err != nil {
			return fail(err, nil, op)
		}
		return nil
	})
	if err != nil {
		return keepDomain(err, op)
	}

	s.log(ctx).Info().
		Int64("user_id", userID).
		Int64("sessions_revoked", sessions).
		Msg("account deactivated")
	return nil
}

// check runs the address validator and converts its field errors.
func (s *accountService) check(ctx context.Context, addr address.Address, op string) (address.Address, error) {
	result, err := s.validator.Validate(ctx, addr)
	if err != nil {
		return addr, domain.Internal(err, op, "address validation failed")
	}
	if !result.IsValid {
		var verr error
		for _, e := range result.Errors {
			verr = domain.AddFieldError(verr, e.Field, e.Message)
		}
		if verr == nil {
			verr = domain.AddFieldError(verr, "address", "address is not deliverable")
		}
		verr.(*domain.ValidationError).Op = op
		return addr, verr
	}
	if result.NormalizedAddress != nil {
		addr = *result.NormalizedAddress
	}
	return addr, nil
}

// owned loads an address and hides those belonging to other users.
func owned(ctx context.Context, q repository.Querier, userID int64, id uuid.UUID, op string) (repository.Address, error) {
	row, err := q.GetAddressByPublicID(ctx, id)
	if err != nil {
		return row, fail(err, domain.ErrAddressNotFound, op)
	}
	if row.UserID != userID {
		return row, domain.WithOp(domain.ErrAddressNotFound, op)
	}
	return row, nil
}
