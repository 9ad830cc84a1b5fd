package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// =============================================================================
// Addresses
// =============================================================================

const addressColumns = `id, public_id, user_id, label, full_name, address_line1, address_line2, city, state, postal_code, country, phone, is_default, created_at, updated_at`

func scanAddress(row pgx.Row) (Address, error) {
	var i Address
	err := row.Scan(
		&i.ID,
		&i.PublicID,
		&i.UserID,
		&i.Label,
		&i.FullName,
		&i.AddressLine1,
		&i.AddressLine2,
		&i.City,
		&i.State,
		&i.PostalCode,
		&i.Country,
		&i.Phone,
		&i.IsDefault,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type CreateAddressParams struct {
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
}

const createAddress = `-- name: CreateAddress :one
INSERT INTO addresses (user_id, label, full_name, address_line1, address_line2, city, state, postal_code, country, phone, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + addressColumns

func (q *Queries) CreateAddress(ctx context.Context, arg CreateAddressParams) (Address, error) {
	return scanAddress(q.db.QueryRow(ctx, createAddress,
		arg.UserID,
		arg.Label,
		arg.FullName,
		arg.AddressLine1,
		arg.AddressLine2,
		arg.City,
		arg.State,
		arg.PostalCode,
		arg.Country,
		arg.Phone,
		arg.IsDefault,
	))
}

type UpdateAddressParams struct {
	ID           int64
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
}

const updateAddress = `-- name: UpdateAddress :one
UPDATE addresses
SET label = $2, full_name = $3, address_line1 = $4, address_line2 = $5, city = $6,
    state = $7, postal_code = $8, country = $9, phone = $10, is_default = $11, updated_at = now()
WHERE id = $1
RETURNING ` + addressColumns

func (q *Queries) UpdateAddress(ctx context.Context, arg UpdateAddressParams) (Address, error) {
	return scanAddress(q.db.QueryRow(ctx, updateAddress,
		arg.ID,
		arg.Label,
		arg.FullName,
		arg.AddressLine1,
		arg.AddressLine2,
		arg.City,
		arg.State,
		arg.PostalCode,
		arg.Country,
		arg.Phone,
		arg.IsDefault,
	))
}

const getAddressByPublicID = `-- name: GetAddressByPublicID :one
SELECT ` + addressColumns + ` FROM addresses WHERE public_id = $1`

func (q *Queries) GetAddressByPublicID(ctx context.Context, publicID uuid.UUID) (Address, error) {
	return scanAddress(q.db.QueryRow(ctx, getAddressByPublicID, publicID))
}

const listAddressesForUser = `-- name: ListAddressesForUser :many
SELECT ` + addressColumns + `
FROM addresses
WHERE user_id = $1
ORDER BY is_default DESC, created_at ASC, id ASC`

func (q *Queries) ListAddressesForUser(ctx context.Context, userID int64) ([]Address, error) {
	rows, err := q.db.Query(ctx, listAddressesForUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Address
	for rows.Next() {
		i, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// ClearDefaultAddress must run before a new default is written; the partial
// unique index allows one default per user.
const clearDefaultAddress = `-- name: ClearDefaultAddress :exec
UPDATE addresses SET is_default = FALSE, updated_at = now() WHERE user_id = $1 AND is_default`

func (q *Queries) ClearDefaultAddress(ctx context.Context, userID int64) error {
	_, err := q.db.Exec(ctx, clearDefaultAddress, userID)
	return err
}

const deleteAddress = `-- name: DeleteAddress :exec
DELETE FROM addresses WHERE id = $1`

func (q *Queries) DeleteAddress(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteAddress, id)
	return err
}

// =============================================================================
// One-time codes
// =============================================================================

const codeColumns = `id, user_id, code_hash, expires_at, used_at, created_at`

func scanCode(row pgx.Row) (OneTimeCode, error) {
	var i OneTimeCode
	err := row.Scan(&i.ID, &i.UserID, &i.CodeHash, &i.ExpiresAt, &i.UsedAt, &i.CreatedAt)
	return i, err
}

type CreateCodeParams struct {
	UserID    int64
	CodeHash  string
	ExpiresAt time.Time
}

func (q *Queries) CreateEmailVerification(ctx context.Context, arg CreateCodeParams) (OneTimeCode, error) {
	return scanCode(q.db.QueryRow(ctx,
		`INSERT INTO email_verifications (user_id, code_hash, expires_at) VALUES ($1, $2, $3) RETURNING `+codeColumns,
		arg.UserID, arg.CodeHash, arg.ExpiresAt))
}

// GetLatestEmailVerification returns the newest unused code; older codes are
// superseded by it.
func (q *Queries) GetLatestEmailVerification(ctx context.Context, userID int64) (OneTimeCode, error) {
	return scanCode(q.db.QueryRow(ctx,
		`SELECT `+codeColumns+` FROM email_verifications
		 WHERE user_id = $1 AND used_at IS NULL
		 ORDER BY created_at DESC, id DESC LIMIT 1`, userID))
}

// MarkEmailVerificationUsed returns 0 when the code was consumed concurrently.
func (q *Queries) MarkEmailVerificationUsed(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx,
		`UPDATE email_verifications SET used_at = now() WHERE id = $1 AND used_at IS NULL`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (q *Queries) CreatePasswordReset(ctx context.Context, arg CreateCodeParams) (OneTimeCode, error) {
	return scanCode(q.db.QueryRow(ctx,
		`INSERT INTO password_resets (user_id, code_hash, expires_at) VALUES ($1, $2, $3) RETURNING `+codeColumns,
		arg.UserID, arg.CodeHash, arg.ExpiresAt))
}

func (q *Queries) GetLatestPasswordReset(ctx context.Context, userID int64) (OneTimeCode, error) {
	return scanCode(q.db.QueryRow(ctx,
		`SELECT `+codeColumns+` FROM password_resets
		 WHERE user_id = $1 AND used_at IS NULL
		 ORDER BY created_at DESC, id DESC LIMIT 1`, userID))
}

func (q *Queries) MarkPasswordResetUsed(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx,
		`UPDATE password_resets SET used_at = now() WHERE id = $1 AND used_at IS NULL`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteExpiredCodes = `-- name: DeleteExpiredCodes :execrows
WITH v AS (
    DELETE FROM email_verifications WHERE expires_at < $1 RETURNING 1
), r AS (
    DELETE FROM password_resets WHERE expires_at < $1 RETURNING 1
)
SELECT (SELECT count(*) FROM v) + (SELECT count(*) FROM r)`

// DeleteExpiredCodes purges verification and reset codes that expired before
// the given time, used or not.
func (q *Queries) DeleteExpiredCodes(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, deleteExpiredCodes, before).Scan(&n)
	return n, err
}
