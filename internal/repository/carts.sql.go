package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const cartColumns = `id, public_id, user_id, status, created_at, updated_at`

func scanCart(row pgx.Row) (Cart, error) {
	var i Cart
	err := row.Scan(&i.ID, &i.PublicID, &i.UserID, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func scanCartItem(row pgx.Row) (CartItem, error) {
	var i CartItem
	err := row.Scan(&i.ID, &i.CartID, &i.ProductID, &i.Quantity, &i.UnitPrice, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func collectCartLines(rows pgx.Rows, err error) ([]CartLine, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CartLine
	for rows.Next() {
		var i CartLine
		if err := rows.Scan(
			&i.ID,
			&i.ProductID,
			&i.ProductPublicID,
			&i.ProductName,
			&i.ProductSlug,
			&i.Quantity,
			&i.UnitPrice,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getActiveCartByUserID = `-- name: GetActiveCartByUserID :one
SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1 AND status = 'active'`

func (q *Queries) GetActiveCartByUserID(ctx context.Context, userID int64) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, getActiveCartByUserID, userID))
}

func (q *Queries) GetCartByPublicID(ctx context.Context, publicID uuid.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE public_id = $1`, publicID))
}

// GetCartByPublicIDForUpdate locks the cart row until the transaction ends.
// A concurrent checkout of the same cart waits here and then sees its result.
const getCartByPublicIDForUpdate = `-- name: GetCartByPublicIDForUpdate :one
SELECT ` + cartColumns + ` FROM carts WHERE public_id = $1 FOR UPDATE`

func (q *Queries) GetCartByPublicIDForUpdate(ctx context.Context, publicID uuid.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, getCartByPublicIDForUpdate, publicID))
}

// CreateCart returns the user's active cart, inserting it if absent.
const createCart = `-- name: CreateCart :one
INSERT INTO carts (user_id) VALUES ($1)
ON CONFLICT (user_id) WHERE status = 'active' DO UPDATE SET updated_at = now()
RETURNING ` + cartColumns

func (q *Queries) CreateCart(ctx context.Context, userID int64) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, createCart, userID))
}

const listCartItems = `-- name: ListCartItems :many
SELECT ci.id, ci.product_id, p.public_id, p.name, p.slug, ci.quantity, ci.unit_price, ci.created_at
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.created_at ASC, ci.id ASC`

func (q *Queries) ListCartItems(ctx context.Context, cartID int64) ([]CartLine, error) {
	return collectCartLines(q.db.Query(ctx, listCartItems, cartID))
}

type GetCartItemParams struct {
	CartID    int64
	ProductID int64
}

const getCartItem = `-- name: GetCartItem :one
SELECT id, cart_id, product_id, quantity, unit_price, created_at, updated_at
FROM cart_items WHERE cart_id = $1 AND product_id = $2`

func (q *Queries) GetCartItem(ctx context.Context, arg GetCartItemParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, getCartItem, arg.CartID, arg.ProductID))
}

type CreateCartItemParams struct {
	CartID    int64
	ProductID int64
	Quantity  int32
	UnitPrice decimal.Decimal
}

const createCartItem = `-- name: CreateCartItem :one
INSERT INTO cart_items (cart_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4)
RETURNING id, cart_id, product_id, quantity, unit_price, created_at, updated_at`

func (q *Queries) CreateCartItem(ctx context.Context, arg CreateCartItemParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, createCartItem, arg.CartID, arg.ProductID, arg.Quantity, arg.UnitPrice))
}

type UpdateCartItemQuantityParams struct {
	ID       int64
	Quantity int32
}

const updateCartItemQuantity = `-- name: UpdateCartItemQuantity :one
UPDATE cart_items SET quantity = $2, updated_at = now()
WHERE id = $1
RETURNING id, cart_id, product_id, quantity, unit_price, created_at, updated_at`

func (q *Queries) UpdateCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, updateCartItemQuantity, arg.ID, arg.Quantity))
}

func (q *Queries) DeleteCartItem(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	return err
}

const clearCartItems = `-- name: ClearCartItems :execrows
DELETE FROM cart_items WHERE cart_id = $1`

func (q *Queries) ClearCartItems(ctx context.Context, cartID int64) (int64, error) {
	result, err := q.db.Exec(ctx, clearCartItems, cartID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// =============================================================================
// Guest carts
// =============================================================================

const guestCartColumns = `id, public_id, token, expires_at, ip_address, user_agent, created_at, updated_at`

func scanGuestCart(row pgx.Row) (GuestCart, error) {
	var i GuestCart
	err := row.Scan(
		&i.ID,
		&i.PublicID,
		&i.Token,
		&i.ExpiresAt,
		&i.IPAddress,
		&i.UserAgent,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type CreateGuestCartParams struct {
	Token     string
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
}

const createGuestCart = `-- name: CreateGuestCart :one
INSERT INTO guest_carts (token, expires_at, ip_address, user_agent)
VALUES ($1, $2, $3, $4)
RETURNING ` + guestCartColumns

func (q *Queries) CreateGuestCart(ctx context.Context, arg CreateGuestCartParams) (GuestCart, error) {
	return scanGuestCart(q.db.QueryRow(ctx, createGuestCart, arg.Token, arg.ExpiresAt, arg.IPAddress, arg.UserAgent))
}

func (q *Queries) GetGuestCartByToken(ctx context.Context, token string) (GuestCart, error) {
	return scanGuestCart(q.db.QueryRow(ctx, `SELECT `+guestCartColumns+` FROM guest_carts WHERE token = $1`, token))
}

func (q *Queries) GetGuestCartByPublicID(ctx context.Context, publicID uuid.UUID) (GuestCart, error) {
	return scanGuestCart(q.db.QueryRow(ctx, `SELECT `+guestCartColumns+` FROM guest_carts WHERE public_id = $1`, publicID))
}

const getGuestCartByTokenForUpdate = `-- name: GetGuestCartByTokenForUpdate :one
SELECT ` + guestCartColumns + ` FROM guest_carts WHERE token = $1 FOR UPDATE`

// GetGuestCartByTokenForUpdate locks the guest cart for a merge. A second
// merge of the same token blocks, then finds no row once the first commits.
func (q *Queries) GetGuestCartByTokenForUpdate(ctx context.Context, token string) (GuestCart, error) {
	return scanGuestCart(q.db.QueryRow(ctx, getGuestCartByTokenForUpdate, token))
}

const getGuestCartByPublicIDForUpdate = `-- name: GetGuestCartByPublicIDForUpdate :one
SELECT ` + guestCartColumns + ` FROM guest_carts WHERE public_id = $1 FOR UPDATE`

func (q *Queries) GetGuestCartByPublicIDForUpdate(ctx context.Context, publicID uuid.UUID) (GuestCart, error) {
	return scanGuestCart(q.db.QueryRow(ctx, getGuestCartByPublicIDForUpdate, publicID))
}

type UpdateGuestCartExpiryParams struct {
	ID        int64
	ExpiresAt time.Time
}

func (q *Queries) UpdateGuestCartExpiry(ctx context.Context, arg UpdateGuestCartExpiryParams) error {
	_, err := q.db.Exec(ctx,
		`UPDATE guest_carts SET expires_at = $2, updated_at = now() WHERE id = $1`,
		arg.ID, arg.ExpiresAt)
	return err
}

const listGuestCartItems = `-- name: ListGuestCartItems :many
SELECT gi.id, gi.product_id, p.public_id, p.name, p.slug, gi.quantity, gi.unit_price, gi.created_at
FROM guest_cart_items gi
JOIN products p ON p.id = gi.product_id
WHERE gi.guest_cart_id = $1
ORDER BY gi.created_at ASC, gi.id ASC`

func (q *Queries) ListGuestCartItems(ctx context.Context, guestCartID int64) ([]CartLine, error) {
	return collectCartLines(q.db.Query(ctx, listGuestCartItems, guestCartID))
}

const getGuestCartItem = `-- name: GetGuestCartItem :one
SELECT id, guest_cart_id, product_id, quantity, unit_price, created_at, updated_at
FROM guest_cart_items WHERE guest_cart_id = $1 AND product_id = $2`

func (q *Queries) GetGuestCartItem(ctx context.Context, arg GetCartItemParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, getGuestCartItem, arg.CartID, arg.ProductID))
}

const createGuestCartItem = `-- name: CreateGuestCartItem :one
INSERT INTO guest_cart_items (guest_cart_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4)
RETURNING id, guest_cart_id, product_id, quantity, unit_price, created_at, updated_at`

func (q *Queries) CreateGuestCartItem(ctx context.Context, arg CreateCartItemParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, createGuestCartItem, arg.CartID, arg.ProductID, arg.Quantity, arg.UnitPrice))
}

const updateGuestCartItemQuantity = `-- name: UpdateGuestCartItemQuantity :one
UPDATE guest_cart_items SET quantity = $2, updated_at = now()
WHERE id = $1
RETURNING id, guest_cart_id, product_id, quantity, unit_price, created_at, updated_at`

func (q *Queries) UpdateGuestCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, updateGuestCartItemQuantity, arg.ID, arg.Quantity))
}

func (q *Queries) DeleteGuestCartItem(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM guest_cart_items WHERE id = $1`, id)
	return err
}

const deleteGuestCartItems = `-- name: DeleteGuestCartItems :execrows
DELETE FROM guest_cart_items WHERE guest_cart_id = $1`

func (q *Queries) DeleteGuestCartItems(ctx context.Context, guestCartID int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteGuestCartItems, guestCartID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteGuestCart = `-- name: DeleteGuestCart :execrows
DELETE FROM guest_carts WHERE id = $1`

func (q *Queries) DeleteGuestCart(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteGuestCart, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteExpiredGuestCarts = `-- name: DeleteExpiredGuestCarts :execrows
DELETE FROM guest_carts WHERE expires_at < $1`

func (q *Queries) DeleteExpiredGuestCarts(ctx context.Context, before time.Time) (int64, error) {
	result, err := q.db.Exec(ctx, deleteExpiredGuestCarts, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
