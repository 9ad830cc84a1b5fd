package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/shopery/internal/pagination"
)

const orderColumns = `id, public_id, user_id, cart_id, guest_cart_id, email, status, total, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.PublicID,
		&i.UserID,
		&i.CartID,
		&i.GuestCartID,
		&i.Email,
		&i.Status,
		&i.Total,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectOrders(rows pgx.Rows, err error) ([]Order, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		i, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type CreateOrderParams struct {
	UserID      *int64
	CartID      *int64
	GuestCartID *int64
	Email       string
	Status      string
	Total       decimal.Decimal
}

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (user_id, cart_id, guest_cart_id, email, status, total)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + orderColumns

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.UserID,
		arg.CartID,
		arg.GuestCartID,
		arg.Email,
		arg.Status,
		arg.Total,
	)
	return scanOrder(row)
}

type CreateOrderItemParams struct {
	OrderID   int64
	ProductID int64
	Quantity  int32
	UnitPrice decimal.Decimal
}

const createOrderItem = `-- name: CreateOrderItem :one
INSERT INTO order_items (order_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4)
RETURNING id, order_id, product_id, quantity, unit_price, created_at`

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem, arg.OrderID, arg.ProductID, arg.Quantity, arg.UnitPrice)
	var i OrderItem
	err := row.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.Quantity, &i.UnitPrice, &i.CreatedAt)
	return i, err
}

func (q *Queries) GetOrderByPublicID(ctx context.Context, publicID uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE public_id = $1`, publicID))
}

const listOrderItems = `-- name: ListOrderItems :many
SELECT oi.id, oi.product_id, p.public_id, p.name, p.slug, oi.quantity, oi.unit_price, oi.created_at
FROM order_items oi
JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = $1
ORDER BY oi.id ASC`

func (q *Queries) ListOrderItems(ctx context.Context, orderID int64) ([]CartLine, error) {
	return collectCartLines(q.db.Query(ctx, listOrderItems, orderID))
}

type UpdateOrderStatusParams struct {
	ID     int64
	Status string
}

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status))
}

type ListOrdersByUserParams struct {
	CursorParams
	UserID int64
}

func (q *Queries) ListOrdersByUserCursor(ctx context.Context, arg ListOrdersByUserParams) ([]Order, error) {
	where, orderBy, args := pagination.Keyset("created_at", "public_id", arg.Order, arg.After, 2)
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE user_id = $1 AND %s ORDER BY %s LIMIT %d`,
		orderColumns, where, orderBy, arg.Limit)
	return collectOrders(q.db.Query(ctx, query, append([]any{arg.UserID}, args...)...))
}

// ListOrdersPageParams filters by status when Status is non-empty.
type ListOrdersPageParams struct {
	PageParams
	Status string
}

const listOrdersPage = `-- name: ListOrdersPage :many
SELECT ` + orderColumns + ` FROM orders
WHERE ($1::text = '' OR status = $1)
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

func (q *Queries) ListOrdersPage(ctx context.Context, arg ListOrdersPageParams) ([]Order, error) {
	return collectOrders(q.db.Query(ctx, listOrdersPage, arg.Status, arg.Limit, arg.Offset))
}

func (q *Queries) CountOrders(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE ($1::text = '' OR status = $1)`, status).Scan(&count)
	return count, err
}
