package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/shopery/internal/pagination"
)

// ListByProductParams pages the children (reviews, comments) of one product.
type ListByProductParams struct {
	CursorParams
	ProductID int64
}

// =============================================================================
// Reviews
// =============================================================================

const reviewColumns = `r.id, r.public_id, r.product_id, r.user_id, r.rating, r.title, r.body, r.is_approved, r.created_at, r.updated_at`

func scanReview(row pgx.Row, extra ...any) (Review, error) {
	var i Review
	dest := []any{
		&i.ID,
		&i.PublicID,
		&i.ProductID,
		&i.UserID,
		&i.Rating,
		&i.Title,
		&i.Body,
		&i.IsApproved,
		&i.CreatedAt,
		&i.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return i, err
}

type CreateReviewParams struct {
	ProductID  int64
	UserID     int64
	Rating     int32
	Title      string
	Body       string
	IsApproved bool
}

const createReview = `-- name: CreateReview :one
INSERT INTO reviews AS r (product_id, user_id, rating, title, body, is_approved)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + reviewColumns

func (q *Queries) CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error) {
	row := q.db.QueryRow(ctx, createReview,
		arg.ProductID,
		arg.UserID,
		arg.Rating,
		arg.Title,
		arg.Body,
		arg.IsApproved,
	)
	return scanReview(row)
}

func (q *Queries) GetReviewByPublicID(ctx context.Context, publicID uuid.UUID) (Review, error) {
	return scanReview(q.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews r WHERE r.public_id = $1`, publicID))
}

type GetReviewByUserAndProductParams struct {
	UserID    int64
	ProductID int64
}

func (q *Queries) GetReviewByUserAndProduct(ctx context.Context, arg GetReviewByUserAndProductParams) (Review, error) {
	return scanReview(q.db.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews r WHERE r.user_id = $1 AND r.product_id = $2`,
		arg.UserID, arg.ProductID))
}

const getProductReviewStats = `-- name: GetProductReviewStats :one
SELECT COALESCE(ROUND(AVG(rating), 2), 0)::numeric, COUNT(*)::int
FROM reviews
WHERE product_id = $1 AND is_approved`

func (q *Queries) GetProductReviewStats(ctx context.Context, productID int64) (ReviewStats, error) {
	var i ReviewStats
	err := q.db.QueryRow(ctx, getProductReviewStats, productID).Scan(&i.Average, &i.Count)
	return i, err
}

func (q *Queries) ListReviewsCursor(ctx context.Context, arg ListByProductParams) ([]ReviewRow, error) {
	where, orderBy, args := pagination.Keyset("r.created_at", "r.public_id", arg.Order, arg.After, 2)
	query := fmt.Sprintf(`SELECT %s, u.public_id, u.first_name
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.product_id = $1 AND r.is_approved AND %s
ORDER BY %s LIMIT %d`, reviewColumns, where, orderBy, arg.Limit)

	rows, err := q.db.Query(ctx, query, append([]any{arg.ProductID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ReviewRow
	for rows.Next() {
		var i ReviewRow
		r, err := scanReview(rows, &i.UserPublicID, &i.UserFirstName)
		if err != nil {
			return nil, err
		}
		i.Review = r
		items = append(items, i)
	}
	return items, rows.Err()
}

type SetReviewApprovalParams struct {
	ID         int64
	IsApproved bool
}

func (q *Queries) SetReviewApproval(ctx context.Context, arg SetReviewApprovalParams) (Review, error) {
	return scanReview(q.db.QueryRow(ctx,
		`UPDATE reviews AS r SET is_approved = $2, updated_at = now() WHERE r.id = $1 RETURNING `+reviewColumns,
		arg.ID, arg.IsApproved))
}

// =============================================================================
// Comments
// =============================================================================

const commentColumns = `c.id, c.public_id, c.product_id, c.user_id, c.parent_id, c.body, c.is_deleted, c.created_at, c.updated_at`

func scanComment(row pgx.Row, extra ...any) (Comment, error) {
	var i Comment
	dest := []any{
		&i.ID,
		&i.PublicID,
		&i.ProductID,
		&i.UserID,
		&i.ParentID,
		&i.Body,
		&i.IsDeleted,
		&i.CreatedAt,
		&i.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return i, err
}

const commentRowSelect = `SELECT ` + commentColumns + `, u.public_id, u.first_name,
	(SELECT count(*) FROM comment_reactions cr WHERE cr.comment_id = c.id AND cr.kind = 'like')::int,
	(SELECT count(*) FROM comment_reactions cr WHERE cr.comment_id = c.id AND cr.kind = 'dislike')::int
FROM comments c
JOIN users u ON u.id = c.user_id`

func collectCommentRows(rows pgx.Rows, err error) ([]CommentRow, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CommentRow
	for rows.Next() {
		var i CommentRow
		c, err := scanComment(rows, &i.UserPublicID, &i.UserFirstName, &i.Likes, &i.Dislikes)
		if err != nil {
			return nil, err
		}
		i.Comment = c
		items = append(items, i)
	}
	return items, rows.Err()
}

type CreateCommentParams struct {
	ProductID int64
	UserID    int64
	ParentID  *int64
	Body      string
}

const createComment = `-- name: CreateComment :one
INSERT INTO comments AS c (product_id, user_id, parent_id, body)
VALUES ($1, $2, $3, $4)
RETURNING ` + commentColumns

func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (Comment, error) {
	return scanComment(q.db.QueryRow(ctx, createComment, arg.ProductID, arg.UserID, arg.ParentID, arg.Body))
}

func (q *Queries) GetCommentByID(ctx context.Context, id int64) (Comment, error) {
	return scanComment(q.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments c WHERE c.id = $1`, id))
}

func (q *Queries) GetCommentByPublicID(ctx context.Context, publicID uuid.UUID) (Comment, error) {
	return scanComment(q.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments c WHERE c.public_id = $1`, publicID))
}

func (q *Queries) ListTopLevelCommentsCursor(ctx context.Context, arg ListByProductParams) ([]CommentRow, error) {
	where, orderBy, args := pagination.Keyset("c.created_at", "c.public_id", arg.Order, arg.After, 2)
	query := fmt.Sprintf(`%s
WHERE c.product_id = $1 AND c.parent_id IS NULL AND NOT c.is_deleted AND %s
ORDER BY %s LIMIT %d`, commentRowSelect, where, orderBy, arg.Limit)
	return collectCommentRows(q.db.Query(ctx, query, append([]any{arg.ProductID}, args...)...))
}

const listRepliesForComments = `-- name: ListRepliesForComments :many
` + commentRowSelect + `
WHERE c.parent_id = ANY($1::bigint[]) AND NOT c.is_deleted
ORDER BY c.created_at ASC, c.public_id ASC`

func (q *Queries) ListRepliesForComments(ctx context.Context, parentIDs []int64) ([]CommentRow, error) {
	return collectCommentRows(q.db.Query(ctx, listRepliesForComments, parentIDs))
}

func (q *Queries) SoftDeleteComment(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `UPDATE comments SET is_deleted = TRUE, updated_at = now() WHERE id = $1`, id)
	return err
}

type UpdateCommentBodyParams struct {
	ID   int64
	Body string
}

func (q *Queries) UpdateCommentBody(ctx context.Context, arg UpdateCommentBodyParams) (Comment, error) {
	return scanComment(q.db.QueryRow(ctx,
		`UPDATE comments AS c SET body = $2, updated_at = now() WHERE c.id = $1 RETURNING `+commentColumns,
		arg.ID, arg.Body))
}

type UpsertCommentReactionParams struct {
	CommentID int64
	UserID    int64
	Kind      string
}

const upsertCommentReaction = `-- name: UpsertCommentReaction :exec
INSERT INTO comment_reactions (comment_id, user_id, kind)
VALUES ($1, $2, $3)
ON CONFLICT (comment_id, user_id) DO UPDATE SET kind = EXCLUDED.kind, created_at = now()`

func (q *Queries) UpsertCommentReaction(ctx context.Context, arg UpsertCommentReactionParams) error {
	_, err := q.db.Exec(ctx, upsertCommentReaction, arg.CommentID, arg.UserID, arg.Kind)
	return err
}

// =============================================================================
// Wishlists
// =============================================================================

func (q *Queries) GetWishlistByUserID(ctx context.Context, userID int64) (Wishlist, error) {
	var i Wishlist
	err := q.db.QueryRow(ctx,
		`SELECT id, public_id, user_id, created_at FROM wishlists WHERE user_id = $1`, userID,
	).Scan(&i.ID, &i.PublicID, &i.UserID, &i.CreatedAt)
	return i, err
}

func (q *Queries) CreateWishlist(ctx context.Context, userID int64) (Wishlist, error) {
	var i Wishlist
	err := q.db.QueryRow(ctx,
		`INSERT INTO wishlists (user_id) VALUES ($1) RETURNING id, public_id, user_id, created_at`, userID,
	).Scan(&i.ID, &i.PublicID, &i.UserID, &i.CreatedAt)
	return i, err
}

// WishlistItemRow is a wishlist entry with its product.
type WishlistItemRow struct {
	ID      int64
	AddedAt time.Time
	Product Product
}

const listWishlistItems = `-- name: ListWishlistItems :many
SELECT ` + productColumns + `, wi.id, wi.created_at
FROM wishlist_items wi
JOIN products p ON p.id = wi.product_id
WHERE wi.wishlist_id = $1
ORDER BY wi.created_at DESC, wi.id DESC`

func (q *Queries) ListWishlistItems(ctx context.Context, wishlistID int64) ([]WishlistItemRow, error) {
	rows, err := q.db.Query(ctx, listWishlistItems, wishlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WishlistItemRow
	for rows.Next() {
		var i WishlistItemRow
		p, err := scanProduct(rows, &i.ID, &i.AddedAt)
		if err != nil {
			return nil, err
		}
		i.Product = p
		items = append(items, i)
	}
	return items, rows.Err()
}

type GetWishlistItemParams struct {
	WishlistID int64
	ProductID  int64
}

func (q *Queries) GetWishlistItem(ctx context.Context, arg GetWishlistItemParams) (WishlistItem, error) {
	var i WishlistItem
	err := q.db.QueryRow(ctx,
		`SELECT id, wishlist_id, product_id, created_at FROM wishlist_items WHERE wishlist_id = $1 AND product_id = $2`,
		arg.WishlistID, arg.ProductID,
	).Scan(&i.ID, &i.WishlistID, &i.ProductID, &i.CreatedAt)
	return i, err
}

func (q *Queries) CreateWishlistItem(ctx context.Context, arg GetWishlistItemParams) (WishlistItem, error) {
	var i WishlistItem
	err := q.db.QueryRow(ctx,
		`INSERT INTO wishlist_items (wishlist_id, product_id) VALUES ($1, $2) RETURNING id, wishlist_id, product_id, created_at`,
		arg.WishlistID, arg.ProductID,
	).Scan(&i.ID, &i.WishlistID, &i.ProductID, &i.CreatedAt)
	return i, err
}

func (q *Queries) DeleteWishlistItem(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM wishlist_items WHERE id = $1`, id)
	return err
}
