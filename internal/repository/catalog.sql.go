package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/shopery/internal/pagination"
)

// CursorParams selects one keyset page. After is nil for the first page and
// Limit already includes the look-ahead row.
type CursorParams struct {
	After *pagination.Cursor
	Order pagination.SortOrder
	Limit int32
}

type PageParams struct {
	Limit  int32
	Offset int32
}

// =============================================================================
// Categories
// =============================================================================

const categoryColumns = `id, public_id, name, slug, description, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (Category, error) {
	var i Category
	err := row.Scan(
		&i.ID,
		&i.PublicID,
		&i.Name,
		&i.Slug,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectCategories(rows pgx.Rows, err error) ([]Category, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		i, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (name, slug, description)
VALUES ($1, $2, $3)
RETURNING ` + categoryColumns

type CreateCategoryParams struct {
	Name        string
	Slug        string
	Description string
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, createCategory, arg.Name, arg.Slug, arg.Description))
}

const updateCategory = `-- name: UpdateCategory :one
UPDATE categories
SET name = $2, slug = $3, description = $4, updated_at = now()
WHERE id = $1
RETURNING ` + categoryColumns

type UpdateCategoryParams struct {
	ID          int64
	Name        string
	Slug        string
	Description string
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, updateCategory, arg.ID, arg.Name, arg.Slug, arg.Description))
}

const deleteCategory = `-- name: DeleteCategory :exec
DELETE FROM categories WHERE id = $1`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteCategory, id)
	return err
}

func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

func (q *Queries) GetCategoryByPublicID(ctx context.Context, publicID uuid.UUID) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE public_id = $1`, publicID))
}

func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug))
}

func (q *Queries) ListCategoriesCursor(ctx context.Context, arg CursorParams) ([]Category, error) {
	where, orderBy, args := pagination.Keyset("created_at", "public_id", arg.Order, arg.After, 1)
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE %s ORDER BY %s LIMIT %d`,
		categoryColumns, where, orderBy, arg.Limit)
	return collectCategories(q.db.Query(ctx, query, args...))
}

const listCategoriesPage = `-- name: ListCategoriesPage :many
SELECT ` + categoryColumns + ` FROM categories
ORDER BY name ASC, id ASC
LIMIT $1 OFFSET $2`

func (q *Queries) ListCategoriesPage(ctx context.Context, arg PageParams) ([]Category, error) {
	return collectCategories(q.db.Query(ctx, listCategoriesPage, arg.Limit, arg.Offset))
}

func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM categories`).Scan(&count)
	return count, err
}

// =============================================================================
// Tags
// =============================================================================

const tagColumns = `t.id, t.public_id, t.name, t.slug, t.created_at, t.updated_at`

func scanTag(row interface{ Scan(...any) error }) (Tag, error) {
	var i Tag
	err := row.Scan(&i.ID, &i.PublicID, &i.Name, &i.Slug, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func collectTags(rows pgx.Rows, err error) ([]Tag, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Tag
	for rows.Next() {
		i, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type CreateTagParams struct {
	Name string
	Slug string
}

func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error) {
	return scanTag(q.db.QueryRow(ctx,
		`INSERT INTO tags AS t (name, slug) VALUES ($1, $2) RETURNING `+tagColumns,
		arg.Name, arg.Slug))
}

type UpdateTagParams struct {
	ID   int64
	Name string
	Slug string
}

func (q *Queries) UpdateTag(ctx context.Context, arg UpdateTagParams) (Tag, error) {
	return scanTag(q.db.QueryRow(ctx,
		`UPDATE tags AS t SET name = $2, slug = $3, updated_at = now() WHERE t.id = $1 RETURNING `+tagColumns,
		arg.ID, arg.Name, arg.Slug))
}

func (q *Queries) DeleteTag(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	return err
}

func (q *Queries) GetTagByPublicID(ctx context.Context, publicID uuid.UUID) (Tag, error) {
	return scanTag(q.db.QueryRow(ctx, `SELECT `+tagColumns+` FROM tags t WHERE t.public_id = $1`, publicID))
}

func (q *Queries) GetTagBySlug(ctx context.Context, slug string) (Tag, error) {
	return scanTag(q.db.QueryRow(ctx, `SELECT `+tagColumns+` FROM tags t WHERE t.slug = $1`, slug))
}

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	return collectTags(q.db.Query(ctx, `SELECT `+tagColumns+` FROM tags t ORDER BY t.name ASC`))
}

const listTagsForProduct = `-- name: ListTagsForProduct :many
SELECT ` + tagColumns + `
FROM tags t
JOIN product_tags pt ON pt.tag_id = t.id
WHERE pt.product_id = $1
ORDER BY t.name ASC`

func (q *Queries) ListTagsForProduct(ctx context.Context, productID int64) ([]Tag, error) {
	return collectTags(q.db.Query(ctx, listTagsForProduct, productID))
}

type AddProductTagParams struct {
	ProductID int64
	TagID     int64
}

func (q *Queries) AddProductTag(ctx context.Context, arg AddProductTagParams) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO product_tags (product_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		arg.ProductID, arg.TagID)
	return err
}

func (q *Queries) DeleteProductTags(ctx context.Context, productID int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM product_tags WHERE product_id = $1`, productID)
	return err
}

// =============================================================================
// Products
// =============================================================================

const productColumns = `p.id, p.public_id, p.category_id,
	(SELECT cat.public_id FROM categories cat WHERE cat.id = p.category_id), p.name, p.slug, p.sku, p.description,
	p.price, p.sale_price, p.stock_quantity, p.is_active, p.average_rating, p.review_count,
	p.created_at, p.updated_at`

func scanProduct(row interface{ Scan(...any) error }, extra ...any) (Product, error) {
	var i Product
	dest := []any{
		&i.ID,
		&i.PublicID,
		&i.CategoryID,
		&i.CategoryPublicID,
		&i.Name,
		&i.Slug,
		&i.SKU,
		&i.Description,
		&i.Price,
		&i.SalePrice,
		&i.StockQuantity,
		&i.IsActive,
		&i.AverageRating,
		&i.ReviewCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return i, err
}

const createProduct = `-- name: CreateProduct :one
INSERT INTO products AS p (category_id, name, slug, sku, description, price, sale_price, stock_quantity, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + productColumns

type CreateProductParams struct {
	CategoryID    *int64
	Name          string
	Slug          string
	SKU           string
	Description   string
	Price         decimal.Decimal
	SalePrice     decimal.NullDecimal
	StockQuantity int32
	IsActive      bool
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.CategoryID,
		arg.Name,
		arg.Slug,
		arg.SKU,
		arg.Description,
		arg.Price,
		arg.SalePrice,
		arg.StockQuantity,
		arg.IsActive,
	)
	return scanProduct(row)
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products AS p
SET category_id = $2, name = $3, slug = $4, sku = $5, description = $6,
    price = $7, sale_price = $8, stock_quantity = $9, is_active = $10, updated_at = now()
WHERE p.id = $1
RETURNING ` + productColumns

type UpdateProductParams struct {
	ID int64
	CreateProductParams
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.CategoryID,
		arg.Name,
		arg.Slug,
		arg.SKU,
		arg.Description,
		arg.Price,
		arg.SalePrice,
		arg.StockQuantity,
		arg.IsActive,
	)
	return scanProduct(row)
}

func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (q *Queries) GetProductByID(ctx context.Context, id int64) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id))
}

func (q *Queries) GetProductByPublicID(ctx context.Context, publicID uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.public_id = $1`, publicID))
}

func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.slug = $1`, slug))
}

// Product sort columns accepted by ListProductsCursor.
const (
	ProductSortCreatedAt = "created_at"
	ProductSortPrice     = "price"
	ProductSortRating    = "average_rating"
)

type ListProductsParams struct {
	CursorParams
	CategoryID *int64
	TagID      *int64
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	MinRating  *decimal.Decimal
	ActiveOnly bool
	// SortKey is one of the ProductSort constants; empty means created_at.
	// For price and rating the cursor must carry a Value.
	SortKey string
}

// ListProductsCursor builds its filter dynamically; keyset placeholders follow
// the filter placeholders.
func (q *Queries) ListProductsCursor(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	var (
		conds []string
		args  []any
	)
	if arg.ActiveOnly {
		conds = append(conds, "p.is_active")
	}
	if arg.CategoryID != nil {
		args = append(args, *arg.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if arg.Search != "" {
		args = append(args, "%"+arg.Search+"%")
		conds = append(conds, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	if arg.TagID != nil {
		args = append(args, *arg.TagID)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_tags pt WHERE pt.product_id = p.id AND pt.tag_id = $%d)", len(args)))
	}
	if arg.MinPrice != nil {
		args = append(args, *arg.MinPrice)
		conds = append(conds, fmt.Sprintf("p.price >= $%d", len(args)))
	}
	if arg.MaxPrice != nil {
		args = append(args, *arg.MaxPrice)
		conds = append(conds, fmt.Sprintf("p.price <= $%d", len(args)))
	}
	if arg.MinRating != nil {
		args = append(args, *arg.MinRating)
		conds = append(conds, fmt.Sprintf("p.average_rating >= $%d", len(args)))
	}

	sortCol := "p.created_at"
	switch arg.SortKey {
	case ProductSortPrice:
		sortCol = "p.price"
	case ProductSortRating:
		sortCol = "p.average_rating"
	}

	where, orderBy, keyArgs := pagination.Keyset(sortCol, "p.public_id", arg.Order, arg.After, len(args)+1)
	conds = append(conds, where)
	args = append(args, keyArgs...)

	query := fmt.Sprintf(`SELECT %s FROM products p WHERE %s ORDER BY %s LIMIT %d`,
		productColumns, strings.Join(conds, " AND "), orderBy, arg.Limit)

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type UpdateProductRatingParams struct {
	ID            int64
	AverageRating decimal.Decimal
	ReviewCount   int32
}

func (q *Queries) UpdateProductRating(ctx context.Context, arg UpdateProductRatingParams) error {
	_, err := q.db.Exec(ctx,
		`UPDATE products SET average_rating = $2, review_count = $3, updated_at = now() WHERE id = $1`,
		arg.ID, arg.AverageRating, arg.ReviewCount)
	return err
}
