package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/repository"
)

// ProductService provides the public catalog and its admin maintenance.
type ProductService interface {
	// List returns a cursor page of products. Inactive products are only
	// included when filter.IncludeInactive is set.
	List(ctx context.Context, filter ProductFilter, params pagination.Params) (pagination.Page[domain.Product], error)

	// Get and GetBySlug hide inactive products unless includeInactive is set.
	Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string, includeInactive bool) (*domain.Product, error)

	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductFilter narrows a product listing. Price bounds are inclusive and
// apply to the list price.
type ProductFilter struct {
	CategorySlug    string
	TagSlug         string
	Search          string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	MinRating       *decimal.Decimal
	Sort            ProductSort
	IncludeInactive bool
}

func (f ProductFilter) validate(op string) error {
	var err error
	if f.MinPrice != nil && f.MinPrice.IsNegative() {
		err = domain.AddFieldError(err, "minPrice", "minPrice cannot be negative")
	}
	if f.MaxPrice != nil && f.MaxPrice.IsNegative() {
		err = domain.AddFieldError(err, "maxPrice", "maxPrice cannot be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		err = domain.AddFieldError(err, "minPrice", "minPrice cannot exceed maxPrice")
	}
	if f.MinRating != nil && (f.MinRating.IsNegative() || f.MinRating.GreaterThan(decimal.NewFromInt(MaxRating))) {
		err = domain.AddFieldError(err, "minRating", "minRating must be between 0 and 5")
	}
	if err != nil {
		err.(*domain.ValidationError).Op = op
	}
	return err
}

// ProductSort selects the listing order. The zero value keeps the caller's
// sortOrder on creation time; any other value overrides it.
type ProductSort string

const (
	SortNewest     ProductSort = "newest"
	SortPriceAsc   ProductSort = "price-asc"
	SortPriceDesc  ProductSort = "price-desc"
	SortRatingAsc  ProductSort = "rating-asc"
	SortRatingDesc ProductSort = "rating-desc"
)

// ParseProductSort accepts the sortBy query values; an empty string yields the
// zero ProductSort.
func ParseProductSort(s string) (ProductSort, error) {
	switch v := ProductSort(strings.ToLower(strings.TrimSpace(s))); v {
	case "", SortNewest, SortPriceAsc, SortPriceDesc, SortRatingAsc, SortRatingDesc:
		return v, nil
	}
	return "", domain.WithOp(domain.ErrInvalidSort, "product.parse_sort")
}

// column returns the repository sort key and the order it forces, if any.
func (s ProductSort) column() (string, pagination.SortOrder, bool) {
	switch s {
	case SortNewest:
		return repository.ProductSortCreatedAt, pagination.Desc, true
	case SortPriceAsc:
		return repository.ProductSortPrice, pagination.Asc, true
	case SortPriceDesc:
		return repository.ProductSortPrice, pagination.Desc, true
	case SortRatingAsc:
		return repository.ProductSortRating, pagination.Asc, true
	case SortRatingDesc:
		return repository.ProductSortRating, pagination.Desc, true
	}
	return repository.ProductSortCreatedAt, "", false
}

// ProductInput is the writable part of a product. An empty Slug is derived
// from Name; a nil IsActive means active.
type ProductInput struct {
	CategoryID    *uuid.UUID
	Name          string
	Slug          string
	SKU           string
	Description   string
	Price         decimal.Decimal
	SalePrice     *decimal.Decimal
	StockQuantity int32
	IsActive      *bool
	TagIDs        []uuid.UUID
}

func (in ProductInput) validate(op string) error {
	var err error
	if strings.TrimSpace(in.Name) == "" {
		err = domain.AddFieldError(err, "name", "name is required")
	}
	if strings.TrimSpace(in.SKU) == "" {
		err = domain.AddFieldError(err, "sku", "sku is required")
	}
	if !in.Price.IsPositive() {
		err = domain.AddFieldError(err, "price", "price must be greater than zero")
	}
	if in.SalePrice != nil && !in.SalePrice.IsPositive() {
		err = domain.AddFieldError(err, "salePrice", "salePrice must be greater than zero")
	}
	if in.StockQuantity < 0 {
		err = domain.AddFieldError(err, "stockQuantity", "stockQuantity cannot be negative")
	}
	if err != nil {
		err.(*domain.ValidationError).Op = op
	}
	return err
}

type productService struct {
	Deps
}

func NewProductService(deps Deps) ProductService {
	return &productService{Deps: deps}
}

func (s *productService) List(ctx context.Context, filter ProductFilter, params pagination.Params) (pagination.Page[domain.Product], error) {
	const op = "product.list"

	if err := filter.validate(op); err != nil {
		return pagination.Page[domain.Product]{}, err
	}
	sortKey, order, forced := filter.Sort.column()
	if forced {
		params.SortOrder = order
	}

	cp, params, err := cursorParams(params)
	if err != nil {
		return pagination.Page[domain.Product]{}, domain.WithOp(err, op)
	}
	// A cursor issued under one sort cannot resume another.
	if cp.After != nil && (cp.After.Value != nil) != (sortKey != repository.ProductSortCreatedAt) {
		return pagination.Page[domain.Product]{}, domain.WithOp(pagination.ErrInvalidCursor, op)
	}

	arg := repository.ListProductsParams{
		CursorParams: cp,
		Search:       strings.TrimSpace(filter.Search),
		MinPrice:     filter.MinPrice,
		MaxPrice:     filter.MaxPrice,
		MinRating:    filter.MinRating,
		ActiveOnly:   !filter.IncludeInactive,
		SortKey:      sortKey,
	}
	if filter.CategorySlug != "" {
		cat, err := s.Store.GetCategoryBySlug(ctx, filter.CategorySlug)
		if err != nil {
			return pagination.Page[domain.Product]{}, fail(err, domain.ErrCategoryNotFound, op)
		}
		arg.CategoryID = &cat.ID
	}
	if filter.TagSlug != "" {
		tag, err := s.Store.GetTagBySlug(ctx, filter.TagSlug)
		if err != nil {
			return pagination.Page[domain.Product]{}, fail(err, domain.ErrTagNotFound, op)
		}
		arg.TagID = &tag.ID
	}

	rows, err := s.Store.ListProductsCursor(ctx, arg)
	if err != nil {
		return pagination.Page[domain.Product]{}, fail(err, nil, op)
	}

	page := pagination.Paginate(rows, params, func(p repository.Product) pagination.Cursor {
		return productCursor(p, sortKey)
	})
	return pagination.Map(page, func(p repository.Product) domain.Product { return *toProduct(p) }), nil
}

func productCursor(p repository.Product, sortKey string) pagination.Cursor {
	c := pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.PublicID}
	switch sortKey {
	case repository.ProductSortPrice:
		v := p.Price
		c.Value = &v
	case repository.ProductSortRating:
		v := p.AverageRating
		c.Value = &v
	}
	return c
}

func (s *productService) Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*domain.Product, error) {
	const op = "product.get"
	row, err := s.Store.GetProductByPublicID(ctx, id)
	return s.visible(ctx, row, err, includeInactive, op)
}

func (s *productService) GetBySlug(ctx context.Context, slug string, includeInactive bool) (*domain.Product, error) {
	const op = "product.get_by_slug"
	row, err := s.Store.GetProductBySlug(ctx, slug)
	return s.visible(ctx, row, err, includeInactive, op)
}

func (s *productService) visible(ctx context.Context, row repository.Product, err error, includeInactive bool, op string) (*domain.Product, error) {
	if err != nil {
		return nil, fail(err, domain.ErrProductNotFound, op)
	}
	if !row.IsActive && !includeInactive {
		return nil, domain.WithOp(domain.ErrProductNotFound, op)
	}
	return withTags(ctx, s.Store, row, op)
}

func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	const op = "product.create"
	if err := input.validate(op); err != nil {
		return nil, err
	}

	var product *domain.Product
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		arg, err := s.params(ctx, q, input, op)
		if err != nil {
			return err
		}
		row, err := q.CreateProduct(ctx, arg)
		if err != nil {
			return productWriteError(err, op)
		}
		if err := setProductTags(ctx, q, row.ID, input.TagIDs, op); err != nil {
			return err
		}
		product, err = withTags(ctx, q, row, op)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}

	s.log(ctx).Info().Str("product_id", product.PublicID.String()).Str("slug", product.Slug).Msg("product created")
	return product, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	const op = "product.update"
	if err := input.validate(op); err != nil {
		return nil, err
	}

	var product *domain.Product
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		existing, err := q.GetProductByPublicID(ctx, id)
		if err != nil {
			return fail(err, domain.ErrProductNotFound, op)
		}
		arg, err := s.params(ctx, q, input, op)
		if err != nil {
			return err
		}
		row, err := q.UpdateProduct(ctx, repository.UpdateProductParams{ID: existing.ID, CreateProductParams: arg})
		if err != nil {
			return productWriteError(err, op)
		}
		if err := setProductTags(ctx, q, row.ID, input.TagIDs, op); err != nil {
			return err
		}
		product, err = withTags(ctx, q, row, op)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "product.delete"

	row, err := s.Store.GetProductByPublicID(ctx, id)
	if err != nil {
		return fail(err, domain.ErrProductNotFound, op)
	}
	if err := s.Store.DeleteProduct(ctx, row.ID); err != nil {
		return fail(err, nil, op)
	}
	s.log(ctx).Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

func (s *productService) params(ctx context.Context, q repository.Querier, in ProductInput, op string) (repository.CreateProductParams, error) {
	arg := repository.CreateProductParams{
		Name:          strings.TrimSpace(in.Name),
		Slug:          strings.TrimSpace(in.Slug),
		SKU:           strings.TrimSpace(in.SKU),
		Description:   in.Description,
		Price:         in.Price,
		SalePrice:     nullDecimal(in.SalePrice),
		StockQuantity: in.StockQuantity,
		IsActive:      in.IsActive == nil || *in.IsActive,
	}
	if arg.Slug == "" {
		arg.Slug = domain.Slugify(arg.Name)
	}
	if in.CategoryID != nil {
		cat, err := q.GetCategoryByPublicID(ctx, *in.CategoryID)
		if err != nil {
			return arg, fail(err, domain.ErrCategoryNotFound, op)
		}
		arg.CategoryID = &cat.ID
	}
	return arg, nil
}

// setProductTags replaces the product's tags. A nil slice leaves them untouched.
func setProductTags(ctx context.Context, q repository.Querier, productID int64, tagIDs []uuid.UUID, op string) error {
	if tagIDs == nil {
		return nil
	}
	if err := q.DeleteProductTags(ctx, productID); err != nil {
		return fail(err, nil, op)
	}
	for _, id := range tagIDs {
		tag, err := q.GetTagByPublicID(ctx, id)
		if err != nil {
			return fail(err, domain.ErrTagNotFound, op)
		}
		if err := q.AddProductTag(ctx, repository.AddProductTagParams{ProductID: productID, TagID: tag.ID}); err != nil {
			return fail(err, nil, op)
		}
	}
	return nil
}

func withTags(ctx context.Context, q repository.Querier, row repository.Product, op string) (*domain.Product, error) {
	tags, err := q.ListTagsForProduct(ctx, row.ID)
	if err != nil {
		return nil, fail(err, nil, op)
	}
	p := toProduct(row)
	p.Tags = make([]domain.Tag, len(tags))
	for i, t := range tags {
		p.Tags[i] = toTag(t)
	}
	return p, nil
}

func productWriteError(err error, op string) error {
	if constraint, ok := repository.IsUniqueViolation(err); ok {
		if strings.Contains(constraint, "sku") {
			return domain.WithOp(domain.ErrSKUTaken, op)
		}
		return domain.WithOp(domain.ErrSlugTaken, op)
	}
	return fail(err, domain.ErrProductNotFound, op)
}
