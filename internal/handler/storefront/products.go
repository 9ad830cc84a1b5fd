package storefront

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/service"
)

// CatalogHandler serves products, categories and tags to shoppers. Inactive
// products are hidden.
type CatalogHandler struct {
	productService  service.ProductService
	categoryService service.CategoryService
	tagService      service.TagService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(products service.ProductService, categories service.CategoryService, tags service.TagService) *CatalogHandler {
	return &CatalogHandler{
		productService:  products,
		categoryService: categories,
		tagService:      tags,
	}
}

// ListProducts handles GET /api/products?category=&tag=&search=&minPrice=&maxPrice=&minRating=&sortBy=&limit=&cursor=&sortOrder=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := pagination.ParseParams(q)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	filter, err := productFilter(q)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	page, err := h.productService.List(r.Context(), filter, params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.CursorPage(w, "Products retrieved", page)
}

func productFilter(q url.Values) (service.ProductFilter, error) {
	const op = "storefront.product_filter"

	sort, err := service.ParseProductSort(q.Get("sortBy"))
	if err != nil {
		return service.ProductFilter{}, err
	}
	f := service.ProductFilter{
		CategorySlug: strings.TrimSpace(q.Get("category")),
		TagSlug:      strings.TrimSpace(q.Get("tag")),
		Search:       strings.TrimSpace(q.Get("search")),
		Sort:         sort,
	}

	var verr error
	for _, p := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"minPrice", &f.MinPrice},
		{"maxPrice", &f.MaxPrice},
		{"minRating", &f.MinRating},
	} {
		v := strings.TrimSpace(q.Get(p.name))
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			verr = domain.AddFieldError(verr, p.name, p.name+" must be a number")
			continue
		}
		*p.dst = &d
	}
	if verr != nil {
		verr.(*domain.ValidationError).Op = op
		return service.ProductFilter{}, verr
	}
	return f, nil
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.productService.Get(r.Context(), id, false)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Product retrieved", product)
}

// GetProductBySlug handles GET /api/products/slug/{slug}
func (h *CatalogHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.GetBySlug(r.Context(), r.PathValue("slug"), false)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Product retrieved", product)
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.ParseParams(r.URL.Query())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	page, err := h.categoryService.List(r.Context(), params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.CursorPage(w, "Categories retrieved", page)
}

// GetCategory handles GET /api/categories/{slug}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryService.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Category retrieved", category)
}

// ListTags handles GET /api/tags
func (h *CatalogHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.List(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	handler.OK(w, "Tags retrieved", tags)
}
