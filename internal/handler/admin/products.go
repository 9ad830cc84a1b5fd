package admin

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/service"
)

// ProductHandler manages the catalog. Unlike the storefront it sees
// inactive products.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

type productRequest struct {
	CategoryID    *uuid.UUID       `json:"categoryId"`
	Name          string           `json:"name" validate:"required,max=200"`
	Slug          string           `json:"slug" validate:"max=200"`
	SKU           string           `json:"sku" validate:"required,max=64"`
	Description   string           `json:"description" validate:"max=10000"`
	Price         decimal.Decimal  `json:"price"`
	SalePrice     *decimal.Decimal `json:"salePrice"`
	StockQuantity int32            `json:"stockQuantity" validate:"gte=0"`
	IsActive      *bool            `json:"isActive"`
	TagIDs        []uuid.UUID      `json:"tagIds"`
}

func (req productRequest) input() service.ProductInput {
	return service.ProductInput{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Slug:          req.Slug,
		SKU:           req.SKU,
		Description:   req.Description,
		Price:         req.Price,
		SalePrice:     req.SalePrice,
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
		TagIDs:        req.TagIDs,
	}
}

// List handles GET /api/admin/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := pagination.ParseParams(q)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	page, err := h.productService.List(r.Context(), service.ProductFilter{
		CategorySlug:    strings.TrimSpace(q.Get("category")),
		Search:          strings.TrimSpace(q.Get("search")),
		IncludeInactive: true,
	}, params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.CursorPage(w, "Products retrieved", page)
}

// Get handles GET /api/admin/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.productService.Get(r.Context(), id, true)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Product retrieved", product)
}

// Create handles POST /api/admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.productService.Create(r.Context(), req.input())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Created(w, "Product created", product)
}

// Update handles PUT /api/admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req productRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, req.input())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Product updated", product)
}

// Delete handles DELETE /api/admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Product deleted", nil)
}
