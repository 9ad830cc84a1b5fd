package admin

import (
	"net/http"

	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/service"
)

// CategoryHandler manages categories and tags.
type CategoryHandler struct {
	categoryService service.CategoryService
	tagService      service.TagService
}

func NewCategoryHandler(categories service.CategoryService, tags service.TagService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categories,
		tagService:      tags,
	}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"max=100"`
	Description string `json:"description" validate:"max=2000"`
}

type tagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
	Slug string `json:"slug" validate:"max=50"`
}

// ListCategories handles GET /api/admin/categories?page=&limit=
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, info, err := h.categoryService.ListPage(r.Context(), pagination.ParsePageParams(r.URL.Query()))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OffsetPage(w, "Categories retrieved", categories, info)
}

// CreateCategory handles POST /api/admin/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	category, err := h.categoryService.Create(r.Context(), service.CategoryInput(req))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Created(w, "Category created", category)
}

// UpdateCategory handles PUT /api/admin/categories/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req categoryRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, service.CategoryInput(req))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Category updated", category)
}

// DeleteCategory handles DELETE /api/admin/categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Category deleted", nil)
}

// CreateTag handles POST /api/admin/tags
func (h *CategoryHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	tag, err := h.tagService.Create(r.Context(), req.Name, req.Slug)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Created(w, "Tag created", tag)
}

// UpdateTag handles PUT /api/admin/tags/{id}
func (h *CategoryHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req tagRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	tag, err := h.tagService.Update(r.Context(), id, req.Name, req.Slug)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Tag updated", tag)
}

// DeleteTag handles DELETE /api/admin/tags/{id}
func (h *CategoryHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.tagService.Delete(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Tag deleted", nil)
}
