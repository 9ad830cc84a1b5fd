package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/service"
)

type WishlistHandler struct {
	wishlistService service.WishlistService
}

func NewWishlistHandler(wishlistService service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

type wishlistItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
}

// View handles GET /api/wishlist
func (h *WishlistHandler) View(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	wishlist, err := h.wishlistService.Get(r.Context(), user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Wishlist retrieved", wishlist)
}

// Add handles POST /api/wishlist/items
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req wishlistItemRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	wishlist, err := h.wishlistService.Add(r.Context(), user.ID, req.ProductID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Product added to wishlist", wishlist)
}

// Remove handles DELETE /api/wishlist/items/{productId}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	productID, err := handler.PathUUID(r, "productId")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	wishlist, err := h.wishlistService.Remove(r.Context(), user.ID, productID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Product removed from wishlist", wishlist)
}
