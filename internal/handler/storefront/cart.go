package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/service"
)

// CartHandler handles the signed-in user's cart.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int32     `json:"quantity" validate:"required,gte=1,lte=1000"`
}

type updateQuantityRequest struct {
	Quantity int32 `json:"quantity" validate:"required,gte=1,lte=1000"`
}

// View handles GET /api/cart. The cart is created on first access.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.cartService.GetOrCreate(r.Context(), user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Cart retrieved", summary)
}

// Add handles POST /api/cart/items. Adding a product already in the cart
// increases its quantity.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cartService.AddItem(r.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Item added to cart", summary)
}

// Update handles PATCH /api/cart/items/{productId}
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	productID, err := handler.PathUUID(r, "productId")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updateQuantityRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cartService.UpdateItemQuantity(r.Context(), user.ID, productID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Cart item updated", summary)
}

// Remove handles DELETE /api/cart/items/{productId}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	productID, err := handler.PathUUID(r, "productId")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cartService.RemoveItem(r.Context(), user.ID, productID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Item removed from cart", summary)
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.cartService.Clear(r.Context(), user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Cart cleared", summary)
}
