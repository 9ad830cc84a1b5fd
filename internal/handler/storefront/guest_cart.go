package storefront

import (
	"net/http"

	"github.com/dukerupert/shopery/internal/cookie"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/service"
)

// GuestCartHandler handles carts of anonymous visitors. The token travels in
// the X-Guest-Token header or the guest cookie; every response that carries
// a guest cart refreshes the cookie.
type GuestCartHandler struct {
	guestCartService service.GuestCartService
	cookies          *cookie.Config
}

func NewGuestCartHandler(guestCartService service.GuestCartService, cookies *cookie.Config) *GuestCartHandler {
	return &GuestCartHandler{
		guestCartService: guestCartService,
		cookies:          cookies,
	}
}

// Create handles POST /api/guest-cart
func (h *GuestCartHandler) Create(w http.ResponseWriter, r *http.Request) {
	summary, err := h.guestCartService.Create(r.Context(), clientContext(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.remember(w, summary)
	handler.Created(w, "Guest cart created", summary)
}

// View handles GET /api/guest-cart
func (h *GuestCartHandler) View(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	summary, err := h.guestCartService.GetByToken(r.Context(), token)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Guest cart retrieved", summary)
}

// Add handles POST /api/guest-cart/items. Without a usable token a new guest
// cart is created and its token returned.
func (h *GuestCartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.guestCartService.AddItem(r.Context(), guestToken(r), req.ProductID, req.Quantity, clientContext(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.remember(w, summary)
	handler.OK(w, "Item added to cart", summary)
}

// Update handles PATCH /api/guest-cart/items/{productId}
func (h *GuestCartHandler) Update(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireToken(w, r)
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

	summary, err := h.guestCartService.UpdateItemQuantity(r.Context(), token, productID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Cart item updated", summary)
}

// Remove handles DELETE /api/guest-cart/items/{productId}
func (h *GuestCartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}
	productID, err := handler.PathUUID(r, "productId")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.guestCartService.RemoveItem(r.Context(), token, productID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Item removed from cart", summary)
}

// Clear handles DELETE /api/guest-cart
func (h *GuestCartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	if err := h.guestCartService.Clear(r.Context(), token); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.cookies.ClearGuestToken(w)
	handler.OK(w, "Guest cart deleted", nil)
}

func (h *GuestCartHandler) requireToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := guestToken(r)
	if token == "" {
		handler.ErrorResponse(w, r, domain.ErrGuestCartNotFound)
		return "", false
	}
	return token, true
}

func (h *GuestCartHandler) remember(w http.ResponseWriter, summary *domain.CartSummary) {
	if summary == nil || summary.GuestCart == nil {
		return
	}
	h.cookies.SetGuestToken(w, summary.GuestCart.Token, summary.GuestCart.ExpiresAt)
}
