package storefront

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/shopery/internal/cookie"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/service"
)

// CheckoutHandler converts a cart or guest cart into an order.
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	cookies         *cookie.Config
}

func NewCheckoutHandler(checkoutService service.CheckoutService, cookies *cookie.Config) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		cookies:         cookies,
	}
}

// checkoutRequest names exactly one source cart. Total is the client's own
// computation and is only compared against the server's.
type checkoutRequest struct {
	CartID      *uuid.UUID      `json:"cartId"`
	GuestCartID *uuid.UUID      `json:"guestCartId"`
	Email       string          `json:"email" validate:"omitempty,email,max=255"`
	Total       decimal.Decimal `json:"total"`
}

// Checkout handles POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	params := domain.CheckoutParams{
		CartID:      req.CartID,
		GuestCartID: req.GuestCartID,
		GuestToken:  guestToken(r),
		Email:       req.Email,
		Total:       req.Total,
	}
	if user := domain.UserFromContext(r.Context()); user != nil {
		params.UserID = &user.ID
	}

	order, err := h.checkoutService.Checkout(r.Context(), params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if req.GuestCartID != nil {
		h.cookies.ClearGuestToken(w)
	}
	handler.Created(w, "Order placed", order)
}
