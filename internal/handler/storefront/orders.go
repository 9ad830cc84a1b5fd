package storefront

import (
	"net/http"

	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/service"
)

// OrderHandler lists and cancels the signed-in user's orders. Orders of
// other users answer 404.
type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles GET /api/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	params, err := pagination.ParseParams(r.URL.Query())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	page, err := h.orderService.ListForUser(r.Context(), user.ID, params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.CursorPage(w, "Orders retrieved", page)
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orderService.Get(r.Context(), id, &user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Order retrieved", order)
}

// Cancel handles POST /api/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orderService.Cancel(r.Context(), id, &user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Order cancelled", order)
}
