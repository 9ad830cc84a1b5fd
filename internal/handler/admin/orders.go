package admin

import (
	"net/http"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/service"
)

// OrderHandler lists every order and drives status changes.
type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required"`
}

// List handles GET /api/admin/orders?status=&page=&limit=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	status, err := statusFilter(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	orders, info, err := h.orderService.List(r.Context(), pagination.ParsePageParams(r.URL.Query()), status)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OffsetPage(w, "Orders retrieved", orders, info)
}

// Get handles GET /api/admin/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orderService.Get(r.Context(), id, nil)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Order retrieved", order)
}

// UpdateStatus handles PATCH /api/admin/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Order status updated", order)
}

// Cancel handles POST /api/admin/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orderService.Cancel(r.Context(), id, nil)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Order cancelled", order)
}
