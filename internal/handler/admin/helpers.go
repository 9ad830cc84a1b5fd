// Package admin holds the JSON handlers behind RequireAdmin.
package admin

import (
	"net/http"
	"strings"

	"github.com/dukerupert/shopery/internal/domain"
)

// statusFilter reads ?status= for order listings. Empty means all.
func statusFilter(r *http.Request) (domain.OrderStatus, error) {
	s := domain.OrderStatus(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))))
	if s != "" && !s.IsValid() {
		return "", domain.WithOp(domain.ErrInvalidOrderStatus, "admin.orders")
	}
	return s, nil
}
