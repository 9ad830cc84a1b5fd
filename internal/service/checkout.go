package service

import (
	"context"
	"strings"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

// CheckoutService converts a cart or guest cart into an order.
type CheckoutService interface {
	// Checkout snapshots the cart lines into a pending order and empties the
	// source in the same transaction. A registered cart stays active with
	// no items; a guest cart is deleted.
	Checkout(ctx context.Context, params domain.CheckoutParams) (*domain.Order, error)
}

type checkoutService struct {
	Deps
}

func NewCheckoutService(deps Deps) CheckoutService {
	return &checkoutService{Deps: deps}
}

// checkoutSource is the cart being converted.
type checkoutSource struct {
	kind        string
	cartID      *int64
	guestCartID *int64
	lines       []repository.CartLine
	// clear removes the source lines and returns how many were removed.
	clear func(ctx context.Context, q repository.Querier) (int64, error)
}

func (s *checkoutService) Checkout(ctx context.Context, params domain.CheckoutParams) (*domain.Order, error) {
	const op = "checkout"

	if (params.CartID == nil) == (params.GuestCartID == nil) {
		return nil, domain.WithOp(domain.ErrCheckoutSource, op)
	}

	var (
		order  *domain.Order
		source *checkoutSource
	)
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		var err error
		if params.CartID != nil {
			source, err = s.registeredSource(ctx, q, params, op)
		} else {
			source, err = s.guestSource(ctx, q, params, op)
		}
		if err != nil {
			return err
		}
		if len(source.lines) == 0 {
			return domain.WithOp(domain.ErrCartEmpty, op)
		}

		email, err := s.recipient(ctx, q, params, op)
		if err != nil {
			return err
		}

		items := toLineItems(source.lines)
		total, _ := domain.Totals(items)
		if !params.Total.IsZero() && !params.Total.Equal(total) {
			s.log(ctx).Warn().
				Str("client_total", params.Total.StringFixed(2)).
				Str("computed_total", total.StringFixed(2)).
				Msg("checkout total mismatch, using computed total")
			s.Metrics.RecordTotalMismatch()
		}

		row, err := q.CreateOrder(ctx, repository.CreateOrderParams{
			UserID:      params.UserID,
			CartID:      source.cartID,
			GuestCartID: source.guestCartID,
			Email:       email,
			Status:      string(domain.OrderStatusPending),
			Total:       total,
		})
		if err != nil {
			return fail(err, nil, op)
		}

		for _, l := range source.lines {
			if _, err := q.CreateOrderItem(ctx, repository.CreateOrderItemParams{
				OrderID:   row.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			}); err != nil {
				return fail(err, nil, op)
			}
		}

		removed, err := source.clear(ctx, q)
		if err != nil {
			return fail(err, nil, op)
		}
		if err := consumed(removed, len(source.lines), op); err != nil {
			return err
		}

		order = toOrder(row)
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}

	_, units := domain.Totals(order.Items)
	s.Metrics.RecordOrder(source.kind, order.Total, units)

	s.log(ctx).Info().
		Str("order_id", order.PublicID.String()).
		Str("source", source.kind).
		Str("total", order.Total.StringFixed(2)).
		Msg("order created")

	s.notify(ctx, domain.Notification{
		To:       order.Email,
		Template: domain.TemplateOrderConfirmation,
		Context:  orderContext(order),
	})
	return order, nil
}

func (s *checkoutService) registeredSource(ctx context.Context, q repository.Querier, params domain.CheckoutParams, op string) (*checkoutSource, error) {
	if params.UserID == nil {
		return nil, domain.WithOp(domain.ErrAuthRequired, op)
	}
	cart, err := q.GetCartByPublicIDForUpdate(ctx, *params.CartID)
	if err != nil {
		return nil, fail(err, domain.ErrCartNotFound, op)
	}
	if cart.UserID != *params.UserID || cart.Status != string(domain.CartStatusActive) {
		return nil, domain.WithOp(domain.ErrCartNotFound, op)
	}
	lines, err := q.ListCartItems(ctx, cart.ID)
	if err != nil {
		return nil, fail(err, nil, op)
	}
	return &checkoutSource{
		kind:   "user",
		cartID: &cart.ID,
		lines:  lines,
		clear: func(ctx context.Context, q repository.Querier) (int64, error) {
			return q.ClearCartItems(ctx, cart.ID)
		},
	}, nil
}

func (s *checkoutService) guestSource(ctx context.Context, q repository.Querier, params domain.CheckoutParams, op string) (*checkoutSource, error) {
	cart, err := q.GetGuestCartByPublicIDForUpdate(ctx, *params.GuestCartID)
	if err != nil {
		return nil, fail(err, domain.ErrGuestCartNotFound, op)
	}
	if toGuestCart(cart).Expired(s.now()) {
		return nil, domain.WithOp(domain.ErrGuestCartNotFound, op)
	}
	if params.GuestToken != cart.Token {
		return nil, domain.WithOp(domain.ErrGuestTokenMismatch, op)
	}
	lines, err := q.ListGuestCartItems(ctx, cart.ID)
	if err != nil {
		return nil, fail(err, nil, op)
	}
	return &checkoutSource{
		kind:        "guest",
		guestCartID: &cart.ID,
		lines:       lines,
		clear: func(ctx context.Context, q repository.Querier) (int64, error) {
			n, err := q.DeleteGuestCartItems(ctx, cart.ID)
			if err != nil {
				return 0, err
			}
			carts, err := q.DeleteGuestCart(ctx, cart.ID)
			if err != nil {
				return 0, err
			}
			if carts == 0 {
				return 0, nil
			}
			return n, nil
		},
	}, nil
}

// consumed checks that the delete removed exactly the snapshotted lines.
// Fewer means another transaction consumed the cart first; more means lines
// were added after the snapshot. Either way the transaction must roll back.
func consumed(removed int64, snapshot int, op string) error {
	switch {
	case removed < int64(snapshot):
		return domain.WithOp(domain.ErrCartEmpty, op)
	case removed > int64(snapshot):
		return domain.WithOp(domain.ErrCartChanged, op)
	}
	return nil
}

// recipient is the address the confirmation goes to: the supplied email, or
// the account email for a signed-in customer.
func (s *checkoutService) recipient(ctx context.Context, q repository.Querier, params domain.CheckoutParams, op string) (string, error) {
	if email := strings.ToLower(strings.TrimSpace(params.Email)); email != "" {
		return email, nil
	}
	if params.UserID == nil {
		return "", domain.NewValidationError(op, "email", "email is required for guest checkout")
	}
	u, err := q.GetUserByID(ctx, *params.UserID)
	if err != nil {
		return "", fail(err, domain.ErrUserNotFound, op)
	}
	return u.Email, nil
}

// orderContext is the template context shared by every order notification.
func orderContext(o *domain.Order) map[string]any {
	items := make([]map[string]any, len(o.Items))
	for i, it := range o.Items {
		items[i] = map[string]any{
			"name":      it.ProductName,
			"quantity":  it.Quantity,
			"unitPrice": it.UnitPrice.StringFixed(2),
			"lineTotal": it.LineTotal.StringFixed(2),
		}
	}
	return map[string]any{
		"orderId": o.PublicID.String(),
		"status":  string(o.Status),
		"total":   o.Total.StringFixed(2),
		"items":   items,
	}
}
