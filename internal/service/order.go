package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/repository"
)

// OrderService reads orders and drives their status after checkout.
type OrderService interface {
	// Get returns the order with its lines. A non-nil userID restricts the
	// lookup to that customer's orders.
	Get(ctx context.Context, orderID uuid.UUID, userID *int64) (*domain.Order, error)

	ListForUser(ctx context.Context, userID int64, params pagination.Params) (pagination.Page[domain.Order], error)

	// List is the admin listing; an empty status matches every order.
	List(ctx context.Context, params pagination.PageParams, status domain.OrderStatus) ([]domain.Order, pagination.PageInfo, error)

	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error)

	// Cancel refuses orders that are shipped or delivered. A non-nil userID
	// restricts the lookup to that customer's orders.
	Cancel(ctx context.Context, orderID uuid.UUID, userID *int64) (*domain.Order, error)
}

type orderService struct {
	Deps
}

func NewOrderService(deps Deps) OrderService {
	return &orderService{Deps: deps}
}

func (s *orderService) Get(ctx context.Context, orderID uuid.UUID, userID *int64) (*domain.Order, error) {
	const op = "order.get"

	row, err := s.load(ctx, s.Store, orderID, userID, op)
	if err != nil {
		return nil, err
	}
	return withItems(ctx, s.Store, row, op)
}

func (s *orderService) ListForUser(ctx context.Context, userID int64, params pagination.Params) (pagination.Page[domain.Order], error) {
	const op = "order.list_for_user"

	cp, params, err := cursorParams(params)
	if err != nil {
		return pagination.Page[domain.Order]{}, domain.WithOp(err, op)
	}
	rows, err := s.Store.ListOrdersByUserCursor(ctx, repository.ListOrdersByUserParams{
		CursorParams: cp,
		UserID:       userID,
	})
	if err != nil {
		return pagination.Page[domain.Order]{}, fail(err, nil, op)
	}

	page := pagination.Paginate(rows, params, func(o repository.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.PublicID}
	})
	return pagination.Map(page, func(o repository.Order) domain.Order { return *toOrder(o) }), nil
}

func (s *orderService) List(ctx context.Context, params pagination.PageParams, status domain.OrderStatus) ([]domain.Order, pagination.PageInfo, error) {
	const op = "order.list"

	if status != "" && !status.IsValid() {
		return nil, pagination.PageInfo{}, domain.WithOp(domain.ErrInvalidOrderStatus, op)
	}
	params = params.Normalize()

	total, err := s.Store.CountOrders(ctx, string(status))
	if err != nil {
		return nil, pagination.PageInfo{}, fail(err, nil, op)
	}
	rows, err := s.Store.ListOrdersPage(ctx, repository.ListOrdersPageParams{
		PageParams: repository.PageParams{Limit: int32(params.Limit), Offset: int32(params.Offset())},
		Status:     string(status),
	})
	if err != nil {
		return nil, pagination.PageInfo{}, fail(err, nil, op)
	}

	orders := make([]domain.Order, len(rows))
	for i, r := range rows {
		orders[i] = *toOrder(r)
	}
	return orders, pagination.NewPageInfo(params, total), nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	const op = "order.update_status"

	if !status.IsValid() {
		return nil, domain.WithOp(domain.ErrInvalidOrderStatus, op)
	}

	order, err := s.transition(ctx, orderID, nil, status, op, nil)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, domain.Notification{
		To:       order.Email,
		Template: domain.TemplateOrderStatusChanged,
		Context:  orderContext(order),
	})
	return order, nil
}

func (s *orderService) Cancel(ctx context.Context, orderID uuid.UUID, userID *int64) (*domain.Order, error) {
	const op = "order.cancel"

	order, err := s.transition(ctx, orderID, userID, domain.OrderStatusCancelled, op, func(current domain.OrderStatus) error {
		if !current.CanCancel() {
			return domain.WithOp(domain.ErrOrderNotCancelable, op)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, domain.Notification{
		To:       order.Email,
		Template: domain.TemplateOrderCancelled,
		Context:  orderContext(order),
	})
	return order, nil
}

// transition loads the order, applies guard to its current status and
// persists the new one.
func (s *orderService) transition(ctx context.Context, orderID uuid.UUID, userID *int64, status domain.OrderStatus, op string, guard func(domain.OrderStatus) error) (*domain.Order, error) {
	var (
		order    *domain.Order
		previous domain.OrderStatus
	)
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		row, err := s.load(ctx, q, orderID, userID, op)
		if err != nil {
			return err
		}
		previous = domain.OrderStatus(row.Status)
		if guard != nil {
			if err := guard(previous); err != nil {
				return err
			}
		}

		row, err = q.UpdateOrderStatus(ctx, repository.UpdateOrderStatusParams{ID: row.ID, Status: string(status)})
		if err != nil {
			return fail(err, domain.ErrOrderNotFound, op)
		}
		order, err = withItems(ctx, q, row, op)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}

	s.Metrics.RecordStatusChange(string(status))
	s.log(ctx).Info().
		Str("order_id", order.PublicID.String()).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("order status changed")
	return order, nil
}

func (s *orderService) load(ctx context.Context, q repository.Querier, orderID uuid.UUID, userID *int64, op string) (repository.Order, error) {
	row, err := q.GetOrderByPublicID(ctx, orderID)
	if err != nil {
		return row, fail(err, domain.ErrOrderNotFound, op)
	}
	if userID != nil && (row.UserID == nil || *row.UserID != *userID) {
		return row, domain.WithOp(domain.ErrOrderNotFound, op)
	}
	return row, nil
}

func withItems(ctx context.Context, q repository.Querier, row repository.Order, op string) (*domain.Order, error) {
	lines, err := q.ListOrderItems(ctx, row.ID)
	if err != nil {
		return nil, fail(err, nil, op)
	}
	order := toOrder(row)
	order.Items = toLineItems(lines)
	domain.Totals(order.Items)
	return order, nil
}
