package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

// CartService manages the single active cart of a registered user.
// Every read returns the cart with its items and a total computed on read.
type CartService interface {
	GetOrCreate(ctx context.Context, userID int64) (*domain.CartSummary, error)
	AddItem(ctx context.Context, userID int64, productID uuid.UUID, quantity int32) (*domain.CartSummary, error)
	UpdateItemQuantity(ctx context.Context, userID int64, productID uuid.UUID, quantity int32) (*domain.CartSummary, error)
	RemoveItem(ctx context.Context, userID int64, productID uuid.UUID) (*domain.CartSummary, error)
	Clear(ctx context.Context, userID int64) (*domain.CartSummary, error)
}

type cartService struct {
	Deps
	lines cartLines
}

func NewCartService(deps Deps) CartService {
	return &cartService{Deps: deps, lines: userLines{}}
}

func (s *cartService) GetOrCreate(ctx context.Context, userID int64) (*domain.CartSummary, error) {
	const op = "cart.get_or_create"

	var summary *domain.CartSummary
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		cart, err := s.activeCart(ctx, q, userID, op)
		if err != nil {
			return err
		}
		summary, err = cartSummary(ctx, q, cart)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return summary, nil
}

func (s *cartService) AddItem(ctx context.Context, userID int64, productID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	const op = "cart.add_item"
	if !validQuantity(quantity) {
		return nil, domain.WithOp(domain.ErrInvalidQuantity, op)
	}

	var summary *domain.CartSummary
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		product, err := purchasable(ctx, q, productID, op)
		if err != nil {
			return err
		}
		cart, err := s.activeCart(ctx, q, userID, op)
		if err != nil {
			return err
		}
		if err := addLine(ctx, q, s.lines, cart.ID, product, quantity, op); err != nil {
			return err
		}
		summary, err = cartSummary(ctx, q, cart)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}

	s.Metrics.RecordItemAdded(s.lines.kind())
	return summary, nil
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, userID int64, productID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	const op = "cart.update_item_quantity"
	if !validQuantity(quantity) {
		return nil, domain.WithOp(domain.ErrInvalidQuantity, op)
	}

	var summary *domain.CartSummary
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		cart, err := s.existingCart(ctx, q, userID, op)
		if err != nil {
			return err
		}
		product, err := purchasable(ctx, q, productID, op)
		if err != nil {
			return err
		}
		if err := setLineQuantity(ctx, q, s.lines, cart.ID, product, quantity, op); err != nil {
			return err
		}
		summary, err = cartSummary(ctx, q, cart)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return summary, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID int64, productID uuid.UUID) (*domain.CartSummary, error) {
	const op = "cart.remove_item"

	var summary *domain.CartSummary
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		cart, err := s.existingCart(ctx, q, userID, op)
		if err != nil {
			return err
		}
		if err := removeLine(ctx, q, s.lines, cart.ID, productID, op); err != nil {
			return err
		}
		summary, err = cartSummary(ctx, q, cart)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return summary, nil
}

func (s *cartService) Clear(ctx context.Context, userID int64) (*domain.CartSummary, error) {
	const op = "cart.clear"

	var summary *domain.CartSummary
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		cart, err := s.activeCart(ctx, q, userID, op)
		if err != nil {
			return err
		}
		if _, err := q.ClearCartItems(ctx, cart.ID); err != nil {
			return fail(err, nil, op)
		}
		summary, err = cartSummary(ctx, q, cart)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}

	s.Metrics.RecordCartCleared(s.lines.kind())
	return summary, nil
}

// activeCart returns the user's active cart, creating it if absent.
func (s *cartService) activeCart(ctx context.Context, q repository.Querier, userID int64, op string) (repository.Cart, error) {
	cart, err := q.GetActiveCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !repository.IsNotFound(err) {
		return cart, fail(err, nil, op)
	}

	if _, err := q.GetUserByID(ctx, userID); err != nil {
		return cart, fail(err, domain.ErrUserNotFound, op)
	}
	cart, err = q.CreateCart(ctx, userID)
	if err != nil {
		return cart, fail(err, nil, op)
	}
	s.Metrics.RecordCartCreated(s.lines.kind())
	return cart, nil
}

// existingCart is used by mutations that require an item to be present.
func (s *cartService) existingCart(ctx context.Context, q repository.Querier, userID int64, op string) (repository.Cart, error) {
	cart, err := q.GetActiveCartByUserID(ctx, userID)
	if err != nil {
		return cart, fail(err, domain.ErrCartItemNotFound, op)
	}
	return cart, nil
}

func cartSummary(ctx context.Context, q repository.Querier, cart repository.Cart) (*domain.CartSummary, error) {
	lines, err := q.ListCartItems(ctx, cart.ID)
	if err != nil {
		return nil, fail(err, nil, "cart.summary")
	}
	summary := summarize(toLineItems(lines))
	summary.Cart = toCart(cart)
	return summary, nil
}
