package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/auth"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

// GuestCartService manages token-identified carts for anonymous visitors.
// An expired guest cart is treated as absent.
type GuestCartService interface {
	Create(ctx context.Context, client domain.ClientContext) (*domain.CartSummary, error)
	GetByToken(ctx context.Context, token string) (*domain.CartSummary, error)

	// AddItem creates the cart on demand when token is empty, unknown or
	// expired. The token in use is returned in the summary's GuestCart.
	AddItem(ctx context.Context, token string, productID uuid.UUID, quantity int32, client domain.ClientContext) (*domain.CartSummary, error)

	UpdateItemQuantity(ctx context.Context, token string, productID uuid.UUID, quantity int32) (*domain.CartSummary, error)
	RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*domain.CartSummary, error)

	// Clear hard-deletes the guest cart.
	Clear(ctx context.Context, token string) error
}

type guestCartService struct {
	Deps
	lines    cartLines
	newToken func() (string, error)
}

func NewGuestCartService(deps Deps) GuestCartService {
	return &guestCartService{Deps: deps, lines: guestLines{}, newToken: auth.NewToken}
}

func (s *guestCartService) Create(ctx context.Context, client domain.ClientContext) (*domain.CartSummary, error) {
	const op = "guest_cart.create"

	var summary *domain.CartSummary
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		cart, err := s.create(ctx, q, client, op)
		if err != nil {
			return err
		}
		summary = &domain.CartSummary{GuestCart: toGuestCart(cart), Items: []domain.LineItem{}}
		return nil
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return summary, nil
}

func (s *guestCartService) GetByToken(ctx context.Context, token string) (*domain.CartSummary, error) {
	const op = "guest_cart.get"

	cart, err := s.find(ctx, s.Store, token, op)
	if err != nil {
		return nil, err
	}
	return guestSummary(ctx, s.Store, cart)
}

func (s *guestCartService) AddItem(ctx context.Context, token string, productID uuid.UUID, quantity int32, client domain.ClientContext) (*domain.CartSummary, error) {
	const op = "guest_cart.add_item"
	if !validQuantity(quantity) {
		return nil, domain.WithOp(domain.ErrInvalidQuantity, op)
	}

	var summary *domain.CartSummary
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		product, err := purchasable(ctx, q, productID, op)
		if err != nil {
			return err
		}

		cart, err := s.find(ctx, q, token, op)
		if domain.IsCode(err, domain.ENOTFOUND) {
			cart, err = s.create(ctx, q, client, op)
		}
		if err != nil {
			return err
		}

		before, err := q.ListGuestCartItems(ctx, cart.ID)
		if err != nil {
			return fail(err, nil, op)
		}
		if err := addLine(ctx, q, s.lines, cart.ID, product, quantity, op); err != nil {
			return err
		}
		if len(before) == 0 {
			cart.ExpiresAt = s.now().Add(s.guestCartActiveTTL())
			if err := q.UpdateGuestCartExpiry(ctx, repository.UpdateGuestCartExpiryParams{
				ID:        cart.ID,
				ExpiresAt: cart.ExpiresAt,
			}); err != nil {
				return fail(err, nil, op)
			}
		}

		summary, err = guestSummary(ctx, q, cart)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}

	s.Metrics.RecordItemAdded(s.lines.kind())
	return summary, nil
}

func (s *guestCartService) UpdateItemQuantity(ctx context.Context, token string, productID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	const op = "guest_cart.update_item_quantity"
	if !validQuantity(quantity) {
		return nil, domain.WithOp(domain.ErrInvalidQuantity, op)
	}

	var summary *domain.CartSummary
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		cart, err := s.find(ctx, q, token, op)
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
		summary, err = guestSummary(ctx, q, cart)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return summary, nil
}

func (s *guestCartService) RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*domain.CartSummary, error) {
	const op = "guest_cart.remove_item"

	var summary *domain.CartSummary
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		cart, err := s.find(ctx, q, token, op)
		if err != nil {
			return err
		}
		if err := removeLine(ctx, q, s.lines, cart.ID, productID, op); err != nil {
			return err
		}
		summary, err = guestSummary(ctx, q, cart)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return summary, nil
}

func (s *guestCartService) Clear(ctx context.Context, token string) error {
	const op = "guest_cart.clear"

	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		cart, err := s.find(ctx, q, token, op)
		if err != nil {
			return err
		}
		if _, err := q.DeleteGuestCartItems(ctx, cart.ID); err != nil {
			return fail(err, nil, op)
		}
		if _, err := q.DeleteGuestCart(ctx, cart.ID); err != nil {
			return fail(err, nil, op)
		}
		return nil
	})
	if err != nil {
		return keepDomain(err, op)
	}

	s.Metrics.RecordCartCleared(s.lines.kind())
	return nil
}

func (s *guestCartService) create(ctx context.Context, q repository.Querier, client domain.ClientContext, op string) (repository.GuestCart, error) {
	token, err := s.newToken()
	if err != nil {
		return repository.GuestCart{}, domain.Internal(err, op, "failed to generate guest token")
	}
	cart, err := q.CreateGuestCart(ctx, repository.CreateGuestCartParams{
		Token:     token,
		ExpiresAt: s.now().Add(s.guestCartTTL()),
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	})
	if err != nil {
		return cart, fail(err, nil, op)
	}
	s.Metrics.RecordCartCreated(s.lines.kind())
	return cart, nil
}

// find returns ErrGuestCartNotFound for an empty, unknown or expired token.
func (s *guestCartService) find(ctx context.Context, q repository.Querier, token, op string) (repository.GuestCart, error) {
	if token == "" {
		return repository.GuestCart{}, domain.WithOp(domain.ErrGuestCartNotFound, op)
	}
	cart, err := q.GetGuestCartByToken(ctx, token)
	if err != nil {
		return cart, fail(err, domain.ErrGuestCartNotFound, op)
	}
	if toGuestCart(cart).Expired(s.now()) {
		return cart, domain.WithOp(domain.ErrGuestCartNotFound, op)
	}
	return cart, nil
}

func guestSummary(ctx context.Context, q repository.Querier, cart repository.GuestCart) (*domain.CartSummary, error) {
	lines, err := q.ListGuestCartItems(ctx, cart.ID)
	if err != nil {
		return nil, fail(err, nil, "guest_cart.summary")
	}
	summary := summarize(toLineItems(lines))
	summary.GuestCart = toGuestCart(cart)
	return summary, nil
}
