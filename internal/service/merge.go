package service

import (
	"context"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
	"github.com/dukerupert/shopery/internal/telemetry"
)

// CartMerger folds a guest cart into a user's active cart.
type CartMerger interface {
	// MergeGuestCart returns nil, nil when there is nothing to merge: the
	// guest cart is missing, expired or empty, or the user does not exist.
	// Otherwise the guest cart is consumed and the user's cart is returned.
	MergeGuestCart(ctx context.Context, token string, userID int64) (*domain.CartSummary, error)

	// MergeBestEffort runs MergeGuestCart and swallows its error after
	// logging, counting and capturing it. ok is false when the merge failed
	// and the guest cart is still in place.
	MergeBestEffort(ctx context.Context, token string, userID int64) (summary *domain.CartSummary, ok bool)
}

type cartMerger struct {
	Deps
	carts *cartService
}

func NewCartMerger(deps Deps) CartMerger {
	return &cartMerger{Deps: deps, carts: &cartService{Deps: deps, lines: userLines{}}}
}

func (m *cartMerger) MergeGuestCart(ctx context.Context, token string, userID int64) (*domain.CartSummary, error) {
	const op = "cart.merge"
	if token == "" {
		return nil, nil
	}

	var summary *domain.CartSummary
	err := m.Store.ExecTx(ctx, func(q repository.Querier) error {
		guest, err := q.GetGuestCartByTokenForUpdate(ctx, token)
		if repository.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return fail(err, nil, op)
		}
		if toGuestCart(guest).Expired(m.now()) {
			return nil
		}

		guestItems, err := q.ListGuestCartItems(ctx, guest.ID)
		if err != nil {
			return fail(err, nil, op)
		}
		if len(guestItems) == 0 {
			return nil
		}

		if _, err := q.GetUserByID(ctx, userID); err != nil {
			if repository.IsNotFound(err) {
				return nil
			}
			return fail(err, nil, op)
		}

		cart, err := m.carts.activeCart(ctx, q, userID, op)
		if err != nil {
			return err
		}

		for _, gi := range guestItems {
			existing, err := q.GetCartItem(ctx, repository.GetCartItemParams{CartID: cart.ID, ProductID: gi.ProductID})
			switch {
			case err == nil:
				_, err = q.UpdateCartItemQuantity(ctx, repository.UpdateCartItemQuantityParams{
					ID:       existing.ID,
					Quantity: existing.Quantity + gi.Quantity,
				})
			case repository.IsNotFound(err):
				_, err = q.CreateCartItem(ctx, repository.CreateCartItemParams{
					CartID:    cart.ID,
					ProductID: gi.ProductID,
					Quantity:  gi.Quantity,
					UnitPrice: gi.UnitPrice,
				})
			}
			if err != nil {
				return fail(err, nil, op)
			}
		}

		removed, err := q.DeleteGuestCartItems(ctx, guest.ID)
		if err != nil {
			return fail(err, nil, op)
		}
		carts, err := q.DeleteGuestCart(ctx, guest.ID)
		if err != nil {
			return fail(err, nil, op)
		}
		if carts == 0 {
			removed = 0
		}
		if err := consumed(removed, len(guestItems), op); err != nil {
			return err
		}

		summary, err = cartSummary(ctx, q, cart)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	if summary != nil {
		m.Metrics.RecordMerge(nil)
	}
	return summary, nil
}

func (m *cartMerger) MergeBestEffort(ctx context.Context, token string, userID int64) (*domain.CartSummary, bool) {
	summary, err := m.MergeGuestCart(ctx, token, userID)
	if err != nil {
		m.Metrics.RecordMerge(err)
		m.log(ctx).Error().Err(err).
			Int64("user_id", userID).
			Str("op", domain.ErrorOp(err)).
			Msg("guest cart merge failed")
		telemetry.CaptureErrorFromContext(ctx, err, map[string]any{"user_id": userID})
		return nil, false
	}
	return summary, true
}
