package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

// cartLines abstracts the item table of a registered or guest cart so that
// the add, update and remove rules are written once.
type cartLines interface {
	kind() string
	get(ctx context.Context, q repository.Querier, cartID, productID int64) (repository.CartItem, error)
	create(ctx context.Context, q repository.Querier, arg repository.CreateCartItemParams) (repository.CartItem, error)
	update(ctx context.Context, q repository.Querier, arg repository.UpdateCartItemQuantityParams) (repository.CartItem, error)
	remove(ctx context.Context, q repository.Querier, id int64) error
	list(ctx context.Context, q repository.Querier, cartID int64) ([]repository.CartLine, error)
}

type userLines struct{}

func (userLines) kind() string { return "user" }

func (userLines) get(ctx context.Context, q repository.Querier, cartID, productID int64) (repository.CartItem, error) {
	return q.GetCartItem(ctx, repository.GetCartItemParams{CartID: cartID, ProductID: productID})
}

func (userLines) create(ctx context.Context, q repository.Querier, arg repository.CreateCartItemParams) (repository.CartItem, error) {
	return q.CreateCartItem(ctx, arg)
}

func (userLines) update(ctx context.Context, q repository.Querier, arg repository.UpdateCartItemQuantityParams) (repository.CartItem, error) {
	return q.UpdateCartItemQuantity(ctx, arg)
}

func (userLines) remove(ctx context.Context, q repository.Querier, id int64) error {
	return q.DeleteCartItem(ctx, id)
}

func (userLines) list(ctx context.Context, q repository.Querier, cartID int64) ([]repository.CartLine, error) {
	return q.ListCartItems(ctx, cartID)
}

type guestLines struct{}

func (guestLines) kind() string { return "guest" }

func (guestLines) get(ctx context.Context, q repository.Querier, cartID, productID int64) (repository.CartItem, error) {
	return q.GetGuestCartItem(ctx, repository.GetCartItemParams{CartID: cartID, ProductID: productID})
}

func (guestLines) create(ctx context.Context, q repository.Querier, arg repository.CreateCartItemParams) (repository.CartItem, error) {
	return q.CreateGuestCartItem(ctx, arg)
}

func (guestLines) update(ctx context.Context, q repository.Querier, arg repository.UpdateCartItemQuantityParams) (repository.CartItem, error) {
	return q.UpdateGuestCartItemQuantity(ctx, arg)
}

func (guestLines) remove(ctx context.Context, q repository.Querier, id int64) error {
	return q.DeleteGuestCartItem(ctx, id)
}

func (guestLines) list(ctx context.Context, q repository.Querier, cartID int64) ([]repository.CartLine, error) {
	return q.ListGuestCartItems(ctx, cartID)
}

// purchasable loads a product that may be put in a cart.
func purchasable(ctx context.Context, q repository.Querier, productID uuid.UUID, op string) (repository.Product, error) {
	p, err := q.GetProductByPublicID(ctx, productID)
	if err != nil {
		return p, fail(err, domain.ErrProductNotFound, op)
	}
	if !p.IsActive {
		return p, domain.WithOp(domain.ErrProductInactive, op)
	}
	return p, nil
}

func checkStock(p repository.Product, want int32, op string) error {
	if p.StockQuantity < want {
		return domain.InsufficientStock(op, p.Name, p.StockQuantity, want)
	}
	return nil
}

// addLine adds qty of product to the cart: an existing line is incremented,
// otherwise a new line captures the product's current effective price.
func addLine(ctx context.Context, q repository.Querier, lines cartLines, cartID int64, p repository.Product, qty int32, op string) error {
	existing, err := lines.get(ctx, q, cartID, p.ID)
	switch {
	case err == nil:
		if err := checkStock(p, existing.Quantity+qty, op); err != nil {
			return err
		}
		_, err = lines.update(ctx, q, repository.UpdateCartItemQuantityParams{
			ID:       existing.ID,
			Quantity: existing.Quantity + qty,
		})
		if err != nil {
			return fail(err, nil, op)
		}
		return nil
	case repository.IsNotFound(err):
		if err := checkStock(p, qty, op); err != nil {
			return err
		}
		_, err = lines.create(ctx, q, repository.CreateCartItemParams{
			CartID:    cartID,
			ProductID: p.ID,
			Quantity:  qty,
			UnitPrice: toProduct(p).EffectivePrice(),
		})
		if err != nil {
			return fail(err, nil, op)
		}
		return nil
	default:
		return fail(err, nil, op)
	}
}

// setLineQuantity replaces the quantity of an existing line.
func setLineQuantity(ctx context.Context, q repository.Querier, lines cartLines, cartID int64, p repository.Product, qty int32, op string) error {
	existing, err := lines.get(ctx, q, cartID, p.ID)
	if err != nil {
		return fail(err, domain.ErrCartItemNotFound, op)
	}
	if err := checkStock(p, qty, op); err != nil {
		return err
	}
	if _, err := lines.update(ctx, q, repository.UpdateCartItemQuantityParams{ID: existing.ID, Quantity: qty}); err != nil {
		return fail(err, nil, op)
	}
	return nil
}

// removeLine deletes the line for productID. The product itself may have been
// deactivated since it was added, so only its existence is checked.
func removeLine(ctx context.Context, q repository.Querier, lines cartLines, cartID int64, productID uuid.UUID, op string) error {
	p, err := q.GetProductByPublicID(ctx, productID)
	if err != nil {
		return fail(err, domain.ErrCartItemNotFound, op)
	}
	existing, err := lines.get(ctx, q, cartID, p.ID)
	if err != nil {
		return fail(err, domain.ErrCartItemNotFound, op)
	}
	if err := lines.remove(ctx, q, existing.ID); err != nil {
		return fail(err, nil, op)
	}
	return nil
}
