package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

// WishlistService manages the per-user list of saved products.
type WishlistService interface {
	Get(ctx context.Context, userID int64) (*domain.Wishlist, error)
	Add(ctx context.Context, userID int64, productID uuid.UUID) (*domain.Wishlist, error)
	Remove(ctx context.Context, userID int64, productID uuid.UUID) (*domain.Wishlist, error)
}

type wishlistService struct {
	Deps
}

func NewWishlistService(deps Deps) WishlistService {
	return &wishlistService{Deps: deps}
}

func (s *wishlistService) Get(ctx context.Context, userID int64) (*domain.Wishlist, error) {
	const op = "wishlist.get"

	var out *domain.Wishlist
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		w, err := s.ensure(ctx, q, userID, op)
		if err != nil {
			return err
		}
		out, err = wishlistItems(ctx, q, w, op)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return out, nil
}

func (s *wishlistService) Add(ctx context.Context, userID int64, productID uuid.UUID) (*domain.Wishlist, error) {
	const op = "wishlist.add"

	var out *domain.Wishlist
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		product, err := q.GetProductByPublicID(ctx, productID)
		if err != nil {
			return fail(err, domain.ErrProductNotFound, op)
		}
		w, err := s.ensure(ctx, q, userID, op)
		if err != nil {
			return err
		}

		key := repository.GetWishlistItemParams{WishlistID: w.ID, ProductID: product.ID}
		if _, err := q.GetWishlistItem(ctx, key); err == nil {
			return domain.WithOp(domain.ErrAlreadyWishlisted, op)
		} else if !repository.IsNotFound(err) {
			return fail(err, nil, op)
		}
		if _, err := q.CreateWishlistItem(ctx, key); err != nil {
			if _, unique := repository.IsUniqueViolation(err); unique {
				return domain.WithOp(domain.ErrAlreadyWishlisted, op)
			}
			return fail(err, nil, op)
		}

		out, err = wishlistItems(ctx, q, w, op)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return out, nil
}

func (s *wishlistService) Remove(ctx context.Context, userID int64, productID uuid.UUID) (*domain.Wishlist, error) {
	const op = "wishlist.remove"

	var out *domain.Wishlist
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		w, err := q.GetWishlistByUserID(ctx, userID)
		if err != nil {
			return fail(err, domain.ErrWishlistItemNotFound, op)
		}
		product, err := q.GetProductByPublicID(ctx, productID)
		if err != nil {
			return fail(err, domain.ErrWishlistItemNotFound, op)
		}
		item, err := q.GetWishlistItem(ctx, repository.GetWishlistItemParams{WishlistID: w.ID, ProductID: product.ID})
		if err != nil {
			return fail(err, domain.ErrWishlistItemNotFound, op)
		}
		if err := q.DeleteWishlistItem(ctx, item.ID); err != nil {
			return fail(err, nil, op)
		}
		out, err = wishlistItems(ctx, q, w, op)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return out, nil
}

func (s *wishlistService) ensure(ctx context.Context, q repository.Querier, userID int64, op string) (repository.Wishlist, error) {
	w, err := q.GetWishlistByUserID(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !repository.IsNotFound(err) {
		return w, fail(err, nil, op)
	}
	if _, err := q.GetUserByID(ctx, userID); err != nil {
		return w, fail(err, domain.ErrUserNotFound, op)
	}
	w, err = q.CreateWishlist(ctx, userID)
	if err != nil {
		return w, fail(err, nil, op)
	}
	return w, nil
}

func wishlistItems(ctx context.Context, q repository.Querier, w repository.Wishlist, op string) (*domain.Wishlist, error) {
	rows, err := q.ListWishlistItems(ctx, w.ID)
	if err != nil {
		return nil, fail(err, nil, op)
	}
	out := &domain.Wishlist{PublicID: w.PublicID, Items: make([]domain.WishlistItem, len(rows))}
	for i, r := range rows {
		out.Items[i] = domain.WishlistItem{Product: toProduct(r.Product), AddedAt: r.AddedAt}
	}
	return out, nil
}
