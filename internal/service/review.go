package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/repository"
)

// ReviewService manages product reviews and keeps the product's rating
// aggregate in step with its approved reviews.
type ReviewService interface {
	// Create allows one review per user and product; a second attempt is a
	// conflict. New reviews are published immediately.
	Create(ctx context.Context, userID int64, params CreateReviewParams) (*domain.Review, error)

	ListForProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (pagination.Page[domain.Review], error)

	SetApproval(ctx context.Context, reviewID uuid.UUID, approved bool) (*domain.Review, error)
}

type CreateReviewParams struct {
	ProductID uuid.UUID
	Rating    int32
	Title     string
	Body      string
}

const (
	MinRating = 1
	MaxRating = 5
)

type reviewService struct {
	Deps
}

func NewReviewService(deps Deps) ReviewService {
	return &reviewService{Deps: deps}
}

func (s *reviewService) Create(ctx context.Context, userID int64, params CreateReviewParams) (*domain.Review, error) {
	const op = "review.create"

	if params.Rating < MinRating || params.Rating > MaxRating {
		return nil, domain.WithOp(domain.ErrInvalidRating, op)
	}

	var review *domain.Review
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		user, err := q.GetUserByID(ctx, userID)
		if err != nil {
			return fail(err, domain.ErrUserNotFound, op)
		}
		product, err := q.GetProductByPublicID(ctx, params.ProductID)
		if err != nil {
			return fail(err, domain.ErrProductNotFound, op)
		}
		if !product.IsActive {
			return domain.WithOp(domain.ErrProductNotFound, op)
		}

		_, err = q.GetReviewByUserAndProduct(ctx, repository.GetReviewByUserAndProductParams{
			UserID:    userID,
			ProductID: product.ID,
		})
		if err == nil {
			return domain.WithOp(domain.ErrAlreadyReviewed, op)
		}
		if !repository.IsNotFound(err) {
			return fail(err, nil, op)
		}

		row, err := q.CreateReview(ctx, repository.CreateReviewParams{
			ProductID:  product.ID,
			UserID:     userID,
			Rating:     params.Rating,
			Title:      strings.TrimSpace(params.Title),
			Body:       strings.TrimSpace(params.Body),
			IsApproved: true,
		})
		if _, unique := repository.IsUniqueViolation(err); unique {
			return domain.WithOp(domain.ErrAlreadyReviewed, op)
		}
		if err != nil {
			return fail(err, nil, op)
		}

		if err := refreshRating(ctx, q, product.ID, op); err != nil {
			return err
		}

		review = toReview(repository.ReviewRow{
			Review:        row,
			UserPublicID:  user.PublicID,
			UserFirstName: user.FirstName,
		}, product.PublicID)
		return nil
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}

	s.Metrics.RecordReview()
	return review, nil
}

func (s *reviewService) ListForProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (pagination.Page[domain.Review], error) {
	const op = "review.list_for_product"

	cp, params, err := cursorParams(params)
	if err != nil {
		return pagination.Page[domain.Review]{}, domain.WithOp(err, op)
	}
	product, err := s.Store.GetProductByPublicID(ctx, productID)
	if err != nil {
		return pagination.Page[domain.Review]{}, fail(err, domain.ErrProductNotFound, op)
	}

	rows, err := s.Store.ListReviewsCursor(ctx, repository.ListByProductParams{CursorParams: cp, ProductID: product.ID})
	if err != nil {
		return pagination.Page[domain.Review]{}, fail(err, nil, op)
	}

	page := pagination.Paginate(rows, params, func(r repository.ReviewRow) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.PublicID}
	})
	return pagination.Map(page, func(r repository.ReviewRow) domain.Review {
		return *toReview(r, product.PublicID)
	}), nil
}

func (s *reviewService) SetApproval(ctx context.Context, reviewID uuid.UUID, approved bool) (*domain.Review, error) {
	const op = "review.set_approval"

	var review *domain.Review
	err := s.Store.ExecTx(ctx, func(q repository.Querier) error {
		existing, err := q.GetReviewByPublicID(ctx, reviewID)
		if err != nil {
			return fail(err, domain.ErrReviewNotFound, op)
		}
		row, err := q.SetReviewApproval(ctx, repository.SetReviewApprovalParams{ID: existing.ID, IsApproved: approved})
		if err != nil {
			return fail(err, domain.ErrReviewNotFound, op)
		}
		if err := refreshRating(ctx, q, row.ProductID, op); err != nil {
			return err
		}
		product, err := q.GetProductByID(ctx, row.ProductID)
		if err != nil {
			return fail(err, domain.ErrProductNotFound, op)
		}
		review = toReview(repository.ReviewRow{Review: row}, product.PublicID)
		return nil
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}
	return review, nil
}

// refreshRating recomputes the approved-review average and count of a product.
func refreshRating(ctx context.Context, q repository.Querier, productID int64, op string) error {
	stats, err := q.GetProductReviewStats(ctx, productID)
	if err != nil {
		return fail(err, nil, op)
	}
	if err := q.UpdateProductRating(ctx, repository.UpdateProductRatingParams{
		ID:            productID,
		AverageRating: stats.Average,
		ReviewCount:   stats.Count,
	}); err != nil {
		return fail(err, nil, op)
	}
	return nil
}

func toReview(r repository.ReviewRow, productID uuid.UUID) *domain.Review {
	out := &domain.Review{
		ID:         r.ID,
		PublicID:   r.PublicID,
		ProductID:  productID,
		Rating:     r.Rating,
		Title:      r.Title,
		Body:       r.Body,
		IsApproved: r.IsApproved,
		CreatedAt:  r.CreatedAt,
	}
	if r.UserPublicID != uuid.Nil {
		out.Author = &domain.Author{ID: r.UserPublicID, FirstName: r.UserFirstName}
	}
	return out
}
