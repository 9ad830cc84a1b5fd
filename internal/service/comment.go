package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/repository"
)

// CommentService manages product discussion threads. Threads are one level
// deep: a reply to a reply is attached to the top-level comment.
type CommentService interface {
	Create(ctx context.Context, userID int64, params CreateCommentParams) (*domain.Comment, error)

	// ListForProduct pages top-level comments, each with its replies.
	ListForProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (pagination.Page[domain.Comment], error)

	// Delete soft-deletes the comment. Only its author or an admin may do so.
	Delete(ctx context.Context, commentID uuid.UUID, userID int64, isAdmin bool) error

	// React records the user's like or dislike, replacing any earlier one.
	React(ctx context.Context, commentID uuid.UUID, userID int64, kind domain.ReactionKind) error

	UpdateBody(ctx context.Context, commentID uuid.UUID, body string) (*domain.Comment, error)
}

type CreateCommentParams struct {
	ProductID uuid.UUID
	ParentID  *uuid.UUID
	Body      string
}

type commentService struct {
	Deps
}

func NewCommentService(deps Deps) CommentService {
	return &commentService{Deps: deps}
}

func (s *commentService) Create(ctx context.Context, userID int64, params CreateCommentParams) (*domain.Comment, error) {
	const op = "comment.create"

	body := strings.TrimSpace(params.Body)
	if body == "" {
		return nil, domain.NewValidationError(op, "body", "body is required")
	}

	user, err := s.Store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fail(err, domain.ErrUserNotFound, op)
	}
	product, err := s.Store.GetProductByPublicID(ctx, params.ProductID)
	if err != nil {
		return nil, fail(err, domain.ErrProductNotFound, op)
	}

	var parent *repository.Comment
	if params.ParentID != nil {
		p, err := s.parent(ctx, *params.ParentID, product.ID, op)
		if err != nil {
			return nil, err
		}
		parent = &p
	}

	arg := repository.CreateCommentParams{
		ProductID: product.ID,
		UserID:    userID,
		Body:      body,
	}
	if parent != nil {
		arg.ParentID = &parent.ID
	}
	row, err := s.Store.CreateComment(ctx, arg)
	if err != nil {
		return nil, fail(err, nil, op)
	}

	s.Metrics.RecordComment()
	c := toComment(repository.CommentRow{Comment: row, UserPublicID: user.PublicID, UserFirstName: user.FirstName}, product.PublicID)
	if parent != nil {
		c.ParentID = &parent.PublicID
	}
	return c, nil
}

// parent resolves the comment a reply attaches to, climbing to the top-level
// comment when id is itself a reply.
func (s *commentService) parent(ctx context.Context, id uuid.UUID, productID int64, op string) (repository.Comment, error) {
	p, err := s.Store.GetCommentByPublicID(ctx, id)
	if err != nil {
		return p, fail(err, domain.ErrCommentNotFound, op)
	}
	if p.IsDeleted {
		return p, domain.WithOp(domain.ErrCommentNotFound, op)
	}
	if p.ProductID != productID {
		return p, domain.WithOp(domain.ErrParentMismatch, op)
	}
	if p.ParentID == nil {
		return p, nil
	}

	root, err := s.Store.GetCommentByID(ctx, *p.ParentID)
	if err != nil {
		return root, fail(err, domain.ErrCommentNotFound, op)
	}
	if root.IsDeleted {
		return root, domain.WithOp(domain.ErrCommentNotFound, op)
	}
	return root, nil
}

func (s *commentService) ListForProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (pagination.Page[domain.Comment], error) {
	const op = "comment.list_for_product"

	cp, params, err := cursorParams(params)
	if err != nil {
		return pagination.Page[domain.Comment]{}, domain.WithOp(err, op)
	}
	product, err := s.Store.GetProductByPublicID(ctx, productID)
	if err != nil {
		return pagination.Page[domain.Comment]{}, fail(err, domain.ErrProductNotFound, op)
	}

	rows, err := s.Store.ListTopLevelCommentsCursor(ctx, repository.ListByProductParams{CursorParams: cp, ProductID: product.ID})
	if err != nil {
		return pagination.Page[domain.Comment]{}, fail(err, nil, op)
	}
	page := pagination.Paginate(rows, params, func(c repository.CommentRow) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.PublicID}
	})

	out := pagination.Map(page, func(c repository.CommentRow) domain.Comment { return *toComment(c, product.PublicID) })
	if len(page.Data) == 0 {
		return out, nil
	}

	ids := make([]int64, len(page.Data))
	index := make(map[int64]int, len(page.Data))
	for i, c := range page.Data {
		ids[i] = c.ID
		index[c.ID] = i
	}
	replies, err := s.Store.ListRepliesForComments(ctx, ids)
	if err != nil {
		return pagination.Page[domain.Comment]{}, fail(err, nil, op)
	}
	for _, r := range replies {
		if r.ParentID == nil {
			continue
		}
		i, ok := index[*r.ParentID]
		if !ok {
			continue
		}
		reply := toComment(r, product.PublicID)
		reply.ParentID = &out.Data[i].PublicID
		out.Data[i].Replies = append(out.Data[i].Replies, *reply)
	}
	return out, nil
}

func (s *commentService) Delete(ctx context.Context, commentID uuid.UUID, userID int64, isAdmin bool) error {
	const op = "comment.delete"

	c, err := s.live(ctx, commentID, op)
	if err != nil {
		return err
	}
	if c.UserID != userID && !isAdmin {
		return domain.WithOp(domain.ErrCommentForbidden, op)
	}
	if err := s.Store.SoftDeleteComment(ctx, c.ID); err != nil {
		return fail(err, nil, op)
	}
	return nil
}

func (s *commentService) React(ctx context.Context, commentID uuid.UUID, userID int64, kind domain.ReactionKind) error {
	const op = "comment.react"

	if !kind.IsValid() {
		return domain.WithOp(domain.ErrInvalidReaction, op)
	}
	c, err := s.live(ctx, commentID, op)
	if err != nil {
		return err
	}
	if err := s.Store.UpsertCommentReaction(ctx, repository.UpsertCommentReactionParams{
		CommentID: c.ID,
		UserID:    userID,
		Kind:      string(kind),
	}); err != nil {
		return fail(err, nil, op)
	}
	return nil
}

func (s *commentService) UpdateBody(ctx context.Context, commentID uuid.UUID, body string) (*domain.Comment, error) {
	const op = "comment.update_body"

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.NewValidationError(op, "body", "body is required")
	}
	c, err := s.live(ctx, commentID, op)
	if err != nil {
		return nil, err
	}
	row, err := s.Store.UpdateCommentBody(ctx, repository.UpdateCommentBodyParams{ID: c.ID, Body: body})
	if err != nil {
		return nil, fail(err, domain.ErrCommentNotFound, op)
	}
	product, err := s.Store.GetProductByID(ctx, row.ProductID)
	if err != nil {
		return nil, fail(err, domain.ErrProductNotFound, op)
	}
	return toComment(repository.CommentRow{Comment: row}, product.PublicID), nil
}

// live loads a comment that has not been deleted.
func (s *commentService) live(ctx context.Context, id uuid.UUID, op string) (repository.Comment, error) {
	c, err := s.Store.GetCommentByPublicID(ctx, id)
	if err != nil {
		return c, fail(err, domain.ErrCommentNotFound, op)
	}
	if c.IsDeleted {
		return c, domain.WithOp(domain.ErrCommentNotFound, op)
	}
	return c, nil
}

func toComment(c repository.CommentRow, productID uuid.UUID) *domain.Comment {
	out := &domain.Comment{
		ID:        c.ID,
		PublicID:  c.PublicID,
		ProductID: productID,
		Body:      c.Body,
		Likes:     c.Likes,
		Dislikes:  c.Dislikes,
		CreatedAt: c.CreatedAt,
	}
	if c.UserPublicID != uuid.Nil {
		out.Author = &domain.Author{ID: c.UserPublicID, FirstName: c.UserFirstName}
	}
	return out
}
