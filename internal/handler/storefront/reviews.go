package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/service"
)

// ReviewHandler lists approved reviews and accepts new ones.
type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type createReviewRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Rating    int32     `json:"rating" validate:"required,gte=1,lte=5"`
	Title     string    `json:"title" validate:"max=200"`
	Body      string    `json:"body" validate:"required,max=5000"`
}

// List handles GET /api/products/{id}/reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	productID, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	params, err := pagination.ParseParams(r.URL.Query())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	page, err := h.reviewService.ListForProduct(r.Context(), productID, params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.CursorPage(w, "Reviews retrieved", page)
}

// Create handles POST /api/reviews. A second review of the same product by
// the same user is a 409.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createReviewRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	review, err := h.reviewService.Create(r.Context(), user.ID, service.CreateReviewParams{
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Title:     req.Title,
		Body:      req.Body,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Created(w, "Review submitted", review)
}

// CommentHandler serves threaded product comments and reactions.
type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type createCommentRequest struct {
	ProductID uuid.UUID  `json:"productId" validate:"required"`
	ParentID  *uuid.UUID `json:"parentId"`
	Body      string     `json:"body" validate:"required,max=2000"`
}

type reactionRequest struct {
	Kind domain.ReactionKind `json:"kind" validate:"required,oneof=like dislike"`
}

// List handles GET /api/products/{id}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	productID, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	params, err := pagination.ParseParams(r.URL.Query())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	page, err := h.commentService.ListForProduct(r.Context(), productID, params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.CursorPage(w, "Comments retrieved", page)
}

// Create handles POST /api/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	comment, err := h.commentService.Create(r.Context(), user.ID, service.CreateCommentParams{
		ProductID: req.ProductID,
		ParentID:  req.ParentID,
		Body:      req.Body,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Created(w, "Comment posted", comment)
}

// Delete handles DELETE /api/comments/{id}. Authors delete their own
// comments; admins delete any.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.commentService.Delete(r.Context(), id, user.ID, user.IsAdmin()); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Comment deleted", nil)
}

// React handles POST /api/comments/{id}/reactions
func (h *CommentHandler) React(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req reactionRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.commentService.React(r.Context(), id, user.ID, req.Kind); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Reaction recorded", nil)
}
