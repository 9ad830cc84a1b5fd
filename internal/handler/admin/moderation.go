package admin

import (
	"net/http"

	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/service"
)

// ModerationHandler approves reviews and edits comments.
type ModerationHandler struct {
	reviewService  service.ReviewService
	commentService service.CommentService
}

func NewModerationHandler(reviews service.ReviewService, comments service.CommentService) *ModerationHandler {
	return &ModerationHandler{
		reviewService:  reviews,
		commentService: comments,
	}
}

type approvalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

type commentBodyRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// SetReviewApproval handles PATCH /api/admin/reviews/{id}/approval
func (h *ModerationHandler) SetReviewApproval(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req approvalRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	review, err := h.reviewService.SetApproval(r.Context(), id, *req.Approved)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Review updated", review)
}

// UpdateComment handles PATCH /api/admin/comments/{id}
func (h *ModerationHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req commentBodyRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	comment, err := h.commentService.UpdateBody(r.Context(), id, req.Body)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Comment updated", comment)
}
