package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReactionKind is a like or dislike on a comment.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

func (k ReactionKind) IsValid() bool {
	return k == ReactionLike || k == ReactionDislike
}

var (
	ErrCommentNotFound  = &Error{Code: ENOTFOUND, Message: "Comment not found"}
	ErrParentMismatch   = &Error{Code: EINVALID, Message: "Parent comment belongs to another product"}
	ErrCommentForbidden = &Error{Code: EFORBIDDEN, Message: "Only the author or an admin may delete this comment"}
	ErrInvalidReaction  = &Error{Code: EINVALID, Message: "Reaction must be like or dislike"}
)

type Comment struct {
	ID        int64      `json:"-"`
	PublicID  uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"productId"`
	ParentID  *uuid.UUID `json:"parentId,omitempty"`
	Author    *Author    `json:"author,omitempty"`
	Body      string     `json:"body"`
	Likes     int32      `json:"likes"`
	Dislikes  int32      `json:"dislikes"`
	Replies   []Comment  `json:"replies,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
