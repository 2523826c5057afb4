package comment

import (
	"time"

	"github.com/google/uuid"
)

// AddRequest creates a comment or a reply.
type AddRequest struct {
	Body     string      `json:"body" binding:"required,max=2000"`
	ParentID *uuid.UUID  `json:"parent_id"`
	Mentions []uuid.UUID `json:"mentions"`
}

// UpdateRequest edits a comment body.
type UpdateRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

// ReactionRequest toggles a reaction.
type ReactionRequest struct {
	Type string `json:"type" binding:"required"`
}

// Response is the API representation of a comment, with replies attached for
// top-level comments.
type Response struct {
	ID        uuid.UUID      `json:"id"`
	VideoID   uuid.UUID      `json:"video_id"`
	AuthorID  uuid.UUID      `json:"author_id"`
	Body      string         `json:"body"`
	ParentID  *uuid.UUID     `json:"parent_id,omitempty"`
	IsEdited  bool           `json:"is_edited"`
	EditedAt  *time.Time     `json:"edited_at,omitempty"`
	Reactions map[string]int `json:"reactions,omitempty"`
	Replies   []*Response    `json:"replies,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toResponse(c *Comment, reactions map[string]int) *Response {
	return &Response{
		ID:        c.ID,
		VideoID:   c.VideoID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		ParentID:  c.ParentID,
		IsEdited:  c.IsEdited,
		EditedAt:  c.EditedAt,
		Reactions: reactions,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// DeletedEvent is the payload of a comment-deleted broadcast. One event
// covers the comment and all of its replies.
type DeletedEvent struct {
	CommentID uuid.UUID  `json:"comment_id"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
}

// ReactionEvent is the payload of a reaction-updated broadcast.
type ReactionEvent struct {
	CommentID uuid.UUID      `json:"comment_id"`
	Counts    map[string]int `json:"counts"`
}
