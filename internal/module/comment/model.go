package comment

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a remark on a video. Replies nest exactly one level deep:
// a reply's ParentID always points at a top-level comment.
type Comment struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	VideoID  uuid.UUID  `json:"video_id" gorm:"type:uuid;not null;index"`
	AuthorID uuid.UUID  `json:"author_id" gorm:"type:uuid;not null"`
	Body     string     `json:"body" gorm:"type:text;not null"`
	ParentID *uuid.UUID `json:"parent_id,omitempty" gorm:"type:uuid;index"`

	IsEdited bool       `json:"is_edited" gorm:"not null;default:false"`
	EditedAt *time.Time `json:"edited_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Comment model.
func (Comment) TableName() string {
	return "comments"
}

// IsTopLevel reports whether the comment can carry replies.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// ReactionType is the kind of reaction a user left on a comment.
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionHeart ReactionType = "heart"
	ReactionLaugh ReactionType = "laugh"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
)

// IsValid reports whether the reaction type is known.
func (r ReactionType) IsValid() bool {
	switch r {
	case ReactionLike, ReactionHeart, ReactionLaugh, ReactionWow, ReactionSad:
		return true
	}
	return false
}

// Reaction is one user's reaction on one comment. The composite primary key
// makes "at most one reaction per user per comment" a storage invariant.
type Reaction struct {
	CommentID uuid.UUID    `json:"comment_id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID    `json:"user_id" gorm:"type:uuid;primaryKey"`
	Type      ReactionType `json:"type" gorm:"not null"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TableName specifies the table name for the Reaction model.
func (Reaction) TableName() string {
	return "comment_reactions"
}

// Mention records that a comment mentioned a user.
type Mention struct {
	CommentID uuid.UUID `json:"comment_id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Mention model.
func (Mention) TableName() string {
	return "comment_mentions"
}
