package comment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for comment data access.
type Repository interface {
	Create(ctx context.Context, comment *Comment, mentions []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*Comment, error)
	Update(ctx context.Context, comment *Comment) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	DeleteForVideo(ctx context.Context, videoID uuid.UUID) error

	GetReaction(ctx context.Context, commentID, userID uuid.UUID) (*Reaction, error)
	SaveReaction(ctx context.Context, reaction *Reaction) error
	DeleteReaction(ctx context.Context, commentID, userID uuid.UUID) error
	ListReactions(ctx context.Context, commentIDs []uuid.UUID) ([]*Reaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new comment repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, comment *Comment, mentions []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		for _, userID := range mentions {
			mention := &Mention{CommentID: comment.ID, UserID: userID}
			if err := tx.Create(mention).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	var c Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*Comment, error) {
	var comments []*Comment
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *repository) Update(ctx context.Context, comment *Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// DeleteCascade removes a comment together with its replies, reactions and
// mentions in one transaction.
func (r *repository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var replyIDs []uuid.UUID
		if err := tx.Model(&Comment{}).
			Where("parent_id = ?", id).
			Pluck("id", &replyIDs).Error; err != nil {
			return err
		}

		ids := append(replyIDs, id)

		if err := tx.Where("comment_id IN ?", ids).Delete(&Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&Mention{}).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCommentNotFound
		}
		return nil
	})
}

// DeleteForVideo removes every comment on a video together with the
// reactions and mentions hanging off them. Called when the video itself is
// deleted; deleting nothing is fine.
func (r *repository) DeleteForVideo(ctx context.Context, videoID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&Comment{}).
			Where("video_id = ?", videoID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("comment_id IN ?", ids).Delete(&Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&Mention{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&Comment{}).Error
	})
}

func (r *repository) GetReaction(ctx context.Context, commentID, userID uuid.UUID) (*Reaction, error) {
	var reaction Reaction
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

func (r *repository) SaveReaction(ctx context.Context, reaction *Reaction) error {
	return r.db.WithContext(ctx).Save(reaction).Error
}

func (r *repository) DeleteReaction(ctx context.Context, commentID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&Reaction{}).Error
}

func (r *repository) ListReactions(ctx context.Context, commentIDs []uuid.UUID) ([]*Reaction, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	var reactions []*Reaction
	err := r.db.WithContext(ctx).
		Where("comment_id IN ?", commentIDs).
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	return reactions, nil
}
