package video

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for video data access.
type Repository interface {
	Create(ctx context.Context, video *Video) error
	GetByIDForTeam(ctx context.Context, id, teamID uuid.UUID) (*Video, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID, status *Status) ([]*Video, error)
	Update(ctx context.Context, video *Video) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new video repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, video *Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *repository) GetByIDForTeam(ctx context.Context, id, teamID uuid.UUID) (*Video, error) {
	var v Video
	err := r.db.WithContext(ctx).Where("id = ? AND team_id = ?", id, teamID).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) ListByTeam(ctx context.Context, teamID uuid.UUID, status *Status) ([]*Video, error) {
	q := r.db.WithContext(ctx).Where("team_id = ?", teamID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var videos []*Video
	if err := q.Order("created_at DESC").Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *repository) Update(ctx context.Context, video *Video) error {
	return r.db.WithContext(ctx).Save(video).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Video{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVideoNotFound
	}
	return nil
}
