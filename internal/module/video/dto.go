package video

import (
	"time"

	"github.com/google/uuid"
)

// UploadRequest registers an already uploaded media object as a video.
type UploadRequest struct {
	Title       string   `json:"title" binding:"required,max=100"`
	Description string   `json:"description" binding:"max=5000"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	Privacy     string   `json:"privacy" binding:"omitempty,oneof=public unlisted private"`
	MediaKey    string   `json:"media_key" binding:"required"`
	FileSize    int64    `json:"file_size"`
	Duration    int      `json:"duration"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ThumbnailRequest asks for an AI generated thumbnail.
type ThumbnailRequest struct {
	Prompt string `json:"prompt" binding:"required,max=1000"`
	Size   string `json:"size" binding:"omitempty,oneof=1024x1024 1792x1024 1280x720"`
}

// Response is the API representation of a video.
type Response struct {
	ID              uuid.UUID  `json:"id"`
	TeamID          uuid.UUID  `json:"team_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Tags            []string   `json:"tags"`
	Category        string     `json:"category"`
	Privacy         string     `json:"privacy"`
	MediaURL        string     `json:"media_url"`
	ThumbnailURL    string     `json:"thumbnail_url,omitempty"`
	FileSize        int64      `json:"file_size"`
	Duration        int        `json:"duration"`
	Status          string     `json:"status"`
	UploadedBy      uuid.UUID  `json:"uploaded_by"`
	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedBy      *uuid.UUID `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	PublishError    string     `json:"publish_error,omitempty"`
	YouTubeID       string     `json:"youtube_id,omitempty"`
	YouTubeURL      string     `json:"youtube_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToResponse converts a video to its API representation.
func (v *Video) ToResponse() *Response {
	return &Response{
		ID:              v.ID,
		TeamID:          v.TeamID,
		Title:           v.Title,
		Description:     v.Description,
		Tags:            v.TagList(),
		Category:        v.Category,
		Privacy:         v.Privacy,
		MediaURL:        v.MediaURL,
		ThumbnailURL:    v.ThumbnailURL,
		FileSize:        v.FileSize,
		Duration:        v.Duration,
		Status:          string(v.Status),
		UploadedBy:      v.UploadedBy,
		ApprovedBy:      v.ApprovedBy,
		ApprovedAt:      v.ApprovedAt,
		RejectedBy:      v.RejectedBy,
		RejectedAt:      v.RejectedAt,
		RejectionReason: v.RejectionReason,
		PublishError:    v.PublishError,
		YouTubeID:       v.YouTubeID,
		YouTubeURL:      v.YouTubeURL,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}
