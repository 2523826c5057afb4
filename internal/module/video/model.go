package video

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents where a video is in the approval lifecycle.
type Status string

const (
	StatusUploading Status = "uploading"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusPublished Status = "published"
)

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusPublished
}

// Privacy values accepted for YouTube publishing.
const (
	PrivacyPublic   = "public"
	PrivacyUnlisted = "unlisted"
	PrivacyPrivate  = "private"
)

// Video is a team's uploaded video moving through the approval workflow.
type Video struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TeamID      uuid.UUID `json:"team_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Tags        string    `json:"-" gorm:"type:text"`
	Category    string    `json:"category"`
	Privacy     string    `json:"privacy" gorm:"not null;default:private"`

	MediaKey     string `json:"-" gorm:"not null"`
	MediaURL     string `json:"media_url"`
	ThumbnailKey string `json:"-"`
	ThumbnailURL string `json:"thumbnail_url"`
	FileSize     int64  `json:"file_size"`
	Duration     int    `json:"duration"`

	Status     Status    `json:"status" gorm:"not null;default:pending;index"`
	UploadedBy uuid.UUID `json:"uploaded_by" gorm:"type:uuid;not null"`

	ApprovedBy *uuid.UUID `json:"approved_by,omitempty" gorm:"type:uuid"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	RejectedBy      *uuid.UUID `json:"rejected_by,omitempty" gorm:"type:uuid"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`

	PublishError string `json:"publish_error,omitempty"`
	YouTubeID    string `json:"youtube_id,omitempty"`
	YouTubeURL   string `json:"youtube_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Video model.
func (Video) TableName() string {
	return "videos"
}

// TagList splits the serialized tags column.
func (v *Video) TagList() []string {
	if v.Tags == "" {
		return nil
	}
	return strings.Split(v.Tags, ",")
}

// SetTagList serializes tags into the stored column form.
func (v *Video) SetTagList(tags []string) {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	v.Tags = strings.Join(cleaned, ",")
}
