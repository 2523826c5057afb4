package video

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/module/team"
)

// RoleResolver resolves a user's team-scoped role.
type RoleResolver interface {
	EffectiveRole(ctx context.Context, teamID, userID uuid.UUID) (string, error)
}

// TeamDirectory exposes the team facts the video lifecycle needs.
type TeamDirectory interface {
	OwnerID(ctx context.Context, teamID uuid.UUID) (uuid.UUID, error)
}

// MediaStore abstracts the object storage used for video and thumbnail files.
type MediaStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// Publisher uploads an approved video to the owner's YouTube channel and
// returns the YouTube video ID. Implementations report a missing connection
// as ErrYouTubeNotConnected and an open circuit as ErrPublishUnavailable.
type Publisher interface {
	Upload(ctx context.Context, ownerID uuid.UUID, v *Video) (string, error)
}

// ThumbnailGenerator produces thumbnail image bytes from a prompt.
type ThumbnailGenerator interface {
	Generate(ctx context.Context, prompt, size string) ([]byte, string, error)
}

// CommentPurger removes a video's comment thread when the video goes away.
type CommentPurger interface {
	DeleteForVideo(ctx context.Context, videoID uuid.UUID) error
}

// Notifier fans out lifecycle emails to team members. Implementations are
// best effort and must not block.
type Notifier interface {
	VideoUploaded(ctx context.Context, teamID, exclude uuid.UUID, v *Video)
	VideoApproved(ctx context.Context, teamID, exclude uuid.UUID, v *Video)
	VideoRejected(ctx context.Context, teamID, exclude uuid.UUID, v *Video)
	VideoPublished(ctx context.Context, teamID, exclude uuid.UUID, v *Video)
}

// MetricsRecorder records lifecycle metrics.
type MetricsRecorder interface {
	RecordTransition(to string)
	RecordPublishFailure()
}

// NoticeYouTubeNotConnected marks an approve response whose publish attempt
// was skipped because the owner has no YouTube connection.
const NoticeYouTubeNotConnected = "youtube_not_connected"

// Service provides video lifecycle business logic.
type Service struct {
	repo      Repository
	roles     RoleResolver
	teams     TeamDirectory
	store     MediaStore
	publisher Publisher
	thumbs    ThumbnailGenerator
	notifier  Notifier
	comments  CommentPurger
	metrics   MetricsRecorder
	logger    *zap.Logger
}

// NewService creates a new video service.
func NewService(
	repo Repository,
	roles RoleResolver,
	teams TeamDirectory,
	store MediaStore,
	publisher Publisher,
	thumbs ThumbnailGenerator,
	notifier Notifier,
	comments CommentPurger,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		roles:     roles,
		teams:     teams,
		store:     store,
		publisher: publisher,
		thumbs:    thumbs,
		notifier:  notifier,
		comments:  comments,
		metrics:   metrics,
		logger:    logger,
	}
}

// Create registers an uploaded media object as a pending video and notifies
// the rest of the team.
func (s *Service) Create(ctx context.Context, teamID, userID uuid.UUID, req *UploadRequest) (*Video, error) {
	role, err := s.roles.EffectiveRole(ctx, teamID, userID)
	if err != nil {
		return nil, ErrInsufficientPermission
	}
	if !team.Role(role).HasPermission(team.PermUpload) {
		return nil, ErrInsufficientPermission
	}

	privacy := req.Privacy
	if privacy == "" {
		privacy = PrivacyPrivate
	}

	v := &Video{
		ID:          uuid.New(),
		TeamID:      teamID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Privacy:     privacy,
		MediaKey:    req.MediaKey,
		MediaURL:    s.store.PublicURL(req.MediaKey),
		FileSize:    req.FileSize,
		Duration:    req.Duration,
		Status:      StatusPending,
		UploadedBy:  userID,
	}
	v.SetTagList(req.Tags)

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(string(StatusPending))
	s.notifier.VideoUploaded(ctx, teamID, userID, v)

	s.logger.Info("video created",
		zap.String("video_id", v.ID.String()),
		zap.String("team_id", teamID.String()),
	)

	return v, nil
}

// Get returns a video in the caller's team. Videos outside the team do not
// exist as far as the caller is concerned.
func (s *Service) Get(ctx context.Context, teamID uuid.UUID, id uuid.UUID) (*Video, error) {
	return s.repo.GetByIDForTeam(ctx, id, teamID)
}

// List returns the team's videos, optionally filtered by status.
func (s *Service) List(ctx context.Context, teamID uuid.UUID, status *Status) ([]*Video, error) {
	return s.repo.ListByTeam(ctx, teamID, status)
}

// Approve moves a pending video to approved and then makes a best-effort
// publish attempt. Approving an already approved video changes nothing but
// still retries the publish. The returned notice is NoticeYouTubeNotConnected
// when the attempt was skipped for lack of a YouTube connection.
func (s *Service) Approve(ctx context.Context, teamID, actorID, id uuid.UUID) (*Video, string, error) {
	if err := s.requirePermission(ctx, teamID, actorID, team.PermApproveVideo); err != nil {
		return nil, "", err
	}

	v, err := s.repo.GetByIDForTeam(ctx, id, teamID)
	if err != nil {
		return nil, "", err
	}

	if v.Status.IsTerminal() {
		return nil, "", ErrInvalidTransition
	}

	switch v.Status {
	case StatusPending:
		now := time.Now()
		v.Status = StatusApproved
		v.ApprovedBy = &actorID
		v.ApprovedAt = &now
		if err := s.repo.Update(ctx, v); err != nil {
			return nil, "", err
		}
		s.metrics.RecordTransition(string(StatusApproved))
		s.notifier.VideoApproved(ctx, teamID, actorID, v)
	case StatusApproved:
		// Idempotent; fall through to another publish attempt.
	default:
		return nil, "", ErrInvalidTransition
	}

	// Publish failure never fails the approval.
	if err := s.publish(ctx, v); err != nil {
		if err == ErrYouTubeNotConnected {
			return v, NoticeYouTubeNotConnected, nil
		}
		s.logger.Warn("publish attempt after approval failed",
			zap.String("video_id", v.ID.String()),
			zap.Error(err),
		)
	}

	return v, "", nil
}

// Publish uploads an approved video to YouTube. It can be retried while the
// video stays approved and is idempotent once published.
func (s *Service) Publish(ctx context.Context, teamID, actorID, id uuid.UUID) (*Video, error) {
	if err := s.requirePermission(ctx, teamID, actorID, team.PermPublishVideo); err != nil {
		return nil, err
	}

	v, err := s.repo.GetByIDForTeam(ctx, id, teamID)
	if err != nil {
		return nil, err
	}

	switch v.Status {
	case StatusPublished:
		return v, nil
	case StatusApproved:
		if err := s.publish(ctx, v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, ErrInvalidTransition
	}
}

// publish performs the YouTube upload and advances the video to published on
// success. On failure the error is recorded and the video stays approved.
func (s *Service) publish(ctx context.Context, v *Video) error {
	ownerID, err := s.teams.OwnerID(ctx, v.TeamID)
	if err != nil {
		return err
	}

	ytID, err := s.publisher.Upload(ctx, ownerID, v)
	if err != nil {
		if err != ErrYouTubeNotConnected {
			v.PublishError = err.Error()
			if updateErr := s.repo.Update(ctx, v); updateErr != nil {
				s.logger.Error("recording publish error failed",
					zap.String("video_id", v.ID.String()),
					zap.Error(updateErr),
				)
			}
			s.metrics.RecordPublishFailure()
		}
		return err
	}

	v.Status = StatusPublished
	v.YouTubeID = ytID
	v.YouTubeURL = fmt.Sprintf("https://www.youtube.com/watch?v=%s", ytID)
	v.PublishError = ""
	if err := s.repo.Update(ctx, v); err != nil {
		return err
	}

	s.metrics.RecordTransition(string(StatusPublished))
	s.notifier.VideoPublished(ctx, v.TeamID, v.UploadedBy, v)

	s.logger.Info("video published",
		zap.String("video_id", v.ID.String()),
		zap.String("youtube_id", ytID),
	)

	return nil
}

// Reject moves a pending video to rejected. A non-blank reason is required.
func (s *Service) Reject(ctx context.Context, teamID, actorID, id uuid.UUID, reason string) (*Video, error) {
	if err := s.requirePermission(ctx, teamID, actorID, team.PermRejectVideo); err != nil {
		return nil, err
	}

	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	v, err := s.repo.GetByIDForTeam(ctx, id, teamID)
	if err != nil {
		return nil, err
	}
	if v.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	v.Status = StatusRejected
	v.RejectedBy = &actorID
	v.RejectedAt = &now
	v.RejectionReason = reason
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(string(StatusRejected))
	s.notifier.VideoRejected(ctx, teamID, actorID, v)

	return v, nil
}

// Delete removes a video in any state. Allowed for the uploader and the
// team creator. Media objects are removed best effort before the record.
func (s *Service) Delete(ctx context.Context, teamID, actorID, id uuid.UUID) error {
	v, err := s.repo.GetByIDForTeam(ctx, id, teamID)
	if err != nil {
		return err
	}

	if v.UploadedBy != actorID {
		if err := s.requirePermission(ctx, teamID, actorID, team.PermDeleteAnyVideo); err != nil {
			return err
		}
	}

	for _, key := range []string{v.MediaKey, v.ThumbnailKey} {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("media object cleanup failed",
				zap.String("video_id", v.ID.String()),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	if err := s.comments.DeleteForVideo(ctx, v.ID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, v.ID)
}

// GenerateThumbnail creates an AI thumbnail for the video and attaches it.
// Allowed for the uploader and the team creator.
func (s *Service) GenerateThumbnail(ctx context.Context, teamID, actorID, id uuid.UUID, prompt, size string) (*Video, error) {
	v, err := s.repo.GetByIDForTeam(ctx, id, teamID)
	if err != nil {
		return nil, err
	}

	if v.UploadedBy != actorID {
		if err := s.requirePermission(ctx, teamID, actorID, team.PermDeleteAnyVideo); err != nil {
			return nil, err
		}
	}

	img, contentType, err := s.thumbs.Generate(ctx, prompt, size)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("teams/%s/thumbnails/%s", teamID, v.ID)
	if err := s.store.Put(ctx, key, img, contentType); err != nil {
		return nil, err
	}

	v.ThumbnailKey = key
	v.ThumbnailURL = s.store.PublicURL(key)
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}

func (s *Service) requirePermission(ctx context.Context, teamID, userID uuid.UUID, perm team.Permission) error {
	role, err := s.roles.EffectiveRole(ctx, teamID, userID)
	if err != nil {
		return ErrInsufficientPermission
	}
	if !team.Role(role).HasPermission(perm) {
		return ErrInsufficientPermission
	}
	return nil
}
