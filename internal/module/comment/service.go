package comment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/module/team"
	"github.com/videoflow/server/internal/module/video"
)

// Realtime event names emitted by the comment service.
const (
	EventCommentAdded    = "comment-added"
	EventCommentUpdated  = "comment-updated"
	EventCommentDeleted  = "comment-deleted"
	EventReactionUpdated = "reaction-updated"
)

// VideoDirectory resolves videos within the caller's team.
type VideoDirectory interface {
	Get(ctx context.Context, teamID uuid.UUID, id uuid.UUID) (*video.Video, error)
}

// RoleResolver resolves a user's team-scoped role.
type RoleResolver interface {
	EffectiveRole(ctx context.Context, teamID, userID uuid.UUID) (string, error)
}

// Broadcaster pushes an event to everyone in a video's room. Broadcasts are
// best effort; they never fail the request that triggered them.
type Broadcaster interface {
	BroadcastToRoom(videoID uuid.UUID, event string, payload any)
}

// Service provides comment business logic.
type Service struct {
	repo        Repository
	videos      VideoDirectory
	roles       RoleResolver
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewService creates a new comment service.
func NewService(repo Repository, videos VideoDirectory, roles RoleResolver, broadcaster Broadcaster, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		videos:      videos,
		roles:       roles,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// List returns a video's top-level comments with replies and reaction counts
// attached.
func (s *Service) List(ctx context.Context, teamID, videoID uuid.UUID) ([]*Response, error) {
	if _, err := s.videos.Get(ctx, teamID, videoID); err != nil {
		return nil, err
	}

	comments, err := s.repo.ListByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	reactions, err := s.repo.ListReactions(ctx, ids)
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]map[string]int)
	for _, r := range reactions {
		if counts[r.CommentID] == nil {
			counts[r.CommentID] = make(map[string]int)
		}
		counts[r.CommentID][string(r.Type)]++
	}

	byID := make(map[uuid.UUID]*Response)
	var topLevel []*Response
	for _, c := range comments {
		if c.IsTopLevel() {
			resp := toResponse(c, counts[c.ID])
			byID[c.ID] = resp
			topLevel = append(topLevel, resp)
		}
	}
	for _, c := range comments {
		if c.IsTopLevel() {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, toResponse(c, counts[c.ID]))
		}
	}

	if topLevel == nil {
		topLevel = []*Response{}
	}
	return topLevel, nil
}

// Add creates a comment or a reply. Replies attach only to top-level
// comments on the same video.
func (s *Service) Add(ctx context.Context, teamID, userID, videoID uuid.UUID, req *AddRequest) (*Comment, error) {
	if _, err := s.videos.Get(ctx, teamID, videoID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.VideoID != videoID {
			return nil, ErrParentVideoMismatch
		}
		if !parent.IsTopLevel() {
			return nil, ErrParentNotTopLevel
		}
	}

	c := &Comment{
		ID:       uuid.New(),
		VideoID:  videoID,
		AuthorID: userID,
		Body:     strings.TrimSpace(req.Body),
		ParentID: req.ParentID,
	}
	if err := s.repo.Create(ctx, c, req.Mentions); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToRoom(videoID, EventCommentAdded, toResponse(c, nil))

	return c, nil
}

// Update edits a comment's body. Author only.
func (s *Service) Update(ctx context.Context, teamID, userID, commentID uuid.UUID, body string) (*Comment, error) {
	c, err := s.getInTeam(ctx, teamID, commentID)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	now := time.Now()
	c.Body = strings.TrimSpace(body)
	c.IsEdited = true
	c.EditedAt = &now
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToRoom(c.VideoID, EventCommentUpdated, toResponse(c, nil))

	return c, nil
}

// Delete removes a comment. Allowed for the author and the team creator.
// Deleting a top-level comment drops its replies in the same transaction and
// emits a single comment-deleted event.
func (s *Service) Delete(ctx context.Context, teamID, userID, commentID uuid.UUID) error {
	c, err := s.getInTeam(ctx, teamID, commentID)
	if err != nil {
		return err
	}

	if c.AuthorID != userID {
		role, err := s.roles.EffectiveRole(ctx, teamID, userID)
		if err != nil {
			return ErrInsufficientPermission
		}
		if !team.Role(role).HasPermission(team.PermDeleteAnyComment) {
			return ErrInsufficientPermission
		}
	}

	if err := s.repo.DeleteCascade(ctx, c.ID); err != nil {
		return err
	}

	s.broadcaster.BroadcastToRoom(c.VideoID, EventCommentDeleted, &DeletedEvent{
		CommentID: c.ID,
		ParentID:  c.ParentID,
	})

	return nil
}

// ToggleReaction applies a keyed reaction toggle: the same type removes the
// reaction, a different type replaces it.
func (s *Service) ToggleReaction(ctx context.Context, teamID, userID, commentID uuid.UUID, reactionType ReactionType) (map[string]int, error) {
	if !reactionType.IsValid() {
		return nil, ErrInvalidReaction
	}

	c, err := s.getInTeam(ctx, teamID, commentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetReaction(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case existing == nil:
		err = s.repo.SaveReaction(ctx, &Reaction{CommentID: commentID, UserID: userID, Type: reactionType})
	case existing.Type == reactionType:
		err = s.repo.DeleteReaction(ctx, commentID, userID)
	default:
		existing.Type = reactionType
		err = s.repo.SaveReaction(ctx, existing)
	}
	if err != nil {
		return nil, err
	}

	reactions, err := s.repo.ListReactions(ctx, []uuid.UUID{commentID})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range reactions {
		counts[string(r.Type)]++
	}

	s.broadcaster.BroadcastToRoom(c.VideoID, EventReactionUpdated, &ReactionEvent{
		CommentID: commentID,
		Counts:    counts,
	})

	return counts, nil
}

// getInTeam loads a comment and verifies its video is in the caller's team.
func (s *Service) getInTeam(ctx context.Context, teamID, commentID uuid.UUID) (*Comment, error) {
	c, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.videos.Get(ctx, teamID, c.VideoID); err != nil {
		return nil, ErrCommentNotFound
	}
	return c, nil
}
