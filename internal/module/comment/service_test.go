package comment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/module/team"
	"github.com/videoflow/server/internal/module/video"
)

type reactionKey struct {
	commentID uuid.UUID
	userID    uuid.UUID
}

type fakeRepo struct {
	comments  map[uuid.UUID]*Comment
	reactions map[reactionKey]*Reaction
	mentions  map[uuid.UUID][]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		comments:  make(map[uuid.UUID]*Comment),
		reactions: make(map[reactionKey]*Reaction),
		mentions:  make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeRepo) Create(_ context.Context, c *Comment, mentions []uuid.UUID) error {
	f.comments[c.ID] = c
	f.mentions[c.ID] = mentions
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, ErrCommentNotFound
	}
	return c, nil
}

func (f *fakeRepo) ListByVideo(_ context.Context, videoID uuid.UUID) ([]*Comment, error) {
	var out []*Comment
	for _, c := range f.comments {
		if c.VideoID == videoID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, c *Comment) error {
	if _, ok := f.comments[c.ID]; !ok {
		return ErrCommentNotFound
	}
	f.comments[c.ID] = c
	return nil
}

func (f *fakeRepo) DeleteCascade(_ context.Context, id uuid.UUID) error {
	if _, ok := f.comments[id]; !ok {
		return ErrCommentNotFound
	}
	delete(f.comments, id)
	for cid, c := range f.comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(f.comments, cid)
		}
	}
	for key := range f.reactions {
		if _, ok := f.comments[key.commentID]; !ok {
			delete(f.reactions, key)
		}
	}
	return nil
}

func (f *fakeRepo) DeleteForVideo(_ context.Context, videoID uuid.UUID) error {
	for cid, c := range f.comments {
		if c.VideoID == videoID {
			delete(f.comments, cid)
		}
	}
	for key := range f.reactions {
		if _, ok := f.comments[key.commentID]; !ok {
			delete(f.reactions, key)
		}
	}
	return nil
}

func (f *fakeRepo) GetReaction(_ context.Context, commentID, userID uuid.UUID) (*Reaction, error) {
	return f.reactions[reactionKey{commentID, userID}], nil
}

func (f *fakeRepo) SaveReaction(_ context.Context, r *Reaction) error {
	f.reactions[reactionKey{r.CommentID, r.UserID}] = r
	return nil
}

func (f *fakeRepo) DeleteReaction(_ context.Context, commentID, userID uuid.UUID) error {
	delete(f.reactions, reactionKey{commentID, userID})
	return nil
}

func (f *fakeRepo) ListReactions(_ context.Context, commentIDs []uuid.UUID) ([]*Reaction, error) {
	var out []*Reaction
	for _, id := range commentIDs {
		for key, r := range f.reactions {
			if key.commentID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

type fakeVideos struct {
	videos map[uuid.UUID]uuid.UUID // videoID -> teamID
}

func (f *fakeVideos) Get(_ context.Context, teamID uuid.UUID, id uuid.UUID) (*video.Video, error) {
	owner, ok := f.videos[id]
	if !ok || owner != teamID {
		return nil, video.ErrVideoNotFound
	}
	return &video.Video{ID: id, TeamID: teamID}, nil
}

type fakeRoles struct {
	roles map[uuid.UUID]string
}

func (f *fakeRoles) EffectiveRole(_ context.Context, _, userID uuid.UUID) (string, error) {
	role, ok := f.roles[userID]
	if !ok {
		return "", team.ErrMemberNotFound
	}
	return role, nil
}

type broadcastCall struct {
	videoID uuid.UUID
	event   string
	payload any
}

type fakeBroadcaster struct {
	calls []broadcastCall
}

func (f *fakeBroadcaster) BroadcastToRoom(videoID uuid.UUID, event string, payload any) {
	f.calls = append(f.calls, broadcastCall{videoID, event, payload})
}

type fixture struct {
	svc         *Service
	repo        *fakeRepo
	broadcaster *fakeBroadcaster
	teamID      uuid.UUID
	videoID     uuid.UUID
	creator     uuid.UUID
	editor      uuid.UUID
	other       uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:        newFakeRepo(),
		broadcaster: &fakeBroadcaster{},
		teamID:      uuid.New(),
		videoID:     uuid.New(),
		creator:     uuid.New(),
		editor:      uuid.New(),
		other:       uuid.New(),
	}
	videos := &fakeVideos{videos: map[uuid.UUID]uuid.UUID{f.videoID: f.teamID}}
	roles := &fakeRoles{roles: map[uuid.UUID]string{
		f.creator: string(team.RoleCreator),
		f.editor:  string(team.RoleEditor),
		f.other:   string(team.RoleEditor),
	}}
	f.svc = NewService(f.repo, videos, roles, f.broadcaster, zap.NewNop())
	return f
}

func (f *fixture) seedComment(author uuid.UUID, parentID *uuid.UUID) *Comment {
	c := &Comment{
		ID:       uuid.New(),
		VideoID:  f.videoID,
		AuthorID: author,
		Body:     "nice cut",
		ParentID: parentID,
	}
	f.repo.comments[c.ID] = c
	return c
}

func TestAdd(t *testing.T) {
	t.Run("top-level comment broadcasts comment-added", func(t *testing.T) {
		f := newFixture()

		c, err := f.svc.Add(context.Background(), f.teamID, f.editor, f.videoID, &AddRequest{Body: "  first!  "})
		require.NoError(t, err)
		assert.Equal(t, "first!", c.Body)
		assert.True(t, c.IsTopLevel())

		require.Len(t, f.broadcaster.calls, 1)
		assert.Equal(t, EventCommentAdded, f.broadcaster.calls[0].event)
		assert.Equal(t, f.videoID, f.broadcaster.calls[0].videoID)
	})

	t.Run("reply to top-level comment", func(t *testing.T) {
		f := newFixture()
		parent := f.seedComment(f.editor, nil)

		reply, err := f.svc.Add(context.Background(), f.teamID, f.other, f.videoID, &AddRequest{
			Body: "agreed", ParentID: &parent.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, parent.ID, *reply.ParentID)
	})

	t.Run("reply to reply is rejected", func(t *testing.T) {
		f := newFixture()
		parent := f.seedComment(f.editor, nil)
		reply := f.seedComment(f.other, &parent.ID)

		_, err := f.svc.Add(context.Background(), f.teamID, f.editor, f.videoID, &AddRequest{
			Body: "nested", ParentID: &reply.ID,
		})
		assert.ErrorIs(t, err, ErrParentNotTopLevel)
	})

	t.Run("parent on another video is rejected", func(t *testing.T) {
		f := newFixture()
		parent := f.seedComment(f.editor, nil)
		parent.VideoID = uuid.New()

		_, err := f.svc.Add(context.Background(), f.teamID, f.editor, f.videoID, &AddRequest{
			Body: "stray", ParentID: &parent.ID,
		})
		assert.ErrorIs(t, err, ErrParentVideoMismatch)
	})

	t.Run("cross-team video is invisible", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Add(context.Background(), uuid.New(), f.editor, f.videoID, &AddRequest{Body: "hi"})
		assert.ErrorIs(t, err, video.ErrVideoNotFound)
	})
}

func TestList(t *testing.T) {
	f := newFixture()
	top := f.seedComment(f.editor, nil)
	f.seedComment(f.other, &top.ID)
	f.seedComment(f.other, &top.ID)
	f.repo.reactions[reactionKey{top.ID, f.other}] = &Reaction{
		CommentID: top.ID, UserID: f.other, Type: ReactionHeart,
	}

	comments, err := f.svc.List(context.Background(), f.teamID, f.videoID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Len(t, comments[0].Replies, 2)
	assert.Equal(t, map[string]int{"heart": 1}, comments[0].Reactions)
}

func TestUpdate(t *testing.T) {
	f := newFixture()
	c := f.seedComment(f.editor, nil)

	t.Run("author edits and sets edited flag", func(t *testing.T) {
		updated, err := f.svc.Update(context.Background(), f.teamID, f.editor, c.ID, "better cut")
		require.NoError(t, err)
		assert.Equal(t, "better cut", updated.Body)
		assert.True(t, updated.IsEdited)
		assert.NotNil(t, updated.EditedAt)
		require.Len(t, f.broadcaster.calls, 1)
		assert.Equal(t, EventCommentUpdated, f.broadcaster.calls[0].event)
	})

	t.Run("non-author cannot edit", func(t *testing.T) {
		_, err := f.svc.Update(context.Background(), f.teamID, f.creator, c.ID, "hijack")
		assert.ErrorIs(t, err, ErrNotAuthor)
	})
}

func TestDelete(t *testing.T) {
	t.Run("author deletes own comment", func(t *testing.T) {
		f := newFixture()
		c := f.seedComment(f.editor, nil)

		err := f.svc.Delete(context.Background(), f.teamID, f.editor, c.ID)
		require.NoError(t, err)
		assert.Empty(t, f.repo.comments)
	})

	t.Run("creator deletes any comment", func(t *testing.T) {
		f := newFixture()
		c := f.seedComment(f.editor, nil)

		err := f.svc.Delete(context.Background(), f.teamID, f.creator, c.ID)
		assert.NoError(t, err)
	})

	t.Run("other members cannot delete", func(t *testing.T) {
		f := newFixture()
		c := f.seedComment(f.editor, nil)

		err := f.svc.Delete(context.Background(), f.teamID, f.other, c.ID)
		assert.ErrorIs(t, err, ErrInsufficientPermission)
	})

	t.Run("cascade emits exactly one broadcast", func(t *testing.T) {
		f := newFixture()
		top := f.seedComment(f.editor, nil)
		f.seedComment(f.other, &top.ID)
		f.seedComment(f.creator, &top.ID)

		err := f.svc.Delete(context.Background(), f.teamID, f.editor, top.ID)
		require.NoError(t, err)
		assert.Empty(t, f.repo.comments)

		require.Len(t, f.broadcaster.calls, 1)
		assert.Equal(t, EventCommentDeleted, f.broadcaster.calls[0].event)
		payload, ok := f.broadcaster.calls[0].payload.(*DeletedEvent)
		require.True(t, ok)
		assert.Equal(t, top.ID, payload.CommentID)
	})
}

func TestToggleReaction(t *testing.T) {
	f := newFixture()
	c := f.seedComment(f.editor, nil)

	t.Run("first reaction inserts", func(t *testing.T) {
		counts, err := f.svc.ToggleReaction(context.Background(), f.teamID, f.other, c.ID, ReactionLike)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"like": 1}, counts)
	})

	t.Run("different type replaces", func(t *testing.T) {
		counts, err := f.svc.ToggleReaction(context.Background(), f.teamID, f.other, c.ID, ReactionHeart)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"heart": 1}, counts)
	})

	t.Run("same type removes", func(t *testing.T) {
		counts, err := f.svc.ToggleReaction(context.Background(), f.teamID, f.other, c.ID, ReactionHeart)
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := f.svc.ToggleReaction(context.Background(), f.teamID, f.other, c.ID, ReactionType("clap"))
		assert.ErrorIs(t, err, ErrInvalidReaction)
	})

	t.Run("broadcasts reaction-updated", func(t *testing.T) {
		before := len(f.broadcaster.calls)
		_, err := f.svc.ToggleReaction(context.Background(), f.teamID, f.other, c.ID, ReactionWow)
		require.NoError(t, err)
		require.Len(t, f.broadcaster.calls, before+1)
		assert.Equal(t, EventReactionUpdated, f.broadcaster.calls[len(f.broadcaster.calls)-1].event)
	})
}
