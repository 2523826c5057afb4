package video

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/module/team"
)

type fakeRepo struct {
	mu     sync.Mutex
	videos map[uuid.UUID]*Video
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{videos: make(map[uuid.UUID]*Video)}
}

func (f *fakeRepo) Create(_ context.Context, v *Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos[v.ID] = v
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil, ErrVideoNotFound
	}
	return v, nil
}

func (f *fakeRepo) GetByIDForTeam(_ context.Context, id, teamID uuid.UUID) (*Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok || v.TeamID != teamID {
		return nil, ErrVideoNotFound
	}
	return v, nil
}

func (f *fakeRepo) ListByTeam(_ context.Context, teamID uuid.UUID, status *Status) ([]*Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Video
	for _, v := range f.videos {
		if v.TeamID != teamID {
			continue
		}
		if status != nil && v.Status != *status {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, v *Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.videos[v.ID]; !ok {
		return ErrVideoNotFound
	}
	f.videos[v.ID] = v
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.videos[id]; !ok {
		return ErrVideoNotFound
	}
	delete(f.videos, id)
	return nil
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

type fakeTeams struct {
	owner uuid.UUID
}

func (f *fakeTeams) OwnerID(_ context.Context, _ uuid.UUID) (uuid.UUID, error) {
	return f.owner, nil
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	delErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Put(_ context.Context, key string, body []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = body
	return nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://media.test/" + key
}

type fakePublisher struct {
	id    string
	err   error
	calls int
}

func (f *fakePublisher) Upload(_ context.Context, _ uuid.UUID, _ *Video) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}

type fakeThumbs struct {
	img []byte
	ct  string
	err error
}

func (f *fakeThumbs) Generate(_ context.Context, _, _ string) ([]byte, string, error) {
	return f.img, f.ct, f.err
}

type fakeNotifier struct {
	mu        sync.Mutex
	uploaded  int
	approved  int
	rejected  int
	published int
}

func (f *fakeNotifier) VideoUploaded(_ context.Context, _, _ uuid.UUID, _ *Video) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded++
}

func (f *fakeNotifier) VideoApproved(_ context.Context, _, _ uuid.UUID, _ *Video) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approved++
}

func (f *fakeNotifier) VideoRejected(_ context.Context, _, _ uuid.UUID, _ *Video) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected++
}

func (f *fakeNotifier) VideoPublished(_ context.Context, _, _ uuid.UUID, _ *Video) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published++
}

type fakeMetrics struct {
	transitions     []string
	publishFailures int
}

func (f *fakeMetrics) RecordTransition(to string) { f.transitions = append(f.transitions, to) }
func (f *fakeMetrics) RecordPublishFailure()      { f.publishFailures++ }

type fakePurger struct {
	purged []uuid.UUID
}

func (f *fakePurger) DeleteForVideo(_ context.Context, videoID uuid.UUID) error {
	f.purged = append(f.purged, videoID)
	return nil
}

type fixture struct {
	svc       *Service
	repo      *fakeRepo
	store     *fakeStore
	publisher *fakePublisher
	notifier  *fakeNotifier
	purger    *fakePurger
	metrics   *fakeMetrics
	teamID    uuid.UUID
	creator   uuid.UUID
	editor    uuid.UUID
	manager   uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:      newFakeRepo(),
		store:     newFakeStore(),
		publisher: &fakePublisher{id: "yt-123"},
		notifier:  &fakeNotifier{},
		purger:    &fakePurger{},
		metrics:   &fakeMetrics{},
		teamID:    uuid.New(),
		creator:   uuid.New(),
		editor:    uuid.New(),
		manager:   uuid.New(),
	}
	roles := &fakeRoles{roles: map[uuid.UUID]string{
		f.creator: string(team.RoleCreator),
		f.editor:  string(team.RoleEditor),
		f.manager: string(team.RoleManager),
	}}
	f.svc = NewService(
		f.repo, roles, &fakeTeams{owner: f.creator}, f.store,
		f.publisher, &fakeThumbs{img: []byte("png"), ct: "image/png"},
		f.notifier, f.purger, f.metrics, zap.NewNop(),
	)
	return f
}

func (f *fixture) seedVideo(status Status) *Video {
	v := &Video{
		ID:         uuid.New(),
		TeamID:     f.teamID,
		Title:      "Launch teaser",
		MediaKey:   "teams/x/videos/teaser.mp4",
		Status:     status,
		UploadedBy: f.editor,
	}
	f.repo.videos[v.ID] = v
	return v
}

func TestCreate(t *testing.T) {
	f := newFixture()

	v, err := f.svc.Create(context.Background(), f.teamID, f.editor, &UploadRequest{
		Title:    "Launch teaser",
		Tags:     []string{"launch", " teaser "},
		MediaKey: "teams/x/videos/teaser.mp4",
		FileSize: 1 << 20,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, v.Status)
	assert.Equal(t, f.editor, v.UploadedBy)
	assert.Equal(t, []string{"launch", "teaser"}, v.TagList())
	assert.Equal(t, "https://media.test/teams/x/videos/teaser.mp4", v.MediaURL)
	assert.Equal(t, PrivacyPrivate, v.Privacy)
	assert.Equal(t, 1, f.notifier.uploaded)
	assert.Equal(t, []string{"pending"}, f.metrics.transitions)
}

func TestCreateRequiresMembership(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), f.teamID, uuid.New(), &UploadRequest{
		Title:    "Outsider",
		MediaKey: "k",
	})
	assert.ErrorIs(t, err, ErrInsufficientPermission)
}

func TestGetIsTeamScoped(t *testing.T) {
	f := newFixture()
	v := f.seedVideo(StatusPending)

	got, err := f.svc.Get(context.Background(), f.teamID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	_, err = f.svc.Get(context.Background(), uuid.New(), v.ID)
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestApprove(t *testing.T) {
	t.Run("pending video publishes when youtube is connected", func(t *testing.T) {
		f := newFixture()
		v := f.seedVideo(StatusPending)

		got, notice, err := f.svc.Approve(context.Background(), f.teamID, f.creator, v.ID)
		require.NoError(t, err)
		assert.Empty(t, notice)
		assert.Equal(t, StatusPublished, got.Status)
		assert.Equal(t, "yt-123", got.YouTubeID)
		assert.Equal(t, "https://www.youtube.com/watch?v=yt-123", got.YouTubeURL)
		assert.NotNil(t, got.ApprovedAt)
		assert.Equal(t, f.creator, *got.ApprovedBy)
		assert.Equal(t, 1, f.notifier.approved)
		assert.Equal(t, 1, f.notifier.published)
		assert.Equal(t, []string{"approved", "published"}, f.metrics.transitions)
	})

	t.Run("no youtube connection leaves video approved with notice", func(t *testing.T) {
		f := newFixture()
		f.publisher.err = ErrYouTubeNotConnected
		v := f.seedVideo(StatusPending)

		got, notice, err := f.svc.Approve(context.Background(), f.teamID, f.creator, v.ID)
		require.NoError(t, err)
		assert.Equal(t, NoticeYouTubeNotConnected, notice)
		assert.Equal(t, StatusApproved, got.Status)
		assert.Zero(t, f.metrics.publishFailures)
	})

	t.Run("upload failure records publish error and stays approved", func(t *testing.T) {
		f := newFixture()
		f.publisher.err = errors.New("quota exceeded")
		v := f.seedVideo(StatusPending)

		got, notice, err := f.svc.Approve(context.Background(), f.teamID, f.creator, v.ID)
		require.NoError(t, err)
		assert.Empty(t, notice)
		assert.Equal(t, StatusApproved, got.Status)
		assert.Equal(t, "quota exceeded", got.PublishError)
		assert.Equal(t, 1, f.metrics.publishFailures)
	})

	t.Run("idempotent on approved and retries publish", func(t *testing.T) {
		f := newFixture()
		f.publisher.err = ErrYouTubeNotConnected
		v := f.seedVideo(StatusApproved)

		_, notice, err := f.svc.Approve(context.Background(), f.teamID, f.creator, v.ID)
		require.NoError(t, err)
		assert.Equal(t, NoticeYouTubeNotConnected, notice)
		assert.Equal(t, 1, f.publisher.calls)
		assert.Zero(t, f.notifier.approved)

		f.publisher.err = nil
		got, _, err := f.svc.Approve(context.Background(), f.teamID, f.creator, v.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPublished, got.Status)
	})

	t.Run("terminal states conflict", func(t *testing.T) {
		f := newFixture()
		for _, status := range []Status{StatusRejected, StatusPublished} {
			v := f.seedVideo(status)
			_, _, err := f.svc.Approve(context.Background(), f.teamID, f.creator, v.ID)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	})

	t.Run("only creator may approve", func(t *testing.T) {
		f := newFixture()
		v := f.seedVideo(StatusPending)
		for _, actor := range []uuid.UUID{f.editor, f.manager} {
			_, _, err := f.svc.Approve(context.Background(), f.teamID, actor, v.ID)
			assert.ErrorIs(t, err, ErrInsufficientPermission)
		}
	})
}

func TestPublish(t *testing.T) {
	t.Run("approved video publishes", func(t *testing.T) {
		f := newFixture()
		v := f.seedVideo(StatusApproved)
		v.PublishError = "quota exceeded"

		got, err := f.svc.Publish(context.Background(), f.teamID, f.creator, v.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPublished, got.Status)
		assert.Empty(t, got.PublishError)
		assert.Equal(t, 1, f.notifier.published)
	})

	t.Run("retriable while approved", func(t *testing.T) {
		f := newFixture()
		f.publisher.err = errors.New("upstream 500")
		v := f.seedVideo(StatusApproved)

		_, err := f.svc.Publish(context.Background(), f.teamID, f.creator, v.ID)
		require.Error(t, err)
		stored, _ := f.repo.GetByID(context.Background(), v.ID)
		assert.Equal(t, StatusApproved, stored.Status)
		assert.Equal(t, "upstream 500", stored.PublishError)

		f.publisher.err = nil
		got, err := f.svc.Publish(context.Background(), f.teamID, f.creator, v.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPublished, got.Status)
	})

	t.Run("not connected surfaces as error", func(t *testing.T) {
		f := newFixture()
		f.publisher.err = ErrYouTubeNotConnected
		v := f.seedVideo(StatusApproved)

		_, err := f.svc.Publish(context.Background(), f.teamID, f.creator, v.ID)
		assert.ErrorIs(t, err, ErrYouTubeNotConnected)
	})

	t.Run("idempotent on published", func(t *testing.T) {
		f := newFixture()
		v := f.seedVideo(StatusPublished)
		v.YouTubeID = "yt-old"

		got, err := f.svc.Publish(context.Background(), f.teamID, f.creator, v.ID)
		require.NoError(t, err)
		assert.Equal(t, "yt-old", got.YouTubeID)
		assert.Zero(t, f.publisher.calls)
	})

	t.Run("pending videos cannot be published", func(t *testing.T) {
		f := newFixture()
		v := f.seedVideo(StatusPending)

		_, err := f.svc.Publish(context.Background(), f.teamID, f.creator, v.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestReject(t *testing.T) {
	t.Run("pending video rejects with reason", func(t *testing.T) {
		f := newFixture()
		v := f.seedVideo(StatusPending)

		got, err := f.svc.Reject(context.Background(), f.teamID, f.creator, v.ID, "audio out of sync")
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, got.Status)
		assert.Equal(t, "audio out of sync", got.RejectionReason)
		assert.Equal(t, f.creator, *got.RejectedBy)
		assert.Equal(t, 1, f.notifier.rejected)
	})

	t.Run("blank reason is a validation error", func(t *testing.T) {
		f := newFixture()
		v := f.seedVideo(StatusPending)

		_, err := f.svc.Reject(context.Background(), f.teamID, f.creator, v.ID, "   \n")
		assert.ErrorIs(t, err, ErrReasonRequired)
	})

	t.Run("non-pending conflicts", func(t *testing.T) {
		f := newFixture()
		for _, status := range []Status{StatusApproved, StatusRejected, StatusPublished} {
			v := f.seedVideo(status)
			_, err := f.svc.Reject(context.Background(), f.teamID, f.creator, v.ID, "reason")
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	})

	t.Run("only creator may reject", func(t *testing.T) {
		f := newFixture()
		v := f.seedVideo(StatusPending)

		_, err := f.svc.Reject(context.Background(), f.teamID, f.manager, v.ID, "reason")
		assert.ErrorIs(t, err, ErrInsufficientPermission)
	})
}

func TestDelete(t *testing.T) {
	t.Run("uploader deletes own video with media cleanup", func(t *testing.T) {
		f := newFixture()
		v := f.seedVideo(StatusPending)
		v.ThumbnailKey = "teams/x/thumbnails/t.png"

		err := f.svc.Delete(context.Background(), f.teamID, f.editor, v.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{v.MediaKey, v.ThumbnailKey}, f.store.deleted)
		assert.Equal(t, []uuid.UUID{v.ID}, f.purger.purged)
		_, err = f.repo.GetByID(context.Background(), v.ID)
		assert.ErrorIs(t, err, ErrVideoNotFound)
	})

	t.Run("creator deletes any video", func(t *testing.T) {
		f := newFixture()
		v := f.seedVideo(StatusPublished)

		err := f.svc.Delete(context.Background(), f.teamID, f.creator, v.ID)
		assert.NoError(t, err)
	})

	t.Run("manager cannot delete someone else's video", func(t *testing.T) {
		f := newFixture()
		v := f.seedVideo(StatusPending)

		err := f.svc.Delete(context.Background(), f.teamID, f.manager, v.ID)
		assert.ErrorIs(t, err, ErrInsufficientPermission)
	})

	t.Run("media cleanup failure does not block deletion", func(t *testing.T) {
		f := newFixture()
		f.store.delErr = errors.New("s3 unavailable")
		v := f.seedVideo(StatusPending)

		err := f.svc.Delete(context.Background(), f.teamID, f.editor, v.ID)
		require.NoError(t, err)
		_, err = f.repo.GetByID(context.Background(), v.ID)
		assert.ErrorIs(t, err, ErrVideoNotFound)
	})
}

func TestGenerateThumbnail(t *testing.T) {
	f := newFixture()
	v := f.seedVideo(StatusPending)

	got, err := f.svc.GenerateThumbnail(context.Background(), f.teamID, f.editor, v.ID, "neon skyline", "1280x720")
	require.NoError(t, err)
	assert.NotEmpty(t, got.ThumbnailKey)
	assert.Equal(t, "https://media.test/"+got.ThumbnailKey, got.ThumbnailURL)
	assert.Contains(t, f.store.objects, got.ThumbnailKey)

	_, err = f.svc.GenerateThumbnail(context.Background(), f.teamID, f.manager, v.ID, "neon skyline", "")
	assert.ErrorIs(t, err, ErrInsufficientPermission)
}
