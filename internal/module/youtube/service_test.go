package youtube

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/videoflow/server/internal/module/user"
	"github.com/videoflow/server/internal/shared/logger"
)

type fakeProvider struct {
	token   *oauth2.Token
	channel *Channel

	exchangeErr error
	channelErr  error
}

func (p *fakeProvider) AuthURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (p *fakeProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return p.token, nil
}

func (p *fakeProvider) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return oauth2.StaticTokenSource(token)
}

func (p *fakeProvider) FetchChannel(ctx context.Context, token *oauth2.Token) (*Channel, error) {
	if p.channelErr != nil {
		return nil, p.channelErr
	}
	return p.channel, nil
}

type fakeStates struct {
	states map[string]string
}

func newFakeStates() *fakeStates {
	return &fakeStates{states: make(map[string]string)}
}

func (s *fakeStates) Set(ctx context.Context, state, userID string) error {
	s.states[state] = userID
	return nil
}

func (s *fakeStates) Consume(ctx context.Context, state string) (string, error) {
	userID, ok := s.states[state]
	if !ok {
		return "", errors.New("state not found")
	}
	delete(s.states, state)
	return userID, nil
}

type fakeUsers struct {
	users map[uuid.UUID]*user.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[uuid.UUID]*user.User)}
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) SetYouTubeTokens(ctx context.Context, userID uuid.UUID, tokens *user.YouTubeTokens) error {
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	now := time.Now()
	u.YouTubeAccessToken = &tokens.AccessToken
	u.YouTubeRefreshToken = &tokens.RefreshToken
	u.YouTubeTokenExpiry = &tokens.Expiry
	u.YouTubeChannelID = &tokens.ChannelID
	u.YouTubeChannelTitle = &tokens.ChannelTitle
	u.YouTubeConnectedAt = &now
	return nil
}

func (f *fakeUsers) ClearYouTubeTokens(ctx context.Context, userID uuid.UUID) error {
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.YouTubeAccessToken = nil
	u.YouTubeRefreshToken = nil
	u.YouTubeTokenExpiry = nil
	u.YouTubeChannelID = nil
	u.YouTubeChannelTitle = nil
	u.YouTubeConnectedAt = nil
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeProvider, *fakeStates, *fakeUsers) {
	t.Helper()
	provider := &fakeProvider{
		token: &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(time.Hour),
		},
		channel: &Channel{ID: "UC123", Title: "My Channel"},
	}
	states := newFakeStates()
	users := newFakeUsers()
	return NewService(provider, states, users, logger.NewNop()), provider, states, users
}

func TestAuthURL(t *testing.T) {
	ctx := context.Background()
	svc, _, states, _ := newTestService(t)

	userID := uuid.New()
	url, err := svc.AuthURL(ctx, userID)
	require.NoError(t, err)
	assert.Contains(t, url, "state=")

	// The state must be stored against the requesting user.
	require.Len(t, states.states, 1)
	for _, stored := range states.states {
		assert.Equal(t, userID.String(), stored)
	}
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("connects the channel to the flow's user", func(t *testing.T) {
		svc, _, states, users := newTestService(t)

		userID := uuid.New()
		users.users[userID] = &user.User{ID: userID}
		require.NoError(t, states.Set(ctx, "state-1", userID.String()))

		channel, err := svc.HandleCallback(ctx, "state-1", "code")
		require.NoError(t, err)
		assert.Equal(t, "UC123", channel.ID)

		u := users.users[userID]
		assert.True(t, u.YouTubeConnected())
		require.NotNil(t, u.YouTubeChannelTitle)
		assert.Equal(t, "My Channel", *u.YouTubeChannelTitle)
	})

	t.Run("unknown state is rejected", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.HandleCallback(ctx, "never-issued", "code")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("state is single use", func(t *testing.T) {
		svc, _, states, users := newTestService(t)

		userID := uuid.New()
		users.users[userID] = &user.User{ID: userID}
		require.NoError(t, states.Set(ctx, "state-2", userID.String()))

		_, err := svc.HandleCallback(ctx, "state-2", "code")
		require.NoError(t, err)

		_, err = svc.HandleCallback(ctx, "state-2", "code")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("exchange failure surfaces", func(t *testing.T) {
		svc, provider, states, users := newTestService(t)
		provider.exchangeErr = errors.New("boom")

		userID := uuid.New()
		users.users[userID] = &user.User{ID: userID}
		require.NoError(t, states.Set(ctx, "state-3", userID.String()))

		_, err := svc.HandleCallback(ctx, "state-3", "code")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidState)
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, states, users := newTestService(t)

	userID := uuid.New()
	users.users[userID] = &user.User{ID: userID}

	t.Run("disconnected", func(t *testing.T) {
		status, err := svc.Status(ctx, userID)
		require.NoError(t, err)
		assert.False(t, status.Connected)
		assert.Empty(t, status.ChannelID)
	})

	t.Run("connected", func(t *testing.T) {
		require.NoError(t, states.Set(ctx, "state-4", userID.String()))
		_, err := svc.HandleCallback(ctx, "state-4", "code")
		require.NoError(t, err)

		status, err := svc.Status(ctx, userID)
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, "UC123", status.ChannelID)
		assert.Equal(t, "My Channel", status.ChannelTitle)
		assert.NotNil(t, status.ConnectedAt)
	})
}

func TestDisconnect(t *testing.T) {
	ctx := context.Background()
	svc, _, states, users := newTestService(t)

	userID := uuid.New()
	users.users[userID] = &user.User{ID: userID}

	t.Run("without a connection", func(t *testing.T) {
		err := svc.Disconnect(ctx, userID)
		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("drops the stored tokens", func(t *testing.T) {
		require.NoError(t, states.Set(ctx, "state-5", userID.String()))
		_, err := svc.HandleCallback(ctx, "state-5", "code")
		require.NoError(t, err)

		require.NoError(t, svc.Disconnect(ctx, userID))
		assert.False(t, users.users[userID].YouTubeConnected())
	})
}

func TestTokenFor(t *testing.T) {
	ctx := context.Background()
	svc, _, states, users := newTestService(t)

	userID := uuid.New()
	users.users[userID] = &user.User{ID: userID}

	t.Run("not connected", func(t *testing.T) {
		_, err := svc.tokenFor(ctx, userID)
		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("returns the stored pair", func(t *testing.T) {
		require.NoError(t, states.Set(ctx, "state-6", userID.String()))
		_, err := svc.HandleCallback(ctx, "state-6", "code")
		require.NoError(t, err)

		token, err := svc.tokenFor(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "access", token.AccessToken)
		assert.Equal(t, "refresh", token.RefreshToken)
	})
}
