package youtube

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/videoflow/server/internal/module/user"
)

// OAuthProvider is the Google OAuth surface the service depends on.
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource
	FetchChannel(ctx context.Context, token *oauth2.Token) (*Channel, error)
}

// StateStore keeps OAuth CSRF states between the auth-url and callback
// requests.
type StateStore interface {
	Set(ctx context.Context, state, userID string) error
	Consume(ctx context.Context, state string) (string, error)
}

// UserStore reads and writes the YouTube connection on user records.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	SetYouTubeTokens(ctx context.Context, userID uuid.UUID, tokens *user.YouTubeTokens) error
	ClearYouTubeTokens(ctx context.Context, userID uuid.UUID) error
}

// Service runs the YouTube connect flow.
type Service struct {
	provider OAuthProvider
	states   StateStore
	users    UserStore
	logger   *zap.Logger
}

// NewService creates a new YouTube service.
func NewService(provider OAuthProvider, states StateStore, users UserStore, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		states:   states,
		users:    users,
		logger:   logger,
	}
}

// AuthURL starts a connect flow for the user and returns the consent URL.
func (s *Service) AuthURL(ctx context.Context, userID uuid.UUID) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}
	if err := s.states.Set(ctx, state, userID.String()); err != nil {
		return "", err
	}
	return s.provider.AuthURL(state), nil
}

// HandleCallback finishes the connect flow: it validates the state, trades
// the code for tokens, fetches the channel and attaches everything to the
// user who started the flow.
func (s *Service) HandleCallback(ctx context.Context, state, code string) (*Channel, error) {
	rawUserID, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, ErrInvalidState
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return nil, ErrInvalidState
	}

	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	channel, err := s.provider.FetchChannel(ctx, token)
	if err != nil {
		return nil, err
	}

	err = s.users.SetYouTubeTokens(ctx, userID, &user.YouTubeTokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		ChannelID:    channel.ID,
		ChannelTitle: channel.Title,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("youtube account connected",
		zap.String("user_id", userID.String()),
		zap.String("channel_id", channel.ID),
	)

	return channel, nil
}

// Status reports whether the user has a YouTube connection.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (*StatusResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &StatusResponse{Connected: u.YouTubeConnected()}
	if resp.Connected {
		if u.YouTubeChannelID != nil {
			resp.ChannelID = *u.YouTubeChannelID
		}
		if u.YouTubeChannelTitle != nil {
			resp.ChannelTitle = *u.YouTubeChannelTitle
		}
		resp.ConnectedAt = u.YouTubeConnectedAt
	}
	return resp, nil
}

// Disconnect drops the user's YouTube connection.
func (s *Service) Disconnect(ctx context.Context, userID uuid.UUID) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.YouTubeConnected() {
		return ErrNotConnected
	}
	return s.users.ClearYouTubeTokens(ctx, userID)
}

// tokenFor assembles the stored token pair for a user, refreshable through
// the provider.
func (s *Service) tokenFor(ctx context.Context, userID uuid.UUID) (*oauth2.Token, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.YouTubeConnected() {
		return nil, ErrNotConnected
	}

	token := &oauth2.Token{
		AccessToken:  *u.YouTubeAccessToken,
		RefreshToken: *u.YouTubeRefreshToken,
	}
	if u.YouTubeTokenExpiry != nil {
		token.Expiry = *u.YouTubeTokenExpiry
	}
	return token, nil
}

func generateState() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
