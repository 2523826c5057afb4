package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/videoflow/server/internal/shared/config"
)

const channelsEndpoint = "https://youtube.googleapis.com/youtube/v3/channels?part=snippet&mine=true"

var uploadScopes = []string{
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube.readonly",
}

// Channel is the connected YouTube channel's identity.
type Channel struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Provider wraps the Google OAuth flow and the channel metadata call.
type Provider struct {
	config *oauth2.Config
	client *http.Client
}

// NewProvider creates a YouTube OAuth provider.
func NewProvider(cfg *config.YouTubeConfig) *Provider {
	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       uploadScopes,
			Endpoint:     google.Endpoint,
		},
		client: http.DefaultClient,
	}
}

// AuthURL builds the consent URL. Offline access is required to obtain a
// refresh token.
func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for a token pair.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.config.Exchange(ctx, code)
}

// TokenSource returns a refreshing token source for stored tokens.
func (p *Provider) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return p.config.TokenSource(ctx, token)
}

// FetchChannel returns the authenticated account's channel.
func (p *Provider) FetchChannel(ctx context.Context, token *oauth2.Token) (*Channel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, channelsEndpoint, nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube channels api error: %d", resp.StatusCode)
	}

	var data struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if len(data.Items) == 0 {
		return nil, ErrNoChannel
	}

	return &Channel{
		ID:    data.Items[0].ID,
		Title: data.Items[0].Snippet.Title,
	}, nil
}
