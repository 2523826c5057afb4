package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/videoflow/server/internal/module/video"
)

const resumableUploadEndpoint = "https://www.googleapis.com/upload/youtube/v3/videos?uploadType=resumable&part=snippet,status"

// defaultCategoryID is "People & Blogs", YouTube's fallback category.
const defaultCategoryID = "22"

// MediaOpener streams stored media objects.
type MediaOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
}

// Publisher uploads videos to YouTube with the team owner's credentials.
// It satisfies the video module's publisher contract.
type Publisher struct {
	service *Service
	media   MediaOpener
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	logger  *zap.Logger
}

// NewPublisher creates a YouTube publisher. The circuit breaker opens after
// repeated upstream failures so a YouTube outage fails fast instead of
// tying up workers.
func NewPublisher(service *Service, media MediaOpener, logger *zap.Logger) *Publisher {
	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "youtube-upload",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Publisher{
		service: service,
		media:   media,
		client:  &http.Client{Timeout: 10 * time.Minute},
		breaker: breaker,
		logger:  logger,
	}
}

// Upload publishes a video to the owner's channel and returns the YouTube
// video ID.
func (p *Publisher) Upload(ctx context.Context, ownerID uuid.UUID, v *video.Video) (string, error) {
	token, err := p.service.tokenFor(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return "", video.ErrYouTubeNotConnected
		}
		return "", err
	}

	id, err := p.breaker.Execute(func() (string, error) {
		return p.upload(ctx, token, v)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", video.ErrPublishUnavailable
		}
		return "", err
	}
	return id, nil
}

// upload runs the two-step resumable upload: create a session with the
// metadata, then stream the media bytes to the session URL.
func (p *Publisher) upload(ctx context.Context, token *oauth2.Token, v *video.Video) (string, error) {
	src := p.service.provider.TokenSource(ctx, token)
	fresh, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}

	sessionURL, err := p.createSession(ctx, fresh, v)
	if err != nil {
		return "", err
	}

	body, size, err := p.media.Open(ctx, v.MediaKey)
	if err != nil {
		return "", fmt.Errorf("open media: %w", err)
	}
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, sessionURL, body)
	if err != nil {
		return "", err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "video/*")
	fresh.SetAuthHeader(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("youtube upload error: %d", resp.StatusCode)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if result.ID == "" {
		return "", errors.New("youtube upload returned no video id")
	}

	return result.ID, nil
}

func (p *Publisher) createSession(ctx context.Context, token *oauth2.Token, v *video.Video) (string, error) {
	meta := map[string]any{
		"snippet": map[string]any{
			"title":       v.Title,
			"description": v.Description,
			"tags":        v.TagList(),
			"categoryId":  categoryID(v.Category),
		},
		"status": map[string]any{
			"privacyStatus": v.Privacy,
		},
	}
	payload, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resumableUploadEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Upload-Content-Type", "video/*")
	token.SetAuthHeader(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create upload session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("youtube session error: %d", resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", errors.New("youtube session returned no upload url")
	}
	return location, nil
}

var categoryIDs = map[string]string{
	"film":          "1",
	"music":         "10",
	"sports":        "17",
	"gaming":        "20",
	"people":        "22",
	"comedy":        "23",
	"entertainment": "24",
	"news":          "25",
	"howto":         "26",
	"education":     "27",
	"science":       "28",
}

func categoryID(category string) string {
	if id, ok := categoryIDs[category]; ok {
		return id
	}
	return defaultCategoryID
}
