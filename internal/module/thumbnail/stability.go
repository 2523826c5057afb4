package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const stabilityEndpoint = "https://api.stability.ai/v2beta/stable-image/generate/core"

// StabilityVendor generates thumbnails with the Stability AI image API.
type StabilityVendor struct {
	apiKey string
	client *http.Client
}

// NewStabilityVendor creates a Stability vendor.
func NewStabilityVendor(apiKey string, client *http.Client) *StabilityVendor {
	if client == nil {
		client = http.DefaultClient
	}
	return &StabilityVendor{apiKey: apiKey, client: client}
}

// Name returns the vendor identifier.
func (v *StabilityVendor) Name() string {
	return "stability"
}

// Generate requests a PNG via the multipart form API.
func (v *StabilityVendor) Generate(ctx context.Context, prompt, size string) ([]byte, string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("prompt", prompt); err != nil {
		return nil, "", err
	}
	if err := form.WriteField("aspect_ratio", aspectRatio(size)); err != nil {
		return nil, "", err
	}
	if err := form.WriteField("output_format", "png"); err != nil {
		return nil, "", err
	}
	if err := form.Close(); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, stabilityEndpoint, &body)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	req.Header.Set("Accept", "image/*")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("stability request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("stability api returned status %d", resp.StatusCode)
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read stability response: %w", err)
	}

	return img, "image/png", nil
}

// aspectRatio maps a WxH size to Stability's aspect ratio parameter.
func aspectRatio(size string) string {
	switch {
	case strings.HasPrefix(size, "1792x"), strings.HasPrefix(size, "1280x"):
		return "16:9"
	case size == "1024x1024":
		return "1:1"
	default:
		return "16:9"
	}
}
