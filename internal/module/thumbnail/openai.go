package thumbnail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

const openAIImagesEndpoint = "https://api.openai.com/v1/images/generations"

// OpenAIVendor generates thumbnails with the OpenAI images API.
type OpenAIVendor struct {
	apiKey string
	client *http.Client
}

// NewOpenAIVendor creates an OpenAI images vendor.
func NewOpenAIVendor(apiKey string, client *http.Client) *OpenAIVendor {
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenAIVendor{apiKey: apiKey, client: client}
}

// Name returns the vendor identifier.
func (v *OpenAIVendor) Name() string {
	return "openai"
}

// Generate requests one image as base64 and decodes it.
func (v *OpenAIVendor) Generate(ctx context.Context, prompt, size string) ([]byte, string, error) {
	if size == "" {
		size = "1792x1024"
	}

	body, err := json.Marshal(map[string]any{
		"model":           "dall-e-3",
		"prompt":          prompt,
		"n":               1,
		"size":            size,
		"response_format": "b64_json",
	})
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIImagesEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("openai images api returned status %d", resp.StatusCode)
	}

	var result struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, "", fmt.Errorf("openai returned no images")
	}

	img, err := base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	return img, "image/png", nil
}
