package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/ecoverse/ecopress/internal/prompts"
	"github.com/go-resty/resty/v2"
)

// ImageGenerator calls an OpenAI-compatible image generation endpoint
// and returns the decoded payload. Failures here are expected and
// absorbed by the resolver's fallback chain.
type ImageGenerator struct {
	client   *resty.Client
	model    string
	size     string
	endpoint string
	enabled  bool
}

// ImageGeneratorConfig holds configuration for the image generator.
type ImageGeneratorConfig struct {
	Enabled bool
	Model   string
	APIKey  string
	BaseURL string
	Size    string
	Timeout time.Duration
}

// NewImageGenerator creates a new ImageGenerator.
func NewImageGenerator(cfg *ImageGeneratorConfig) *ImageGenerator {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	client.SetTimeout(timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	size := cfg.Size
	if size == "" {
		size = "1792x1024"
	}

	return &ImageGenerator{
		client:   client,
		model:    cfg.Model,
		size:     size,
		endpoint: baseURL + "/images/generations",
		enabled:  cfg.Enabled,
	}
}

// Enabled reports whether AI image generation is configured on.
func (g *ImageGenerator) Enabled() bool {
	return g.enabled
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate requests a featured image for the given keyword/title and
// returns the raw PNG bytes.
func (g *ImageGenerator) Generate(ctx context.Context, keyword, title string) ([]byte, string, error) {
	req := imageRequest{
		Model:          g.model,
		Prompt:         prompts.FeaturedImagePrompt(keyword, title),
		N:              1,
		Size:           g.size,
		ResponseFormat: "b64_json",
	}

	var resp imageResponse
	httpResp, err := g.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(g.endpoint)

	if err != nil {
		return nil, "", fmt.Errorf("failed to call image API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errorMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		} else if len(httpResp.Body()) > 0 {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return nil, "", fmt.Errorf("image API returned error: %s", errorMsg)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, "", fmt.Errorf("no image in response (status: %d)", httpResp.StatusCode())
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image payload: %w", err)
	}

	return data, "image/png", nil
}
