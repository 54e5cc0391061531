package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ecoverse/ecopress/internal/domain"
	"github.com/ecoverse/ecopress/internal/prompts"
	"github.com/go-resty/resty/v2"
)

// ContentGenerator turns a source item into a structured article draft
// by calling an OpenAI-compatible chat completions endpoint with a
// strict JSON output contract. This is the most failure-prone step of
// the pipeline; every failure path returns an error for the
// orchestrator to record, never a panic.
type ContentGenerator struct {
	client   *resty.Client
	model    string
	endpoint string
	apiKey   string
}

// GeneratorConfig holds configuration for the content generator.
type GeneratorConfig struct {
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewContentGenerator creates a new ContentGenerator.
func NewContentGenerator(cfg *GeneratorConfig) *ContentGenerator {
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

	return &ContentGenerator{
		client:   client,
		model:    cfg.Model,
		endpoint: baseURL + "/chat/completions",
		apiKey:   cfg.APIKey,
	}
}

// Ready reports whether the generator can make API calls. A missing
// key fails every item identically, so the batch refuses to start.
func (g *ContentGenerator) Ready() error {
	if g.apiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// OpenAI-compatible chat completion request/response structures
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate produces an article draft for one source item.
// titlesContext is a newline-separated list of published titles the
// model may use for internal links.
func (g *ContentGenerator) Generate(ctx context.Context, item *domain.SourceItem, titlesContext string) (*domain.GeneratedDraft, error) {
	req := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompts.ArticleSystemPrompt},
			{Role: "user", Content: prompts.ArticleUserPrompt(item.Title, item.RawContent, item.SourceURL, titlesContext)},
		},
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	var resp chatResponse
	httpResp, err := g.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(g.endpoint)

	if err != nil {
		return nil, fmt.Errorf("failed to call generation API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errorMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		} else if len(httpResp.Body()) > 0 {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return nil, fmt.Errorf("generation API returned error: %s", errorMsg)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("generation API error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in generation response (status: %d)", httpResp.StatusCode())
	}

	draft, err := ParseDraft(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated article: %w", err)
	}

	return draft, nil
}

// ParseDraft extracts the draft JSON from the model output. Models
// occasionally wrap the object in prose or markdown fences despite the
// contract, so the object is located by brace matching rather than
// unmarshaling the raw content.
func ParseDraft(content string) (*domain.GeneratedDraft, error) {
	jsonStart := strings.Index(content, "{")
	if jsonStart == -1 {
		return nil, fmt.Errorf("no JSON found in response")
	}

	braceCount := 0
	jsonEnd := -1
	inString := false
	escaped := false
findJSON:
	for i := jsonStart; i < len(content); i++ {
		c := content[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '{':
			if !inString {
				braceCount++
			}
		case '}':
			if !inString {
				braceCount--
				if braceCount == 0 {
					jsonEnd = i + 1
					break findJSON
				}
			}
		}
	}

	if jsonEnd == -1 {
		return nil, fmt.Errorf("incomplete JSON in response")
	}

	var draft domain.GeneratedDraft
	if err := json.Unmarshal([]byte(content[jsonStart:jsonEnd]), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	return &draft, nil
}

// validateDraft checks the fields the pipeline cannot proceed without.
func validateDraft(d *domain.GeneratedDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("draft is missing a title")
	}
	if strings.TrimSpace(d.HTMLContent) == "" {
		return fmt.Errorf("draft is missing body content")
	}
	if strings.TrimSpace(d.MainKeyword) == "" {
		d.MainKeyword = d.Title
	}
	if d.ReadingTime <= 0 {
		d.ReadingTime = 5
	}
	return nil
}
