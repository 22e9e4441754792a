package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Config holds the image provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client calls an OpenAI-compatible images API.
type Client struct {
	client *openai.Client
	logger *slog.Logger
}

// NewClient creates an image generation client. BaseURL is optional and
// overrides the default endpoint for OpenAI-compatible providers.
func NewClient(cfg Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		logger: logger,
	}
}

// Generate runs one image generation call and returns the image URL.
// An empty URL in the provider response is treated as a failure.
func (c *Client) Generate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          req.Model,
		Style:          req.Style,
		Size:           req.Size,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		c.logger.Error("image generation failed",
			"model", req.Model,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return Result{}, parseAPIError(err)
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		c.logger.Error("image provider returned no image",
			"model", req.Model,
			"duration_ms", time.Since(start).Milliseconds())
		return Result{}, fmt.Errorf("empty image response: %w", ErrProviderError)
	}

	c.logger.Info("image generated",
		"model", req.Model,
		"duration_ms", time.Since(start).Milliseconds())

	return Result{URL: resp.Data[0].URL}, nil
}

// parseAPIError extracts a readable message from the provider response.
// All errors are wrapped with ErrProviderError so callers can map them
// to a single failure class.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("image API error %d: %s: %w",
			reqErr.HTTPStatusCode, detail, ErrProviderError)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("image API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, ErrProviderError)
	}

	return fmt.Errorf("image request failed: %w", ErrProviderError)
}

// extractDetail pulls the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
