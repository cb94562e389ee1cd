package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/dialogen/internal/config"
	"github.com/phrazzld/dialogen/internal/generation"
	"google.golang.org/genai"
)

// Client implements the generation.ModelClient interface using Google's
// Gemini API. A genai client binds its API key at construction, so Client
// keeps one underlying genai client per credential, created lazily and
// reused across calls.
//
// Client performs exactly one outbound call per Generate invocation and
// never retries internally; rotation and backoff live in the generation
// loop.
type Client struct {
	// logger is used for structured logging
	logger *slog.Logger

	// cfg contains LLM-specific configuration
	cfg config.LLMConfig

	// clients caches one genai client per credential
	clients map[string]*genai.Client
}

// NewClient creates a new Gemini Client with the provided dependencies.
//
// Parameters:
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing the model name and generation settings
//
// Returns:
//   - A properly initialized Client or an error if the configuration is invalid
func NewClient(logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.MaxOutputTokens <= 0 {
		return nil, fmt.Errorf("%w: max output tokens must be positive", generation.ErrInvalidConfig)
	}

	return &Client{
		logger:  logger,
		cfg:     cfg,
		clients: make(map[string]*genai.Client),
	}, nil
}

// Generate issues one generation request with the given prompt pair and
// credential and returns the raw model text. An empty response body is
// returned as an empty string with a nil error; deciding what to do with
// unparseable text is the caller's concern.
//
// Errors are classified before returning: quota and rate-limit conditions
// match generation.ErrQuotaExceeded, everything else matches
// generation.ErrTransientFailure.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt, credential string) (string, error) {
	client, err := c.clientFor(ctx, credential)
	if err != nil {
		return "", err
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.cfg.Temperature)),
		MaxOutputTokens: int32(c.cfg.MaxOutputTokens),
	}
	if systemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	resp, err := client.Models.GenerateContent(ctx, c.cfg.ModelName, genai.Text(userPrompt), genCfg)
	if err != nil {
		return "", classify(err)
	}

	text := responseText(resp)
	c.logger.DebugContext(ctx, "Gemini call completed",
		"model", c.cfg.ModelName,
		"response_length", len(text))

	return text, nil
}

// clientFor returns the cached genai client for the credential, creating
// it on first use.
func (c *Client) clientFor(ctx context.Context, credential string) (*genai.Client, error) {
	if client, ok := c.clients[credential]; ok {
		return client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  credential,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrTransientFailure, err)
	}

	c.clients[credential] = client
	return client, nil
}

// responseText concatenates the text parts of the first candidate. Missing
// candidates or content yield an empty string.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// classify maps an upstream API error onto the generation error taxonomy.
// Quota exhaustion is a distinguished, recoverable condition; everything
// else is opaque and not retried.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return fmt.Errorf("%w: %v", generation.ErrQuotaExceeded, err)
		}
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	// Some transports surface quota conditions as plain errors.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource exhausted") {
		return fmt.Errorf("%w: %v", generation.ErrQuotaExceeded, err)
	}

	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}
