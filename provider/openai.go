package provider

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"

	"github.com/nbbb26/lightermeet"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAI implements CompletionProvider using OpenAI's chat completion API.
// Failures are classified into a lightermeet.ErrorKind here, at the boundary
// where the structured error information still exists.
type OpenAI struct {
	client *openai.Client
	model  string
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey  string // OpenAI API key (uses OPENAI_API_KEY env var if empty)
	Model   string // Model to use (default: "gpt-4o-mini")
	BaseURL string // Custom base URL (optional)
}

// NewOpenAI creates a new OpenAI provider. A missing API key is a
// configuration error, fatal to every call, so it is rejected up front.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return nil, &lightermeet.ProviderError{
			Kind:    lightermeet.KindConfig,
			Message: "OPENAI_API_KEY is not configured",
		}
	}

	config := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Complete sends one chat completion request and returns the raw text.
func (p *OpenAI) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", &lightermeet.ProviderError{
			Kind:    Classify(err),
			Message: "completion call failed",
			Cause:   err,
		}
	}

	if len(resp.Choices) == 0 {
		return "", &lightermeet.ProviderError{
			Kind:    lightermeet.KindMalformed,
			Message: "no choices in completion response",
		}
	}

	return resp.Choices[0].Message.Content, nil
}

// Classify maps a transport or API error to an ErrorKind. Classification
// uses the error's type and status code, never its message text.
func Classify(err error) lightermeet.ErrorKind {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return lightermeet.KindRateLimited
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return lightermeet.KindConfig
		case apiErr.HTTPStatusCode >= 500:
			return lightermeet.KindNetwork
		default:
			return lightermeet.KindOther
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case 429:
			return lightermeet.KindRateLimited
		case 401, 403:
			return lightermeet.KindConfig
		}
		return lightermeet.KindNetwork
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return lightermeet.KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return lightermeet.KindCanceled
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return lightermeet.KindTimeout
		}
		return lightermeet.KindNetwork
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return lightermeet.KindNetwork
	}

	return lightermeet.KindOther
}

// Verify OpenAI implements CompletionProvider
var _ CompletionProvider = (*OpenAI)(nil)
