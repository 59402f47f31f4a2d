package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sashabaranov/go-openai"

	"github.com/Vidhant007/cora/internal/config"
)

// Completion client settings, applied uniformly to every request.
const (
	RequestTimeout = 30 * time.Second
	MaxRetries     = 3
)

// Client is the Azure OpenAI chat completions client. It is safe to share
// across concurrent flows.
type Client struct {
	client     *openai.Client
	deployment string
	logger     *slog.Logger
}

// NewClient creates an Azure OpenAI client from a validated configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	azureCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	azureCfg.APIVersion = cfg.APIVersion
	// Deployment names are passed through as-is; the default mapper strips
	// characters like dots that are legal in deployment names.
	azureCfg.AzureModelMapperFunc = func(model string) string { return model }
	azureCfg.HTTPClient = &http.Client{Timeout: RequestTimeout}

	return &Client{
		client:     openai.NewClientWithConfig(azureCfg),
		deployment: cfg.Deployment,
		logger:     logger,
	}
}

// Deployment returns the configured deployment identifier.
func (c *Client) Deployment() string {
	return c.deployment
}

// Complete issues one chat completion request. When functions is non-empty
// the declarations are passed with selection mode auto; transient failures
// (rate limits, 5xx, network) are retried with exponential backoff.
func (c *Client) Complete(ctx context.Context, messages []Message, functions []FunctionDefinition) (*Reply, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.deployment,
		Messages: toChatMessages(messages),
	}
	if len(functions) > 0 {
		req.Functions = toFunctionDefinitions(functions)
		req.FunctionCall = "auto"
	}

	var resp openai.ChatCompletionResponse
	operation := func() error {
		var err error
		resp, err = c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			c.logger.Warn("completion request failed", "err", err)
			return classifyForRetry(err)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices returned")
	}

	choice := resp.Choices[0].Message
	reply := &Reply{Content: choice.Content}
	if choice.FunctionCall != nil {
		reply.FunctionCall = &FunctionCall{
			Name:      choice.FunctionCall.Name,
			Arguments: choice.FunctionCall.Arguments,
		}
	}
	return reply, nil
}

// classifyForRetry marks errors that retrying cannot fix as permanent so
// the backoff loop stops immediately.
func classifyForRetry(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return backoff.Permanent(err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500 {
			return err
		}
		return backoff.Permanent(err)
	}

	// Network-level failures are worth retrying.
	return err
}

func toChatMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msg := openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
			Name:    m.Name,
		}
		if m.FunctionCall != nil {
			msg.FunctionCall = &openai.FunctionCall{
				Name:      m.FunctionCall.Name,
				Arguments: m.FunctionCall.Arguments,
			}
		}
		out = append(out, msg)
	}
	return out
}

func toFunctionDefinitions(functions []FunctionDefinition) []openai.FunctionDefinition {
	out := make([]openai.FunctionDefinition, 0, len(functions))
	for _, f := range functions {
		out = append(out, openai.FunctionDefinition{
			Name:        f.Name,
			Description: f.Description,
			Parameters:  f.Parameters,
		})
	}
	return out
}
