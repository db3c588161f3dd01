// Package openai writes lesson guides directly with an OpenAI-compatible
// chat completions endpoint, for deployments without the guide API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"puente-backend/internal/generation"
)

// Client implements generation.Generator using the official openai-go SDK.
type Client struct {
	model string
	sdk   sdk.Client
}

// NewClient constructs a new OpenAI client. baseURL may be empty.
func NewClient(apiKey, model, baseURL string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// Failures go straight back to the user; a new submit is the retry.
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{model: model, sdk: sdk.NewClient(opts...)}, nil
}

// Generate asks the model for a markdown guide.
func (c *Client) Generate(ctx context.Context, req generation.Request) (generation.Response, error) {
	messages := BuildPrompt(req)
	params := make([]sdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			params = append(params, sdk.SystemMessage(m.Content))
		default:
			params = append(params, sdk.UserMessage(m.Content))
		}
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model:    sdk.ChatModel(c.model),
		Messages: params,
	})
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			msg := strings.TrimSpace(apiErr.Message)
			if msg == "" {
				msg = err.Error()
			}
			return generation.Response{}, &generation.Error{
				Status:  apiErr.StatusCode,
				Message: msg,
				Err:     err,
			}
		}
		return generation.Response{}, &generation.Error{Message: err.Error(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return generation.Response{}, &generation.Error{Message: "openai response missing choices"}
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return generation.Response{}, &generation.Error{Message: "openai response empty content"}
	}
	log.Printf("llm response model=%s prompt_tokens=%d completion_tokens=%d",
		c.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return generation.Response{ResultText: content}, nil
}

var _ generation.Generator = (*Client)(nil)
