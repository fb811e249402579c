package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"helpdesk/app/config"

	"github.com/samber/oops"
	"github.com/sashabaranov/go-openai"
)

const requestTimeout = 30 * time.Second

// Client wraps an OpenAI-compatible chat endpoint with a single model.
type Client struct {
	client *openai.Client
	model  string
}

func NewClient(cfg config.ModelConfig) *Client {
	clientConfig := openai.DefaultConfig(cfg.Token)

	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: requestTimeout,
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

type CompleteOptions struct {
	Temperature float32
	MaxTokens   int
	JSONMode    bool
}

func (c *Client) Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature:         opts.Temperature,
		MaxCompletionTokens: opts.MaxTokens,
	}

	if opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	aiResponse, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", oops.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return "", oops.Errorf("no chat completion found")
	}

	return strings.TrimSpace(aiResponse.Choices[0].Message.Content), nil
}

// TrimJSON strips markdown fences and any text around the outermost JSON object.
// Models routinely wrap JSON answers in ```json fences even when told not to.
func TrimJSON(content string) string {
	content = strings.Trim(content, "`")
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "json")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start > end {
		return content
	}

	return content[start : end+1]
}
