package summarizer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// openAIEngine calls the OpenAI chat completion API.
type openAIEngine struct {
	client *openai.Client
	model  string
}

func newOpenAIEngine(cfg Config, httpClient *http.Client) *openAIEngine {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}
	return &openAIEngine{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

func (e *openAIEngine) summarize(ctx context.Context, input string, p Params) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(input, p)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
