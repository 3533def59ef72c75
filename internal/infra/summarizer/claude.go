package summarizer

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// claudeMaxTokens leaves headroom above the word bound of any sane summary.
const claudeMaxTokens = 1024

// claudeEngine calls the Anthropic Messages API.
type claudeEngine struct {
	client anthropic.Client
	model  string
}

func newClaudeEngine(cfg Config) *claudeEngine {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	return &claudeEngine{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (e *claudeEngine) summarize(ctx context.Context, input string, p Params) (string, error) {
	message, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: claudeMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(buildPrompt(input, p)),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("%w: claude returned no content", ErrMalformedResponse)
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("%w: claude returned unexpected content type", ErrMalformedResponse)
	}
	return textBlock.Text, nil
}
