package summarizer

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const geminiSystemInstruction = "You write faithful, neutral summaries of the text you are given."

// geminiEngine calls the Gemini GenerateContent API.
type geminiEngine struct {
	client *genai.Client
	model  string
}

func newGeminiEngine(ctx context.Context, cfg Config, httpClient *http.Client) (*geminiEngine, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.Endpoint != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiEngine{client: client, model: cfg.Model}, nil
}

func (e *geminiEngine) summarize(ctx context.Context, input string, p Params) (string, error) {
	result, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(buildPrompt(input, p)),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: geminiSystemInstruction}},
			},
		})
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", ErrMalformedResponse)
	}
	return result.Text(), nil
}
