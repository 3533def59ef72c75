package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxInferenceResponse caps how much of an inference response is read.
const maxInferenceResponse = 1 << 20

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type inferenceResult struct {
	SummaryText string `json:"summary_text"`
}

type inferenceError struct {
	Error string `json:"error"`
}

// inferenceEngine talks to an endpoint in the Hugging Face inference format.
type inferenceEngine struct {
	client   *http.Client
	endpoint string
	token    string
}

func newInferenceEngine(cfg Config, client *http.Client) *inferenceEngine {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultInferenceURL + cfg.Model
	}
	if client == nil {
		client = &http.Client{}
	}
	return &inferenceEngine{client: client, endpoint: endpoint, token: cfg.APIKey}
}

func (e *inferenceEngine) summarize(ctx context.Context, input string, p Params) (string, error) {
	body, err := json.Marshal(inferenceRequest{
		Inputs: input,
		Parameters: inferenceParameters{
			MaxLength: p.MaxLength,
			MinLength: p.MinLength,
			DoSample:  false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxInferenceResponse))
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr inferenceError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("inference api error: status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("inference api error: status %d", resp.StatusCode)
	}

	var results []inferenceResult
	if err := json.Unmarshal(data, &results); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("%w: no results", ErrMalformedResponse)
	}
	if strings.TrimSpace(results[0].SummaryText) == "" {
		return "", ErrEmptySummary
	}
	return results[0].SummaryText, nil
}
