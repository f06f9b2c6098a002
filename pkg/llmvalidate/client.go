package llmvalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arxplans/planscan/pkg/marker"
	"github.com/arxplans/planscan/pkg/pipelineerr"
)

// Client calls a vision-capable chat-completions endpoint (OpenRouter or
// any OpenAI-compatible provider) to validate one batch of candidates.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	exemplars  []Exemplar
}

// NewClient builds a Client sharing httpClient across batches, per
// spec.md §5 "Shared resources": "a single *http.Client... reused across
// all Stage 2 requests".
func NewClient(httpClient *http.Client, baseURL, apiKey, model string, maxTokens int, exemplars []Exemplar) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		exemplars:  exemplars,
	}
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ValidateBatch sends one batch as a single request and returns the parsed
// rawMarker list, already hallucination-guard truncated to len(batch)
// (spec.md §8 #3, scenario 5).
func (c *Client) ValidateBatch(ctx context.Context, batch []CandidateImage, pc marker.ProjectContext) ([]rawMarker, error) {
	req := buildRequest(c.model, c.exemplars, batch, pc, c.maxTokens)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, pipelineerr.Unexpected(err, "llmvalidate: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, pipelineerr.Unexpected(err, "llmvalidate: build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, pipelineerr.Transient(err, "llmvalidate: request canceled")
		}
		return nil, pipelineerr.Transient(err, "llmvalidate: request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, pipelineerr.Transient(err, "llmvalidate: read response")
	}
	if len(raw) > maxResponseBytes {
		// Hallucination guard: an oversized response is dropped wholesale
		// rather than parsed (spec.md §4.D "hard cap").
		return nil, pipelineerr.Hallucination("llmvalidate: response exceeds %d bytes, batch dropped", maxResponseBytes)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, pipelineerr.Transient(fmt.Errorf("status %d", resp.StatusCode), "llmvalidate: upstream error")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, pipelineerr.Transient(fmt.Errorf("status %d: %s", resp.StatusCode, raw), "llmvalidate: unexpected status")
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, pipelineerr.Transient(err, "llmvalidate: decode envelope")
	}
	if len(completion.Choices) == 0 {
		return nil, pipelineerr.Transient(nil, "llmvalidate: empty choices array")
	}

	markers, err := parseMarkers(completion.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return truncateToBatch(markers, len(batch)), nil
}
