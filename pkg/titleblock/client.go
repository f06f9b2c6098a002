package titleblock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arxplans/planscan/pkg/pipelineerr"
)

// Client calls an external title-block metadata extraction service
// implementing the same contract this module's own Handler serves
// (spec.md §6), for deployments that delegate extraction instead of running
// it in-process.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a Client. A nil httpClient gets a default with a 30s
// timeout, matching the request-scale of a single-page metadata call.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

type extractRequest struct {
	SheetURL string `json:"sheet_url"`
	SheetID  string `json:"sheet_id"`
}

// ExtractByURL calls the remote service with a fetchable PDF URL, the
// application/json request shape from spec.md §6.
func (c *Client) ExtractByURL(ctx context.Context, sheetURL, sheetID string) (Result, error) {
	body, err := json.Marshal(extractRequest{SheetURL: sheetURL, SheetID: sheetID})
	if err != nil {
		return Result{}, pipelineerr.Unexpected(err, "titleblock: marshal request")
	}
	return c.post(ctx, "application/json", bytes.NewReader(body))
}

// ExtractByPDF calls the remote service with the PDF body directly, the
// application/pdf request shape from spec.md §6.
func (c *Client) ExtractByPDF(ctx context.Context, pdfBytes []byte, sheetID string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/extract-metadata", bytes.NewReader(pdfBytes))
	if err != nil {
		return Result{}, pipelineerr.Unexpected(err, "titleblock: build request")
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("X-Sheet-Id", sheetID)
	return c.do(req)
}

func (c *Client) post(ctx context.Context, contentType string, body io.Reader) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/extract-metadata", body)
	if err != nil {
		return Result{}, pipelineerr.Unexpected(err, "titleblock: build request")
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

func (c *Client) do(req *http.Request) (Result, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, pipelineerr.Transient(err, "titleblock: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return Result{}, pipelineerr.Resource(true, "titleblock: service still loading")
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, pipelineerr.Unexpected(fmt.Errorf("status %d", resp.StatusCode), "titleblock: unexpected status")
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, pipelineerr.Unexpected(err, "titleblock: decode response")
	}
	return result, nil
}
