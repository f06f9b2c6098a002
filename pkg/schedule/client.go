package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/arxplans/planscan/pkg/pipelineerr"
)

// Client calls an external schedule/notes extraction service, the contract
// spec.md §6 names as out of this module's scope but assumes the pipeline
// can call.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a Client with a default 30s timeout if httpClient is nil.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

type wireCell struct {
	Row  int     `json:"row"`
	Col  int     `json:"col"`
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

type wireRequest struct {
	SheetID string     `json:"sheet_id"`
	Cells   []wireCell `json:"cells"`
}

type wireTable struct {
	StartRow     int        `json:"start_row"`
	StartCol     int        `json:"start_col"`
	Rows         int        `json:"rows"`
	Cols         int        `json:"cols"`
	Header       []string   `json:"header"`
	HeaderSample [][]string `json:"header_sample"`
	Confidence   float64    `json:"confidence"`
}

type wireResponse struct {
	Tables []wireTable `json:"tables"`
}

// Extract calls the remote service with req and returns its parsed tables.
func (c *Client) Extract(ctx context.Context, req Request) (Response, error) {
	wire := wireRequest{SheetID: req.SheetID}
	for _, cell := range req.Cells {
		wire.Cells = append(wire.Cells, wireCell{
			Row: cell.Row, Col: cell.Col, Text: cell.Text,
			X: cell.BBox.X, Y: cell.BBox.Y, W: cell.BBox.W, H: cell.BBox.H,
		})
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return Response{}, pipelineerr.Unexpected(err, "schedule: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/extract-schedule", bytes.NewReader(body))
	if err != nil {
		return Response{}, pipelineerr.Unexpected(err, "schedule: build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, pipelineerr.Transient(err, "schedule: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, pipelineerr.Unexpected(fmt.Errorf("status %d", resp.StatusCode), "schedule: unexpected status")
	}

	var wireResp wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wireResp); err != nil {
		return Response{}, pipelineerr.Unexpected(err, "schedule: decode response")
	}

	out := Response{Tables: make([]TableCandidate, 0, len(wireResp.Tables))}
	for _, t := range wireResp.Tables {
		out.Tables = append(out.Tables, TableCandidate{
			StartRow: t.StartRow, StartCol: t.StartCol,
			Rows: t.Rows, Cols: t.Cols,
			Header: t.Header, HeaderSample: t.HeaderSample,
			Confidence: t.Confidence,
		})
	}
	return out, nil
}
