package api

import (
	"context"
	"io"
	"net/http"

	"github.com/arxplans/planscan/pkg/pipelineerr"
	"github.com/gin-gonic/gin"
)

const maxMetadataPDFBytes = 64 * 1024 * 1024

// extractMetadata handles POST /api/extract-metadata (spec.md §6), either
// content-type application/pdf (body is the PDF, sheet id from
// X-Sheet-Id) or application/json ({"sheet_url","sheet_id"}, PDF fetched
// from sheet_url).
func (s *Server) extractMetadata(c *gin.Context) {
	if !s.ready.IsReady() {
		respondError(c, s.logger, pipelineerr.Resource(true, "detector models are still loading"))
		return
	}

	ctx := c.Request.Context()

	var pdfBytes []byte
	var sheetID, filename string

	switch c.ContentType() {
	case "application/pdf":
		sheetID = c.GetHeader("X-Sheet-Id")
		if sheetID == "" {
			respondError(c, s.logger, pipelineerr.Input("extract-metadata: missing X-Sheet-Id header"))
			return
		}
		data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxMetadataPDFBytes+1))
		if err != nil {
			respondError(c, s.logger, pipelineerr.Input("extract-metadata: reading body: %v", err))
			return
		}
		if len(data) > maxMetadataPDFBytes {
			respondError(c, s.logger, pipelineerr.Input("extract-metadata: PDF exceeds size limit"))
			return
		}
		pdfBytes = data

	case "application/json":
		var req metadataJSONRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, s.logger, pipelineerr.Input("extract-metadata: malformed JSON body: %v", err))
			return
		}
		sheetID = req.SheetID
		filename = req.SheetURL
		data, err := downloadPDF(ctx, s.httpClient, req.SheetURL)
		if err != nil {
			respondError(c, s.logger, pipelineerr.Input("extract-metadata: fetching sheet_url: %v", err))
			return
		}
		pdfBytes = data

	default:
		respondError(c, s.logger, pipelineerr.Input("extract-metadata: unsupported content-type %q", c.ContentType()))
		return
	}

	page, err := s.renderer.Render(ctx, pdfBytes, 1, s.renderDPI)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}

	result := s.titleblock.Extract(ctx, page, sheetID, filename)
	c.JSON(http.StatusOK, result)
}

func downloadPDF(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, pipelineerr.Input("sheet_url returned status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxMetadataPDFBytes+1))
}
