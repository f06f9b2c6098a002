package api

import (
	"net/http"

	"github.com/arxplans/planscan/pkg/marker"
	"github.com/arxplans/planscan/pkg/pipelineerr"
	"github.com/arxplans/planscan/pkg/schedule"
	"github.com/gin-gonic/gin"
)

// scheduleWireCell/scheduleWireRequest/scheduleWireTable/scheduleWireResponse
// mirror pkg/schedule.Client's wire shape exactly, since this endpoint is
// the service that Client's requests land on (spec.md §6 "Schedule
// extraction ... see below for the contract the pipeline assumes").
type scheduleWireCell struct {
	Row  int     `json:"row"`
	Col  int     `json:"col"`
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

type scheduleWireRequest struct {
	SheetID string             `json:"sheet_id"`
	Cells   []scheduleWireCell `json:"cells"`
}

type scheduleWireTable struct {
	StartRow     int        `json:"start_row"`
	StartCol     int        `json:"start_col"`
	Rows         int        `json:"rows"`
	Cols         int        `json:"cols"`
	Header       []string   `json:"header"`
	HeaderSample [][]string `json:"header_sample"`
	Confidence   float64    `json:"confidence"`
}

type scheduleWireResponse struct {
	Tables []scheduleWireTable `json:"tables"`
}

// extractSchedule handles POST /api/extract-schedule, running the
// grid-based table-candidate detector (pkg/schedule.Detector) over the
// cells the caller already extracted from a sheet.
func (s *Server) extractSchedule(c *gin.Context) {
	var req scheduleWireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.logger, pipelineerr.Input("extract-schedule: malformed JSON body: %v", err))
		return
	}

	cells := make([]schedule.Cell, 0, len(req.Cells))
	for _, wc := range req.Cells {
		cells = append(cells, schedule.Cell{
			Row: wc.Row, Col: wc.Col, Text: wc.Text,
			BBox: marker.BBox{X: wc.X, Y: wc.Y, W: wc.W, H: wc.H},
		})
	}

	tables := s.schedule.DetectTables(cells)

	resp := scheduleWireResponse{Tables: make([]scheduleWireTable, 0, len(tables))}
	for _, t := range tables {
		resp.Tables = append(resp.Tables, scheduleWireTable{
			StartRow: t.StartRow, StartCol: t.StartCol,
			Rows: t.Rows, Cols: t.Cols,
			Header: t.Header, HeaderSample: t.HeaderSample,
			Confidence: t.Confidence,
		})
	}
	c.JSON(http.StatusOK, resp)
}
