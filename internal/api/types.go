package api

import "github.com/arxplans/planscan/pkg/marker"

// wireTile is one entry of the JSON "tiles" array (spec.md §6).
type wireTile struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

// detectRequest is the POST /api/detect-markers JSON body (spec.md §6).
// Exactly one of Tiles or TileURLs is expected to be populated; a tar body
// never uses this struct at all (see markers.go).
type detectRequest struct {
	Tiles           []wireTile `json:"tiles" binding:"omitempty,dive"`
	TileURLs        []string   `json:"tile_urls" binding:"omitempty,dive,url"`
	ValidSheets     []string   `json:"valid_sheets"`
	StrictFiltering bool       `json:"strict_filtering"`
}

// wireBBox mirrors marker.BBox with the lowercase keys spec.md §6 names.
type wireBBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// wireMarker is one entry of the detect-markers response "markers" array
// (spec.md §6): `{text, detail, sheet, type, confidence, is_valid,
// fuzzy_matched, source_tile, bbox:{x,y,w,h}}`.
type wireMarker struct {
	Text         string   `json:"text"`
	Detail       string   `json:"detail"`
	Sheet        string   `json:"sheet"`
	Type         string   `json:"type"`
	Confidence   float64  `json:"confidence"`
	IsValid      bool     `json:"is_valid"`
	FuzzyMatched bool     `json:"fuzzy_matched"`
	SourceTile   string   `json:"source_tile"`
	BBox         wireBBox `json:"bbox"`
}

func toWireMarker(m marker.Marker) wireMarker {
	return wireMarker{
		Text:         m.Text,
		Detail:       m.Detail,
		Sheet:        m.Sheet,
		Type:         string(m.Kind),
		Confidence:   m.Confidence,
		IsValid:      m.IsValid,
		FuzzyMatched: m.FuzzyMatched,
		SourceTile:   m.SourceTileID,
		BBox:         wireBBox{X: m.BBox.X, Y: m.BBox.Y, W: m.BBox.W, H: m.BBox.H},
	}
}

// detectResponse is the POST /api/detect-markers 200 response body
// (spec.md §6).
type detectResponse struct {
	Markers          []wireMarker `json:"markers"`
	Stage1Candidates int          `json:"stage1_candidates"`
	Stage2Validated  int          `json:"stage2_validated"`
	ProcessingTimeMS float64      `json:"processing_time_ms"`
}

// metadataJSONRequest is the POST /api/extract-metadata JSON-body variant
// (spec.md §6): `{"sheet_url": URL, "sheet_id": str}`.
type metadataJSONRequest struct {
	SheetURL string `json:"sheet_url" binding:"required,url"`
	SheetID  string `json:"sheet_id" binding:"required"`
}

// errorResponse is the bounded JSON error body every endpoint falls back to
// (spec.md §6 "never partial HTTP/streamed bodies", §7 "a single-line
// message, never a stack trace").
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
}
