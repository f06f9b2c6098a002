package schedule

import "github.com/arxplans/planscan/pkg/marker"

// Cell is one OCR'd text region on a page, positioned in a coarse
// row/column grid derived from its bbox (spec.md treats schedule/notes
// extraction as an external collaborator; this is the pipeline-side shape
// its request assumes).
type Cell struct {
	Row, Col int
	Text     string
	BBox     marker.BBox
}

// TableCandidate is one detected rectangular schedule/notes region.
type TableCandidate struct {
	StartRow, StartCol int
	Rows, Cols         int
	Header             []string
	HeaderSample       [][]string
	Confidence         float64
	BBox               marker.BBox
}

// Request is the typed request this module's Client sends to an external
// schedule/notes extraction service.
type Request struct {
	SheetID string
	Cells   []Cell
}

// Response is the external service's typed response.
type Response struct {
	Tables []TableCandidate
}
