package schedule

import (
	"testing"

	"github.com/arxplans/planscan/pkg/marker"
)

func gridCells(rows, cols int) []Cell {
	var cells []Cell
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells = append(cells, Cell{
				Row:  r,
				Col:  c,
				Text: "cell",
				BBox: marker.BBox{X: float64(c * 100), Y: float64(r * 20), W: 90, H: 18},
			})
		}
	}
	return cells
}

func TestDetectTables_FullyOccupiedGridYieldsOneCandidate(t *testing.T) {
	d := &Detector{}
	got := d.DetectTables(gridCells(5, 4))
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Rows != 5 || got[0].Cols != 4 {
		t.Fatalf("expected 5x4 block, got %dx%d", got[0].Rows, got[0].Cols)
	}
	if got[0].Confidence != 1.0 {
		t.Fatalf("expected full confidence, got %v", got[0].Confidence)
	}
}

func TestDetectTables_EmptyInputYieldsNoCandidates(t *testing.T) {
	d := &Detector{}
	got := d.DetectTables(nil)
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %d", len(got))
	}
}

func TestDetectTables_RespectsMaxTables(t *testing.T) {
	cells := append(gridCells(3, 3), offsetCells(gridCells(3, 3), 0, 10)...)
	d := &Detector{MaxTables: 1}
	got := d.DetectTables(cells)
	if len(got) > 1 {
		t.Fatalf("expected at most 1 candidate, got %d", len(got))
	}
}

func TestDetectTables_HeaderSampleRespectsDefaults(t *testing.T) {
	d := &Detector{}
	got := d.DetectTables(gridCells(5, 20))
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if len(got[0].HeaderSample) != DefaultHeaderSampleRows {
		t.Fatalf("expected %d header sample rows, got %d", DefaultHeaderSampleRows, len(got[0].HeaderSample))
	}
	if len(got[0].HeaderSample[0]) != DefaultHeaderSampleCols {
		t.Fatalf("expected %d header sample cols, got %d", DefaultHeaderSampleCols, len(got[0].HeaderSample[0]))
	}
}

func offsetCells(cells []Cell, rowOffset, colOffset int) []Cell {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		c.Row += rowOffset
		c.Col += colOffset
		out[i] = c
	}
	return out
}
