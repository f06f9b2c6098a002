package debugrender

import (
	"bytes"
	"testing"

	"github.com/arxplans/planscan/pkg/marker"
)

func TestExportCandidates_ProducesWellFormedSVG(t *testing.T) {
	candidates := []marker.Candidate{
		{ID: "c1", BBox: marker.BBox{X: 10, Y: 10, W: 40, H: 40}, ShapeKind: marker.ShapeCircular},
		{ID: "c2", BBox: marker.BBox{X: 100, Y: 50, W: 30, H: 30}, ShapeKind: marker.ShapeTriangular},
	}
	data, err := ExportCandidates(candidates, 2048, 2048, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) || !bytes.Contains(data, []byte("</svg>")) {
		t.Fatal("expected well-formed SVG output")
	}
}

func TestExportMarkers_ColorsByValidity(t *testing.T) {
	markers := []marker.Marker{
		{Text: "3/A7", BBox: marker.BBox{X: 5, Y: 5, W: 20, H: 20}, IsValid: true},
		{Text: "9/Z9", BBox: marker.BBox{X: 50, Y: 50, W: 20, H: 20}, IsValid: false},
	}
	data, err := ExportMarkers(markers, 500, 500, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(data, []byte("#48bb78")) {
		t.Fatal("expected valid-marker color in output")
	}
	if !bytes.Contains(data, []byte("#f56565")) {
		t.Fatal("expected invalid-marker color in output")
	}
}

func TestExportCandidates_EmptyListStillProducesCanvas(t *testing.T) {
	data, err := ExportCandidates(nil, 100, 100, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty SVG for empty candidate list")
	}
}
