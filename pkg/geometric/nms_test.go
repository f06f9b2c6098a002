package geometric

import (
	"testing"

	"github.com/arxplans/planscan/pkg/marker"
)

func TestNonMaxSuppress_KeepsHighestConfidenceOverlap(t *testing.T) {
	candidates := []marker.Candidate{
		{BBox: marker.BBox{X: 0, Y: 0, W: 20, H: 20}, ShapeKind: marker.ShapeCircular, GeoConfidence: 0.7},
		{BBox: marker.BBox{X: 2, Y: 2, W: 20, H: 20}, ShapeKind: marker.ShapeCircular, GeoConfidence: 0.9},
		{BBox: marker.BBox{X: 200, Y: 200, W: 20, H: 20}, ShapeKind: marker.ShapeCircular, GeoConfidence: 0.75},
	}
	out := nonMaxSuppress(candidates)
	if len(out) != 2 {
		t.Fatalf("expected 2 surviving candidates, got %d", len(out))
	}
	foundHighConf := false
	for _, c := range out {
		if c.GeoConfidence == 0.9 {
			foundHighConf = true
		}
		if c.GeoConfidence == 0.7 {
			t.Fatal("lower-confidence overlapping box should have been suppressed")
		}
	}
	if !foundHighConf {
		t.Fatal("expected the higher-confidence overlapping box to survive")
	}
}

func TestNonMaxSuppress_DifferentShapeKindsNeverSuppressEachOther(t *testing.T) {
	candidates := []marker.Candidate{
		{BBox: marker.BBox{X: 0, Y: 0, W: 20, H: 20}, ShapeKind: marker.ShapeCircular, GeoConfidence: 0.8},
		{BBox: marker.BBox{X: 0, Y: 0, W: 20, H: 20}, ShapeKind: marker.ShapeTriangular, GeoConfidence: 0.7},
	}
	out := nonMaxSuppress(candidates)
	if len(out) != 2 {
		t.Fatalf("expected both shape kinds to survive independently, got %d", len(out))
	}
}

func TestPassesForDPI_ScalesRadiusBands(t *testing.T) {
	base := PassesForDPI(150)
	high := PassesForDPI(300)
	for i := range base {
		if high[i].MaxRadiusPx <= base[i].MaxRadiusPx {
			t.Fatalf("pass %s: expected radius band to grow with DPI, got base=%d high=%d",
				base[i].Name, base[i].MaxRadiusPx, high[i].MaxRadiusPx)
		}
	}
}
