package aggregator

import (
	"testing"

	"github.com/arxplans/planscan/pkg/marker"
)

const pageHeight = 3000.0 // dedup radius ~201px at 6.7%

func offsetsFor(tiles ...TileOffset) map[string]TileOffset {
	out := make(map[string]TileOffset, len(tiles))
	for _, t := range tiles {
		out[t.TileID] = t
	}
	return out
}

func TestAggregate_TranslatesBBoxByTileOffset(t *testing.T) {
	markers := []marker.Marker{
		{Text: "3/A7", SourceTileID: "t1", BBox: marker.BBox{X: 5, Y: 5, W: 20, H: 20}, Confidence: 0.9},
	}
	offs := offsetsFor(TileOffset{TileID: "t1", OffsetX: 1000, OffsetY: 500, Order: 0})
	got := Aggregate(markers, offs, pageHeight)
	if len(got) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(got))
	}
	if got[0].BBox.X != 1005 || got[0].BBox.Y != 505 {
		t.Fatalf("unexpected translated bbox: %+v", got[0].BBox)
	}
}

func TestAggregate_Scenario4_OverlappingTilesYieldOneMarker(t *testing.T) {
	// Same physical marker detected near the seam of two overlapping tiles.
	markers := []marker.Marker{
		{Text: "3/A7", SourceTileID: "t1", BBox: marker.BBox{X: 990, Y: 500, W: 20, H: 20}, Confidence: 0.8},
		{Text: "3/A7", SourceTileID: "t2", BBox: marker.BBox{X: 10, Y: 505, W: 20, H: 20}, Confidence: 0.95},
	}
	offs := offsetsFor(
		TileOffset{TileID: "t1", OffsetX: 0, OffsetY: 0, Order: 0},
		TileOffset{TileID: "t2", OffsetX: 980, OffsetY: 0, Order: 1},
	)
	got := Aggregate(markers, offs, pageHeight)
	if len(got) != 1 {
		t.Fatalf("expected de-duplication to 1 marker, got %d: %+v", len(got), got)
	}
	if got[0].Confidence != 0.95 {
		t.Fatalf("expected highest-confidence duplicate kept, got confidence %v", got[0].Confidence)
	}
}

func TestAggregate_DistantDuplicateTextIsNotMerged(t *testing.T) {
	markers := []marker.Marker{
		{Text: "3/A7", SourceTileID: "t1", BBox: marker.BBox{X: 10, Y: 10, W: 20, H: 20}, Confidence: 0.8},
		{Text: "3/A7", SourceTileID: "t1", BBox: marker.BBox{X: 10, Y: 2000, W: 20, H: 20}, Confidence: 0.8},
	}
	offs := offsetsFor(TileOffset{TileID: "t1", OffsetX: 0, OffsetY: 0, Order: 0})
	got := Aggregate(markers, offs, pageHeight)
	if len(got) != 2 {
		t.Fatalf("expected both distant markers kept, got %d", len(got))
	}
}

func TestAggregate_TiesBreakOnEarlierTileOrder(t *testing.T) {
	markers := []marker.Marker{
		{Text: "3/A7", SourceTileID: "t2", BBox: marker.BBox{X: 10, Y: 10, W: 20, H: 20}, Confidence: 0.9},
		{Text: "3/A7", SourceTileID: "t1", BBox: marker.BBox{X: 15, Y: 15, W: 20, H: 20}, Confidence: 0.9},
	}
	offs := offsetsFor(
		TileOffset{TileID: "t1", OffsetX: 0, OffsetY: 0, Order: 0},
		TileOffset{TileID: "t2", OffsetX: 0, OffsetY: 0, Order: 1},
	)
	got := Aggregate(markers, offs, pageHeight)
	if len(got) != 1 {
		t.Fatalf("expected dedup to 1, got %d", len(got))
	}
	if got[0].SourceTileID != "t1" {
		t.Fatalf("expected earlier-order tile's marker kept on tie, got %s", got[0].SourceTileID)
	}
}

func TestAggregate_OrdersTopToBottomLeftToRight(t *testing.T) {
	markers := []marker.Marker{
		{Text: "1/A1", SourceTileID: "t1", BBox: marker.BBox{X: 500, Y: 10, W: 10, H: 10}, Confidence: 0.9},
		{Text: "2/A1", SourceTileID: "t1", BBox: marker.BBox{X: 10, Y: 10, W: 10, H: 10}, Confidence: 0.9},
		{Text: "3/A1", SourceTileID: "t1", BBox: marker.BBox{X: 10, Y: 1000, W: 10, H: 10}, Confidence: 0.9},
	}
	offs := offsetsFor(TileOffset{TileID: "t1", OffsetX: 0, OffsetY: 0, Order: 0})
	got := Aggregate(markers, offs, pageHeight)
	if len(got) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(got))
	}
	if got[0].Text != "2/A1" || got[1].Text != "1/A1" || got[2].Text != "3/A1" {
		t.Fatalf("unexpected order: %s, %s, %s", got[0].Text, got[1].Text, got[2].Text)
	}
}
