package geometric

import (
	"image"

	"github.com/arxplans/planscan/pkg/marker"
	"gocv.io/x/gocv"
)

// strictFilterParams bundles the thresholds spec.md §4.B describes as
// "project-configurable". Defaults are tuned, per original_source, for
// 300 DPI source drawings; spec.md leaves the DPI-scaling curve for these
// specifically as an Open Question, so callers running at other DPIs should
// re-tune empirically (see DESIGN.md).
type strictFilterParams struct {
	edgeMarginPx     int
	maxEdgeClipFrac  float64
	minArea, maxArea float64
	minStdDev        float64
	minQualityScore  float64
}

func defaultStrictFilterParams() strictFilterParams {
	return strictFilterParams{
		edgeMarginPx:    8,
		maxEdgeClipFrac: 0.30,
		minArea:         80,
		maxArea:         20000,
		minStdDev:       8,
		minQualityScore: 0.45,
	}
}

// candidateQuality pairs a candidate with a combined heuristic quality score
// (spec.md §4.B); StrictFilter computes that score inline and does not build
// this struct. It is not part
// of the public, immutable marker.Candidate because spec.md's invariant
// #1 (§8) requires Candidate to stay a fixed-field, immutable value once
// emitted by Stage 1.
type candidateQuality struct {
	Candidate    marker.Candidate
	QualityScore float64
}

// StrictFilter rejects candidates that are heavily edge-clipped, outside a
// generous area range, cover near-uniform intensity, or score below a
// combined heuristic quality (spec.md §4.B "Optional strict filtering").
// tileW/tileH are the tile's pixel dimensions; gray is the tile's grayscale
// Mat, used to compute intensity variance.
func StrictFilter(candidates []marker.Candidate, tileW, tileH int, gray gocv.Mat) []marker.Candidate {
	p := defaultStrictFilterParams()
	var kept []marker.Candidate
	for _, c := range candidates {
		if isEdgeClipped(c.BBox, tileW, tileH, p.edgeMarginPx, p.maxEdgeClipFrac) {
			continue
		}
		area := c.BBox.W * c.BBox.H
		if area < p.minArea || area > p.maxArea {
			continue
		}
		rect := c.BBox.Rect()
		sd := stdDevIntensity(gray, rect)
		if sd < p.minStdDev {
			continue
		}
		score := qualityScore(c, sd)
		if score < p.minQualityScore {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// isEdgeClipped reports whether box sits within marginPx of the tile
// boundary and more than maxClipFrac of it lies outside the tile.
func isEdgeClipped(box marker.BBox, tileW, tileH int, marginPx int, maxClipFrac float64) bool {
	tileRect := image.Rect(0, 0, tileW, tileH)
	boxRect := box.Rect()

	nearEdge := boxRect.Min.X < marginPx || boxRect.Min.Y < marginPx ||
		boxRect.Max.X > tileW-marginPx || boxRect.Max.Y > tileH-marginPx
	if !nearEdge {
		return false
	}

	visible := boxRect.Intersect(tileRect)
	totalArea := float64(boxRect.Dx() * boxRect.Dy())
	if totalArea <= 0 {
		return true
	}
	visibleArea := float64(visible.Dx() * visible.Dy())
	clippedFrac := 1 - visibleArea/totalArea
	return clippedFrac > maxClipFrac
}

// qualityScore combines aspect ratio, diameter, intensity variance, and edge
// density into a single [0,1]-ish heuristic, per original_source's
// geometric_filters.py weighted-score approach (spec.md §4.B names these
// four signals but leaves them unweighted; original_source averages them).
func qualityScore(c marker.Candidate, stdDev float64) float64 {
	aspect := c.BBox.W / maxFloat(c.BBox.H, 1)
	aspectScore := 1 - minFloat(absFloat(aspect-1), 1)

	diameter := (c.BBox.W + c.BBox.H) / 2
	diameterScore := clamp01((diameter - 8) / 52)

	varianceScore := clamp01(stdDev / 40)

	// geoConfidence already folds in edge-density-like signal from the
	// originating detection pass (Hough accumulator score / contour
	// fill ratio), so it stands in for the "edge density" term here.
	edgeScore := c.GeoConfidence

	return (aspectScore + diameterScore + varianceScore + edgeScore) / 4
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
