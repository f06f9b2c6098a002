package marker

import (
	"image"
	"math"
	"sort"
)

// BBox is an axis-aligned bounding box in pixel coordinates, top-left origin.
type BBox struct {
	X, Y, W, H float64
}

// Center returns the box's center point.
func (b BBox) Center() (cx, cy float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Translate returns a copy of b shifted by (dx, dy).
func (b BBox) Translate(dx, dy float64) BBox {
	return BBox{X: b.X + dx, Y: b.Y + dy, W: b.W, H: b.H}
}

// Contains reports whether b fully contains other, expanded by pad pixels on
// every side.
func (b BBox) Contains(other BBox, pad float64) bool {
	return other.X >= b.X-pad &&
		other.Y >= b.Y-pad &&
		other.X+other.W <= b.X+b.W+pad &&
		other.Y+other.H <= b.Y+b.H+pad
}

// IoU computes the intersection-over-union of two boxes.
func (b BBox) IoU(o BBox) float64 {
	ix1 := math.Max(b.X, o.X)
	iy1 := math.Max(b.Y, o.Y)
	ix2 := math.Min(b.X+b.W, o.X+o.W)
	iy2 := math.Min(b.Y+b.H, o.Y+o.H)
	iw := ix2 - ix1
	ih := iy2 - iy1
	if iw <= 0 || ih <= 0 {
		return 0
	}
	inter := iw * ih
	union := b.W*b.H + o.W*o.H - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Rect converts the box to a stdlib image.Rectangle, truncating to integers.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(int(b.X), int(b.Y), int(b.X+b.W), int(b.Y+b.H))
}

// Tile is a rectangular crop of a rendered page image.
type Tile struct {
	ID      string
	Image   image.Image
	OffsetX int // top-left X of the tile in page pixels
	OffsetY int
}

// ShapeKind is the geometric kind a candidate or marker was detected as.
type ShapeKind string

const (
	ShapeCircular   ShapeKind = "circular"
	ShapeTriangular ShapeKind = "triangular"
	ShapeUnknown    ShapeKind = "unknown"
)

// DetectionMethod records which Stage-1 pass produced a candidate.
type DetectionMethod string

const (
	MethodHoughFaint      DetectionMethod = "hough_faint"
	MethodHoughConfident  DetectionMethod = "hough_confident"
	MethodHoughSection    DetectionMethod = "hough_section"
	MethodContourTriangle DetectionMethod = "contour_triangle"
)

// Candidate is a geometric detection result. It is immutable once emitted:
// later stages attach decisions but never rewrite BBox, ShapeKind, Method,
// GeoConfidence, or SourceTileID.
type Candidate struct {
	ID            string
	BBox          BBox
	ShapeKind     ShapeKind
	Method        DetectionMethod
	GeoConfidence float64
	SourceTileID  string
}

// Verdict is Stage 1.5's tri-state classification outcome.
type Verdict string

const (
	VerdictAccept    Verdict = "accept"
	VerdictReject    Verdict = "reject"
	VerdictUncertain Verdict = "uncertain"
)

// Classification is Stage 1.5's verdict on a Candidate.
type Classification struct {
	Candidate     Candidate
	Verdict       Verdict
	Text          string
	OCRConfidence float64
}

// Marker is a validated callout, produced by Stage 2 and refined by the
// Aggregator.
type Marker struct {
	Text          string // detail + "/" + sheet, normalized
	Detail        string
	Sheet         string
	Kind          ShapeKind
	Confidence    float64
	IsValid       bool
	FuzzyMatched  bool
	OriginalSheet string // pre-fuzzy-match sheet text, if FuzzyMatched
	BBox          BBox
	SourceTileID  string
}

// ProjectContext supplies the per-request project knowledge that drives
// Stage 1.5 acceptance and Stage 2 fuzzy matching.
type ProjectContext struct {
	ValidSheets  map[string]struct{}
	ValidDetails map[string]struct{}
}

// NewProjectContext builds a ProjectContext from plain string slices.
func NewProjectContext(sheets, details []string) ProjectContext {
	pc := ProjectContext{
		ValidSheets:  make(map[string]struct{}, len(sheets)),
		ValidDetails: make(map[string]struct{}, len(details)),
	}
	for _, s := range sheets {
		pc.ValidSheets[s] = struct{}{}
	}
	for _, d := range details {
		pc.ValidDetails[d] = struct{}{}
	}
	return pc
}

// HasSheet reports whether sheet is a known project sheet.
func (p ProjectContext) HasSheet(sheet string) bool {
	_, ok := p.ValidSheets[sheet]
	return ok
}

// HasDetail reports whether detail is a known project detail identifier.
// An empty ValidDetails set means "no constraint" (spec.md §8 boundary
// behavior: absence of details never rejects on that ground alone).
func (p ProjectContext) HasDetail(detail string) bool {
	if len(p.ValidDetails) == 0 {
		return true
	}
	_, ok := p.ValidDetails[detail]
	return ok
}

// SheetNames returns the known sheets as a sorted slice, for fuzzy-match
// scans and anywhere else that needs a deterministic ordering (e.g. the
// Stage 2 prompt, spec.md §8 determinism).
func (p ProjectContext) SheetNames() []string {
	out := make([]string, 0, len(p.ValidSheets))
	for s := range p.ValidSheets {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// DetailNames returns the known detail identifiers as a sorted slice, for
// the same determinism reasons as SheetNames.
func (p ProjectContext) DetailNames() []string {
	out := make([]string, 0, len(p.ValidDetails))
	for d := range p.ValidDetails {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
