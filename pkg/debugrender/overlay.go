package debugrender

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/arxplans/planscan/pkg/marker"
)

// Options configures the marker overlay export.
type Options struct {
	Width        int    // canvas width; defaults to the image width if 0
	Height       int    // canvas height; defaults to the image height if 0
	ShowLabels   bool   // draw each marker's text next to its bbox
	ShowLegend   bool   // draw a verdict/shape color legend
	Title        string // optional title text
	ImageDataURI string // optional base64 data: URI of the underlying tile/page, drawn as background
}

// DefaultOptions returns sensible defaults for a debug overlay.
func DefaultOptions() Options {
	return Options{
		ShowLabels: true,
		ShowLegend: true,
		Title:      "Marker Overlay",
	}
}

// ExportCandidates renders Stage 1 candidates, colored by shape kind, over a
// canvas of the given tile dimensions.
func ExportCandidates(candidates []marker.Candidate, tileW, tileH int, opts Options) ([]byte, error) {
	opts = fillDefaults(opts, tileW, tileH)

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	drawBackgroundImage(canvas, opts)

	sorted := make([]marker.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, c := range sorted {
		color := candidateColor(c.ShapeKind)
		drawBox(canvas, c.BBox, color)
		if opts.ShowLabels {
			cx, _ := c.BBox.Center()
			canvas.Text(int(cx), int(c.BBox.Y)-4, string(c.ShapeKind),
				"text-anchor:middle;font-size:10px;font-family:monospace;fill:#e2e8f0")
		}
	}

	if opts.ShowLegend {
		drawCandidateLegend(canvas, opts)
	}
	if opts.Title != "" {
		drawTitle(canvas, opts)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// ExportMarkers renders the final validated markers for a page, colored by
// validity, over a canvas of the given page dimensions.
func ExportMarkers(markers []marker.Marker, pageW, pageH int, opts Options) ([]byte, error) {
	opts = fillDefaults(opts, pageW, pageH)

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	drawBackgroundImage(canvas, opts)

	sorted := make([]marker.Marker, len(markers))
	copy(sorted, markers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Text < sorted[j].Text })

	for _, m := range sorted {
		color := markerColor(m)
		drawBox(canvas, m.BBox, color)
		if opts.ShowLabels {
			cx := m.BBox.X
			canvas.Text(int(cx), int(m.BBox.Y)-4, m.Text,
				"text-anchor:start;font-size:10px;font-family:monospace;fill:#e2e8f0")
		}
	}

	if opts.ShowLegend {
		drawMarkerLegend(canvas, opts)
	}
	if opts.Title != "" {
		drawTitle(canvas, opts)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveToFile writes data to path with 0644 permissions.
func SaveToFile(data []byte, path string) error {
	return os.WriteFile(path, data, 0644)
}

func fillDefaults(opts Options, w, h int) Options {
	if opts.Width <= 0 {
		opts.Width = w
	}
	if opts.Height <= 0 {
		opts.Height = h
	}
	return opts
}

func drawBackgroundImage(canvas *svg.SVG, opts Options) {
	if opts.ImageDataURI == "" {
		return
	}
	canvas.Image(0, 0, opts.Width, opts.Height, opts.ImageDataURI)
}

func drawBox(canvas *svg.SVG, b marker.BBox, color string) {
	canvas.Rect(int(b.X), int(b.Y), int(b.W), int(b.H),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", color))
}

func candidateColor(kind marker.ShapeKind) string {
	switch kind {
	case marker.ShapeCircular:
		return "#4299e1"
	case marker.ShapeTriangular:
		return "#ed8936"
	default:
		return "#718096"
	}
}

func markerColor(m marker.Marker) string {
	switch {
	case m.IsValid && !m.FuzzyMatched:
		return "#48bb78"
	case m.IsValid && m.FuzzyMatched:
		return "#ecc94b"
	default:
		return "#f56565"
	}
}

func drawTitle(canvas *svg.SVG, opts Options) {
	canvas.Text(opts.Width/2, 20, opts.Title,
		"text-anchor:middle;font-size:16px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
}

func drawCandidateLegend(canvas *svg.SVG, opts Options) {
	x, y := opts.Width-170, 40
	canvas.Rect(x-10, y-15, 160, 80, "fill:#2d3748;stroke:#4a5568;stroke-width:1;opacity:0.95;rx:5")
	entries := []struct{ name, color string }{
		{"circular", candidateColor(marker.ShapeCircular)},
		{"triangular", candidateColor(marker.ShapeTriangular)},
		{"unknown", candidateColor(marker.ShapeUnknown)},
	}
	for _, e := range entries {
		canvas.Rect(x, y, 14, 14, fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", e.color))
		canvas.Text(x+20, y+11, e.name, "font-size:11px;fill:#cbd5e0")
		y += 20
	}
}

func drawMarkerLegend(canvas *svg.SVG, opts Options) {
	x, y := opts.Width-170, 40
	canvas.Rect(x-10, y-15, 160, 80, "fill:#2d3748;stroke:#4a5568;stroke-width:1;opacity:0.95;rx:5")
	entries := []struct{ name, color string }{
		{"valid", "#48bb78"},
		{"fuzzy-matched", "#ecc94b"},
		{"invalid", "#f56565"},
	}
	for _, e := range entries {
		canvas.Rect(x, y, 14, 14, fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", e.color))
		canvas.Text(x+20, y+11, e.name, "font-size:11px;fill:#cbd5e0")
		y += 20
	}
}
