package geometric

import (
	"fmt"
	"image"

	"github.com/arxplans/planscan/pkg/marker"
	"github.com/arxplans/planscan/pkg/pipelineerr"
	"gocv.io/x/gocv"
)

// Detector runs Stage 1 (spec.md §4.B) over a single tile.
type Detector struct {
	cfg Config
}

// NewDetector builds a Detector for the given per-request config.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Detect emits all plausible circular and triangular candidates for tile. A
// tile that cannot be decoded is logged and skipped (spec.md §4.B "Failure
// semantics") — the caller receives a *pipelineerr.Error of KindInput so it
// can log and continue with the next tile rather than failing the page.
func (d *Detector) Detect(tile marker.Tile) ([]marker.Candidate, error) {
	mat, err := imageToMat(tile.Image)
	if err != nil {
		return nil, pipelineerr.Input("geometric: decoding tile %s: %v", tile.ID, err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBToGray)

	passes := PassesForDPI(d.cfg.DPI)
	candidates := detectCircles(gray, passes, tile.ID)

	w, h := gray.Cols(), gray.Rows()
	minArea, maxArea := triangleAreaBand(d.cfg.DPI)
	candidates = append(candidates, detectTriangles(gray, minArea, maxArea, 90, tile.ID)...)

	for i := range candidates {
		candidates[i].ID = fmt.Sprintf("%s-%d", tile.ID, i)
	}

	candidates = nonMaxSuppress(candidates)

	if d.cfg.StrictFiltering {
		candidates = StrictFilter(candidates, w, h, gray)
	}

	return candidates, nil
}

// triangleAreaBand scales the contour-area acceptance band for the render
// DPI, using the same discrete-bucket approach as PassesForDPI.
func triangleAreaBand(dpi int) (minArea, maxArea float64) {
	if dpi <= 0 {
		dpi = baselineDPI
	}
	bucket := nearestDPIBucket(dpi)
	scale := float64(bucket) / float64(baselineDPI)
	return 80 * scale * scale, 20000 * scale * scale
}

// imageToMat converts a stdlib image.Image into a gocv.Mat in BGR order.
func imageToMat(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("image to mat: %w", err)
	}
	return mat, nil
}
