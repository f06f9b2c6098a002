package geometric

// HoughPass is one parameter set for the circular-marker Hough-gradient
// sweep. Passes differ in sensitivity (Param2, lower = more permissive) and
// radius band so faint, confident, and larger section-marker circles are
// all reached (spec.md §4.B).
type HoughPass struct {
	Name          string
	Param1        float64 // Canny high threshold passed to the Hough accumulator
	Param2        float64 // accumulator threshold; lower finds more (fainter) circles
	MinRadiusPx   int
	MaxRadiusPx   int
	GeoConfidence float64
}

// baselineDPI is the reference DPI the radius bands in defaultPasses are
// tuned for (spec.md §4.B: "baseline: 72-300 DPI; radius 12-60 px at
// baseline").
const baselineDPI = 150

// dpiBuckets are the discrete DPI levels original_source's
// stage1_geometric_detector.py keys its radius bands off of, rather than a
// continuous linear scale (spec.md's Open Questions leaves the scaling
// curve unresolved; original_source resolves it with discrete buckets —
// see DESIGN.md). Passed a DPI between buckets, we snap to the nearest.
var dpiBuckets = []int{72, 150, 300}

func nearestDPIBucket(dpi int) int {
	best := dpiBuckets[0]
	bestDist := abs(dpi - best)
	for _, b := range dpiBuckets[1:] {
		if d := abs(dpi - b); d < bestDist {
			best, bestDist = b, d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// defaultPasses returns the baseline (150 DPI) Hough parameter passes.
func defaultPasses() []HoughPass {
	return []HoughPass{
		{Name: "faint", Param1: 80, Param2: 28, MinRadiusPx: 12, MaxRadiusPx: 24, GeoConfidence: 0.70},
		{Name: "confident", Param1: 100, Param2: 36, MinRadiusPx: 18, MaxRadiusPx: 40, GeoConfidence: 0.80},
		{Name: "section", Param1: 100, Param2: 40, MinRadiusPx: 32, MaxRadiusPx: 60, GeoConfidence: 0.85},
	}
}

// PassesForDPI scales the baseline passes' radius bands for the render DPI
// using the nearest discrete bucket (72/150/300), per original_source.
func PassesForDPI(dpi int) []HoughPass {
	if dpi <= 0 {
		dpi = baselineDPI
	}
	bucket := nearestDPIBucket(dpi)
	scale := float64(bucket) / float64(baselineDPI)
	passes := defaultPasses()
	for i := range passes {
		passes[i].MinRadiusPx = int(float64(passes[i].MinRadiusPx) * scale)
		passes[i].MaxRadiusPx = int(float64(passes[i].MaxRadiusPx) * scale)
	}
	return passes
}

// TriangleEpsilons are the polygon-approximation epsilon tolerances tried in
// increasing order (spec.md §4.B "polygon approximation with increasing
// epsilon tolerances").
var TriangleEpsilons = []float64{0.01, 0.02, 0.04, 0.06}

// Config controls one Detect call.
type Config struct {
	DPI             int
	StrictFiltering bool
}
