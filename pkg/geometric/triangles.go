package geometric

import (
	"image"

	"github.com/arxplans/planscan/pkg/marker"
	"gocv.io/x/gocv"
)

const (
	triangleAspectMin = 0.3
	triangleAspectMax = 3.0
	// hullFillRatio is the minimum fraction of the convex hull's area a
	// contour must fill to be treated as "effectively triangular" when its
	// own approximation doesn't land on exactly 3 vertices but its hull does.
	hullFillRatio = 0.60
)

// detectTriangles runs adaptive threshold → external contour extraction →
// increasing-epsilon polygon approximation over gray, emitting one
// Candidate per accepted triangular contour (spec.md §4.B "Triangle
// detection").
func detectTriangles(gray gocv.Mat, minArea, maxArea float64, darkThreshold float64, tileID string) []marker.Candidate {
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.AdaptiveThreshold(gray, &binary, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, 35, 5)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var out []marker.Candidate
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area < minArea || area > maxArea {
			continue
		}

		rect := gocv.BoundingRect(contour)
		aspect := float64(rect.Dx()) / float64(maxInt(rect.Dy(), 1))
		if aspect < triangleAspectMin || aspect > triangleAspectMax {
			continue
		}

		if !isTriangular(contour, area) {
			continue
		}

		// Filled (dark) triangles are the common callout-marker rendering;
		// outline triangles are still emitted but scored lower — recall
		// first, let Stage 1.5/2 sort the rest out.
		geoConfidence := 0.70
		darkness := meanIntensity(gray, rect)
		if darkness > darkThreshold {
			geoConfidence = 0.55
		}

		out = append(out, marker.Candidate{
			BBox: marker.BBox{
				X: float64(rect.Min.X),
				Y: float64(rect.Min.Y),
				W: float64(rect.Dx()),
				H: float64(rect.Dy()),
			},
			ShapeKind:     marker.ShapeTriangular,
			Method:        marker.MethodContourTriangle,
			GeoConfidence: geoConfidence,
			SourceTileID:  tileID,
		})
	}
	return out
}

// isTriangular tries increasing epsilon tolerances until the approximation
// lands on exactly 3 vertices, or falls back to checking whether the
// contour's convex hull is a triangle that the contour fills to at least
// hullFillRatio.
func isTriangular(contour gocv.PointVector, area float64) bool {
	for _, eps := range TriangleEpsilons {
		approx := gocv.ApproxPolyDP(contour, eps*arcLenEstimate(contour), true)
		n := approx.Size()
		approx.Close()
		if n == 3 {
			return true
		}
	}

	hull := gocv.NewMat()
	defer hull.Close()
	gocv.ConvexHull(contour, &hull, false, true)
	hullPts := matToPoints(hull)
	if len(hullPts) < 3 {
		return false
	}
	hullContour := gocv.NewPointVectorFromPoints(hullPts)
	defer hullContour.Close()
	for _, eps := range TriangleEpsilons {
		approx := gocv.ApproxPolyDP(hullContour, eps*arcLenEstimate(hullContour), true)
		n := approx.Size()
		approx.Close()
		if n == 3 {
			hullArea := gocv.ContourArea(hullContour)
			if hullArea > 0 && area/hullArea >= hullFillRatio {
				return true
			}
			return false
		}
	}
	return false
}

func arcLenEstimate(pv gocv.PointVector) float64 {
	return gocv.ArcLength(pv, true)
}

func matToPoints(m gocv.Mat) []image.Point {
	rows := m.Rows()
	pts := make([]image.Point, 0, rows)
	for r := 0; r < rows; r++ {
		x := int(m.GetIntAt(r, 0))
		y := int(m.GetIntAt(r, 1))
		pts = append(pts, image.Pt(x, y))
	}
	return pts
}

// matBounds returns the pixel extent of m as an image.Rectangle.
func matBounds(m gocv.Mat) image.Rectangle {
	return image.Rect(0, 0, m.Cols(), m.Rows())
}

// meanIntensity returns the mean grayscale intensity (0-255) inside rect,
// used as the "fill darkness" signal for filled triangle markers.
func meanIntensity(gray gocv.Mat, rect image.Rectangle) float64 {
	clamped := rect.Intersect(matBounds(gray))
	if clamped.Empty() {
		return 255
	}
	roi := gray.Region(clamped)
	defer roi.Close()
	mean := roi.Mean()
	return mean.Val1
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// stdDevIntensity reports the standard deviation of grayscale intensity
// inside rect, used by StrictFilter to reject near-uniform regions.
func stdDevIntensity(gray gocv.Mat, rect image.Rectangle) float64 {
	clamped := rect.Intersect(matBounds(gray))
	if clamped.Empty() {
		return 0
	}
	roi := gray.Region(clamped)
	defer roi.Close()
	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(roi, &mean, &stddev)
	return stddev.GetDoubleAt(0, 0)
}
