package geometric

import (
	"image"

	"github.com/arxplans/planscan/pkg/marker"
	"gocv.io/x/gocv"
)

// detectCircles runs a Gaussian blur → multi-pass Hough-gradient circle
// transform over gray, emitting one Candidate per detected circle per pass
// (spec.md §4.B "Circle detection").
func detectCircles(gray gocv.Mat, passes []HoughPass, tileID string) []marker.Candidate {
	var out []marker.Candidate

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(9, 9), 2, 2, gocv.BorderDefault)

	for _, pass := range passes {
		circles := gocv.NewMat()
		gocv.HoughCirclesWithParams(
			blurred, &circles,
			gocv.HoughGradient,
			1,                         // dp
			float64(pass.MinRadiusPx), // minDist between circle centers
			pass.Param1,
			pass.Param2,
			pass.MinRadiusPx,
			pass.MaxRadiusPx,
		)

		// HoughCirclesWithParams writes a 1-row, N-column, 3-channel Mat
		// (one vector per detected circle), not N rows.
		for i := 0; i < circles.Cols(); i++ {
			v := circles.GetVecfAt(0, i)
			cx, cy, radius := float64(v[0]), float64(v[1]), float64(v[2])
			if radius <= 0 {
				continue
			}
			out = append(out, marker.Candidate{
				BBox: marker.BBox{
					X: cx - radius,
					Y: cy - radius,
					W: radius * 2,
					H: radius * 2,
				},
				ShapeKind:     marker.ShapeCircular,
				Method:        methodForPass(pass.Name),
				GeoConfidence: pass.GeoConfidence,
				SourceTileID:  tileID,
			})
		}
		circles.Close()
	}
	return out
}

func methodForPass(name string) marker.DetectionMethod {
	switch name {
	case "faint":
		return marker.MethodHoughFaint
	case "confident":
		return marker.MethodHoughConfident
	default:
		return marker.MethodHoughSection
	}
}
