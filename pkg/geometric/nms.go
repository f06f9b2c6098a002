package geometric

import (
	"sort"

	"github.com/arxplans/planscan/pkg/marker"
)

// nmsIoUThreshold is the per-tile non-max-suppression threshold (spec.md
// §4.B).
const nmsIoUThreshold = 0.3

// nonMaxSuppress groups candidates by shape kind and, within each group,
// keeps the highest-confidence box and drops any other box whose IoU with a
// kept box exceeds nmsIoUThreshold.
func nonMaxSuppress(candidates []marker.Candidate) []marker.Candidate {
	byKind := make(map[marker.ShapeKind][]marker.Candidate)
	for _, c := range candidates {
		byKind[c.ShapeKind] = append(byKind[c.ShapeKind], c)
	}

	var out []marker.Candidate
	for _, group := range byKind {
		out = append(out, nmsGroup(group)...)
	}
	return out
}

func nmsGroup(group []marker.Candidate) []marker.Candidate {
	sorted := make([]marker.Candidate, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GeoConfidence > sorted[j].GeoConfidence
	})

	kept := make([]marker.Candidate, 0, len(sorted))
	for _, cand := range sorted {
		suppressed := false
		for _, k := range kept {
			if cand.BBox.IoU(k.BBox) > nmsIoUThreshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, cand)
		}
	}
	return kept
}
