package aggregator

import (
	"math"
	"sort"

	"github.com/arxplans/planscan/pkg/marker"
)

// dedupRadiusFrac is the fraction of page height within which two equal-text
// markers are considered the same physical symbol (spec.md §4.E "default
// 6.7% of page height, reflecting a typical symbol diameter").
const dedupRadiusFrac = 0.067

// TileOffset carries the page-coordinate translation for one tile, since
// markers themselves no longer carry tile offsets once matched back from
// Stage 2 (spec.md §4.E "Coordinate translation").
type TileOffset struct {
	TileID  string
	OffsetX float64
	OffsetY float64
	Order   int // position among tiles in page-scan order, for tie-breaking
}

// Aggregate translates every marker's bbox into page coordinates, removes
// overlap duplicates, and returns the final ordered marker list for one page
// (spec.md §4.E).
func Aggregate(markers []marker.Marker, offsets map[string]TileOffset, pageHeight float64) []marker.Marker {
	translated := make([]marker.Marker, 0, len(markers))
	order := make([]int, 0, len(markers))
	for _, m := range markers {
		off := offsets[m.SourceTileID]
		m.BBox = m.BBox.Translate(off.OffsetX, off.OffsetY)
		translated = append(translated, m)
		order = append(order, off.Order)
	}

	deduped := dedupe(translated, order, pageHeight)

	sort.SliceStable(deduped, func(i, j int) bool {
		ci, cj := deduped[i].BBox, deduped[j].BBox
		_, iy := ci.Center()
		_, jy := cj.Center()
		if iy != jy {
			return iy < jy
		}
		ix, _ := ci.Center()
		jx, _ := cj.Center()
		return ix < jx
	})
	return deduped
}

// dedupe groups markers by normalized text, then within each group keeps
// only one marker per cluster of mutually-near duplicates, preferring
// highest confidence and, on ties, earlier tile order (spec.md §4.E
// "Overlap de-duplication").
func dedupe(markers []marker.Marker, order []int, pageHeight float64) []marker.Marker {
	radius := dedupRadiusFrac * pageHeight

	byText := make(map[string][]int)
	for i, m := range markers {
		key := marker.NormalizeText(m.Text)
		byText[key] = append(byText[key], i)
	}

	keep := make(map[int]bool)
	for _, idxs := range byText {
		kept := clusterAndKeepBest(markers, order, idxs, radius)
		for _, i := range kept {
			keep[i] = true
		}
	}

	out := make([]marker.Marker, 0, len(keep))
	for i, m := range markers {
		if keep[i] {
			out = append(out, m)
		}
	}
	return out
}

// clusterAndKeepBest unions indices within radius of each other (same
// normalized text already guaranteed by the caller) and returns one winner
// index per connected cluster.
func clusterAndKeepBest(markers []marker.Marker, order []int, idxs []int, radius float64) []int {
	n := len(idxs)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ci, cj := markers[idxs[i]].BBox, markers[idxs[j]].BBox
			icx, icy := ci.Center()
			jcx, jcy := cj.Center()
			dx, dy := icx-jcx, icy-jcy
			if math.Hypot(dx, dy) < radius {
				union(i, j)
			}
		}
	}

	clusters := make(map[int][]int)
	for i := range idxs {
		r := find(i)
		clusters[r] = append(clusters[r], i)
	}

	winners := make([]int, 0, len(clusters))
	for _, members := range clusters {
		best := members[0]
		for _, m := range members[1:] {
			bi, mi := idxs[best], idxs[m]
			if markers[mi].Confidence > markers[bi].Confidence {
				best = m
			} else if markers[mi].Confidence == markers[bi].Confidence && order[idxs[m]] < order[idxs[best]] {
				best = m
			}
		}
		winners = append(winners, idxs[best])
	}
	return winners
}
