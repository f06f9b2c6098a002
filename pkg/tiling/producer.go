package tiling

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/arxplans/planscan/pkg/marker"
	"github.com/google/uuid"
)

// neutralFill is the fill color used to pad a page image smaller than the
// tile size (spec.md §4.A "Failure" clause).
var neutralFill = color.Gray{Y: 200}

// Produce slides a tile of size T×T across img with stride floor(T*(1-o)),
// emitting right/bottom-aligned tiles at the edges instead of padding, then
// deduplicating identical offsets. If img is smaller than T in either
// dimension, a single tile padded to T×T is emitted instead.
func Produce(img image.Image, tileSize int, overlap float64) ([]marker.Tile, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("tiling: tileSize must be > 0, got %d", tileSize)
	}
	if overlap < 0 || overlap >= 1 {
		return nil, fmt.Errorf("tiling: overlap must be in [0,1), got %f", overlap)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if w < tileSize || h < tileSize {
		return []marker.Tile{{
			ID:      uuid.NewString(),
			Image:   padTo(img, tileSize, tileSize),
			OffsetX: 0,
			OffsetY: 0,
		}}, nil
	}

	stride := int(float64(tileSize) * (1 - overlap))
	if stride < 1 {
		stride = 1
	}

	xs := axisOffsets(w, tileSize, stride)
	ys := axisOffsets(h, tileSize, stride)

	tiles := make([]marker.Tile, 0, len(xs)*len(ys))
	for _, oy := range ys {
		for _, ox := range xs {
			crop := cropAt(img, ox, oy, tileSize, tileSize)
			tiles = append(tiles, marker.Tile{
				ID:      uuid.NewString(),
				Image:   crop,
				OffsetX: ox,
				OffsetY: oy,
			})
		}
	}
	return tiles, nil
}

// axisOffsets computes the deduplicated, edge-aligned offsets along one
// axis: a regular grid with the given stride, plus a final offset that
// right/bottom-aligns the last tile to length if the grid doesn't already
// reach the edge.
func axisOffsets(length, tileSize, stride int) []int {
	var offsets []int
	for o := 0; o+tileSize <= length; o += stride {
		offsets = append(offsets, o)
	}
	if len(offsets) == 0 {
		offsets = append(offsets, 0)
	}
	last := length - tileSize
	if offsets[len(offsets)-1] != last {
		offsets = append(offsets, last)
	}
	return dedupeInts(offsets)
}

func dedupeInts(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := in[:0:0]
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// cropAt extracts a w×h crop of img at (x,y) into a fresh RGBA image.
func cropAt(img image.Image, x, y, w, h int) image.Image {
	b := img.Bounds()
	rect := image.Rect(x+b.Min.X, y+b.Min.Y, x+b.Min.X+w, y+b.Min.Y+h)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}

// padTo places img at the origin of a w×h canvas filled with neutralFill,
// used only when the source page is smaller than one tile.
func padTo(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(neutralFill), image.Point{}, draw.Src)
	draw.Draw(dst, img.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
