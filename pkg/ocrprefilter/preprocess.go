package ocrprefilter

import (
	"image"
	"image/color"
	stddraw "image/draw"

	"github.com/arxplans/planscan/pkg/marker"
	"golang.org/x/image/draw"
)

// cropPaddingFrac is the default bbox expansion fraction (spec.md §4.C
// "Crop").
const cropPaddingFrac = 0.20

// minCropHeightPx is the minimum height the crop is upscaled to before OCR.
const minCropHeightPx = 32

// Crop expands cand's bbox by paddingFrac in every direction, clamped to the
// tile's bounds, and returns the cropped image. An empty result (zero
// width/height after clamping) is signaled by ok=false, which callers must
// route to VerdictUncertain per spec.md §4.C.
func Crop(tileImg image.Image, cand marker.Candidate, paddingFrac float64) (image.Image, bool) {
	b := tileImg.Bounds()
	pw := cand.BBox.W * paddingFrac
	ph := cand.BBox.H * paddingFrac

	x0 := int(cand.BBox.X - pw)
	y0 := int(cand.BBox.Y - ph)
	x1 := int(cand.BBox.X + cand.BBox.W + pw)
	y1 := int(cand.BBox.Y + cand.BBox.H + ph)

	if x0 < b.Min.X {
		x0 = b.Min.X
	}
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if x1 > b.Max.X {
		x1 = b.Max.X
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}

	if x1 <= x0 || y1 <= y0 {
		return nil, false
	}

	rect := image.Rect(x0, y0, x1, y1)
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	stddraw.Draw(dst, dst.Bounds(), tileImg, rect.Min, stddraw.Src)
	return dst, true
}

// Preprocess grayscales, binarizes (inverted threshold), and upscales to at
// least minCropHeightPx using bicubic interpolation, standardizing input
// for any OCR engine (spec.md §4.C "Preprocess").
func Preprocess(img image.Image) image.Image {
	gray := toGray(img)
	bin := invertThreshold(gray)
	return upscale(bin, minCropHeightPx)
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(b)
	stddraw.Draw(dst, b, img, b.Min, stddraw.Src)
	return dst
}

// invertThreshold applies a global mean-intensity threshold and inverts,
// approximating an "adaptive threshold (inverted)" pass over a small,
// already-tightly-cropped candidate region.
func invertThreshold(gray *image.Gray) *image.Gray {
	b := gray.Bounds()
	var sum, n int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += int(gray.GrayAt(x, y).Y)
			n++
		}
	}
	if n == 0 {
		return gray
	}
	mean := uint8(sum / n)

	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if gray.GrayAt(x, y).Y < mean {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

func upscale(img *image.Gray, minHeight int) image.Image {
	b := img.Bounds()
	if b.Dy() >= minHeight {
		return img
	}
	scale := float64(minHeight) / float64(b.Dy())
	newW := int(float64(b.Dx()) * scale)
	dst := image.NewRGBA(image.Rect(0, 0, newW, minHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
