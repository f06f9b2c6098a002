package titleblock

import (
	"image"
	"image/draw"
)

// cropRegion copies rect out of img into a new RGBA image. ok is false if
// rect is empty after clamping to img's bounds.
func cropRegion(img image.Image, rect image.Rectangle) (image.Image, bool) {
	b := img.Bounds()
	rect = rect.Intersect(b)
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return nil, false
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst, true
}
