package rasterize

import (
	"context"
	"image"
)

// PageBox is a PDF page's geometry in PDF user-space points, origin
// bottom-left per the PDF spec.
type PageBox struct {
	WidthPt  float64
	HeightPt float64
}

// Renderer renders a single PDF page to a raster image at the given DPI.
// Rasterization itself is out of scope for this module (spec.md §1
// Non-goals); implementations shell out to an external collaborator for the
// actual pixels and use pdfcpu only for page metadata.
type Renderer interface {
	PageCount(ctx context.Context, pdfBytes []byte) (int, error)
	PageBox(ctx context.Context, pdfBytes []byte, page int) (PageBox, error)
	Render(ctx context.Context, pdfBytes []byte, page int, dpi int) (image.Image, error)
}
