// Package rasterize keeps PDF-to-pixel rendering a true external
// collaborator (spec.md §1 Non-goals: rasterization itself is out of
// scope) while giving the pipeline a concrete Go shape to call instead of a
// bare function signature. PDFCPURenderer reads page/box metadata with
// github.com/pdfcpu/pdfcpu and shells out to a configured external
// rasterizer command for the actual pixels.
package rasterize
