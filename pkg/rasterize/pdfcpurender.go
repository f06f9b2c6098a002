package rasterize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // decode the external rasterizer's PNG output
	"os"
	"os/exec"

	"github.com/arxplans/planscan/pkg/pipelineerr"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// PDFCPURenderer reads page count and page-box metadata with pdfcpu (the
// source of truth for page geometry) and delegates actual pixel rendering
// to an external command, invoked as:
//
//	<cmd> --pdf <tmpfile> --page <n> --dpi <dpi> --out <tmpfile.png>
//
// This keeps rasterization itself a true external collaborator while this
// package owns everything the pipeline needs to reason about page
// geometry (spec.md §1 Non-goals; SPEC_FULL.md §4 "PDF rasterization").
type PDFCPURenderer struct {
	// RendererCommand is the external rasterizer's executable path, e.g. a
	// pdftoppm or mutool wrapper script. Required for Render; PageCount and
	// PageBox work without it.
	RendererCommand string
}

func (r *PDFCPURenderer) PageCount(ctx context.Context, pdfBytes []byte) (int, error) {
	pdfCtx, err := pdfcpu.Read(bytes.NewReader(pdfBytes), nil)
	if err != nil {
		return 0, pipelineerr.Input("rasterize: reading PDF: %v", err)
	}
	return pdfCtx.PageCount, nil
}

func (r *PDFCPURenderer) PageBox(ctx context.Context, pdfBytes []byte, page int) (PageBox, error) {
	pdfCtx, err := pdfcpu.Read(bytes.NewReader(pdfBytes), nil)
	if err != nil {
		return PageBox{}, pipelineerr.Input("rasterize: reading PDF: %v", err)
	}
	if page < 1 || page > pdfCtx.PageCount {
		return PageBox{}, pipelineerr.Input("rasterize: page %d out of range (1..%d)", page, pdfCtx.PageCount)
	}
	dims, err := api.PageDims(bytes.NewReader(pdfBytes), nil)
	if err != nil || page > len(dims) {
		// Fall back to US ANSI D (34x22in at 72pt/in) when dimension lookup
		// doesn't resolve for this page.
		return PageBox{WidthPt: 2448, HeightPt: 1584}, nil
	}
	d := dims[page-1]
	return PageBox{WidthPt: d.Width, HeightPt: d.Height}, nil
}

func (r *PDFCPURenderer) Render(ctx context.Context, pdfBytes []byte, page int, dpi int) (image.Image, error) {
	if r.RendererCommand == "" {
		return nil, pipelineerr.Resource(false, "rasterize: no external rasterizer command configured")
	}

	tmpPDF, err := os.CreateTemp("", "planscan-*.pdf")
	if err != nil {
		return nil, pipelineerr.Unexpected(err, "rasterize: creating temp PDF")
	}
	defer os.Remove(tmpPDF.Name())
	if _, err := tmpPDF.Write(pdfBytes); err != nil {
		tmpPDF.Close()
		return nil, pipelineerr.Unexpected(err, "rasterize: writing temp PDF")
	}
	tmpPDF.Close()

	tmpPNG := tmpPDF.Name() + ".png"
	defer os.Remove(tmpPNG)

	cmd := exec.CommandContext(ctx, r.RendererCommand,
		"--pdf", tmpPDF.Name(),
		"--page", fmt.Sprintf("%d", page),
		"--dpi", fmt.Sprintf("%d", dpi),
		"--out", tmpPNG,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, pipelineerr.Transient(err, "rasterize: external renderer failed: %s", out)
	}

	data, err := os.ReadFile(tmpPNG)
	if err != nil {
		return nil, pipelineerr.Transient(err, "rasterize: reading rendered output")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pipelineerr.Unexpected(err, "rasterize: decoding rendered PNG")
	}
	return img, nil
}
