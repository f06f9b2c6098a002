package rasterize

import (
	"context"
	"testing"

	"github.com/arxplans/planscan/pkg/pipelineerr"
)

func TestPDFCPURenderer_RenderWithoutCommandReturnsResourceError(t *testing.T) {
	r := &PDFCPURenderer{}
	_, err := r.Render(context.Background(), []byte("not a real pdf"), 1, 150)
	if err == nil {
		t.Fatal("expected error when no renderer command is configured")
	}
	pe, ok := pipelineerr.As(err)
	if !ok || pe.Kind != pipelineerr.KindResource {
		t.Fatalf("expected KindResource error, got %v", err)
	}
}
