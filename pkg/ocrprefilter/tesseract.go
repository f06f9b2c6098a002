package ocrprefilter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine is the concrete OCR Engine backed by Tesseract via
// github.com/otiai10/gosseract/v2 (cgo bindings over libtesseract). It is
// not safe for concurrent use — gosseract.Client wraps a single Tesseract
// API handle — so callers should wrap it in SerializedEngine.
type TesseractEngine struct {
	client *gosseract.Client
}

// NewTesseractEngine creates a Tesseract-backed Engine restricted to the
// character set a callout marker can contain (digits, letters, "N", "/").
func NewTesseractEngine() *TesseractEngine {
	client := gosseract.NewClient()
	_ = client.SetWhitelist("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ/.-")
	_ = client.SetPageSegMode(gosseract.PSM_SINGLE_LINE)
	return &TesseractEngine{client: client}
}

func (t *TesseractEngine) Name() string { return "tesseract" }

// Recognize encodes img as PNG, feeds it to Tesseract, and derives a
// confidence in [0,1] from Tesseract's per-word confidences (0-100).
func (t *TesseractEngine) Recognize(ctx context.Context, img image.Image) (string, float64, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", 0, fmt.Errorf("tesseract: encoding crop: %w", err)
	}
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", 0, fmt.Errorf("tesseract: loading crop: %w", err)
	}

	text, err := t.client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("tesseract: recognizing: %w", err)
	}
	text = strings.TrimSpace(text)

	boxes, err := t.client.GetBoundingBoxesVerbose()
	if err != nil || len(boxes) == 0 {
		// No per-word confidence available; fall back to a neutral midpoint.
		// 0.5 is neither under the decision table's <0.3 cut nor at its 0.7
		// threshold, so the text is never accepted outright: it is
		// "uncertain" unless the text rules alone reject it.
		return text, 0.5, nil
	}
	var sum float64
	for _, b := range boxes {
		sum += float64(b.Confidence) / 100.0
	}
	return text, sum / float64(len(boxes)), nil
}

// Close releases the underlying Tesseract handle.
func (t *TesseractEngine) Close() error {
	return t.client.Close()
}
