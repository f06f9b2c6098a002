package ocrprefilter

import (
	"context"
	"image"

	"github.com/arxplans/planscan/pkg/marker"
)

// Prefilter runs Stage 1.5 for a single candidate against the tile image it
// was detected in. If engine is nil, Stage 1.5 is skipped entirely and the
// candidate becomes VerdictUncertain (spec.md §4.C "If no OCR engine is
// available, skip Stage 1.5 entirely"), matching the KindResource/
// "missing OCR" degrade-silently policy from spec.md §7.
func Prefilter(ctx context.Context, tileImg image.Image, cand marker.Candidate, engine Engine, opts Options) (marker.Classification, error) {
	if engine == nil {
		return marker.Classification{Candidate: cand, Verdict: marker.VerdictUncertain}, nil
	}

	crop, ok := Crop(tileImg, cand, cropPaddingFrac)
	if !ok {
		// Empty crop → uncertain (spec.md §4.C "Crop").
		return marker.Classification{Candidate: cand, Verdict: marker.VerdictUncertain}, nil
	}

	prepped := Preprocess(crop)

	text, conf, err := engine.Recognize(ctx, prepped)
	if err != nil {
		// OCR engine failure degrades to uncertain rather than failing the
		// candidate outright; Stage 2 gets the final say.
		return marker.Classification{Candidate: cand, Verdict: marker.VerdictUncertain}, nil //nolint:nilerr
	}

	verdict := Classify(text, conf, opts)
	return marker.Classification{
		Candidate:     cand,
		Verdict:       verdict,
		Text:          text,
		OCRConfidence: conf,
	}, nil
}
