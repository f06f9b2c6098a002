package ocrprefilter

import (
	"context"
	"image"
	"sync"
)

// Engine is the strategy-pattern OCR contract spec.md §4.C calls for: "any
// engine returning (text, confidence) is acceptable". Modeled on the
// retrieved corpus's ocr.Engine interface (Name/Recognize).
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image) (text string, confidence float64, err error)
}

// SerializedEngine wraps an Engine that is not safe for concurrent use
// (Tesseract via cgo is not) behind a mutex, per the REDESIGN FLAGS note on
// thread-unsafe OCR engines: concurrent Recognize calls block and run one at
// a time against the wrapped engine.
// Engines that are already thread-safe should be used unwrapped.
type SerializedEngine struct {
	inner Engine
	mu    sync.Mutex
}

// NewSerializedEngine wraps inner behind a mutex-guarded single worker.
func NewSerializedEngine(inner Engine) *SerializedEngine {
	return &SerializedEngine{inner: inner}
}

func (s *SerializedEngine) Name() string { return s.inner.Name() }

func (s *SerializedEngine) Recognize(ctx context.Context, img image.Image) (string, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Recognize(ctx, img)
}
