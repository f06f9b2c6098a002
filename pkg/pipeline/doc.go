// Package pipeline wires the per-page stages together: tiling, Stage 1
// geometric detection, Stage 1.5 OCR prefiltering, Stage 2 LLM validation,
// and aggregation, under bounded concurrent worker pools with cascading
// cancellation (spec.md §5).
package pipeline
