// Package ocrprefilter implements Stage 1.5 of the callout pipeline: crop
// each candidate with padding, run a fast OCR engine, and classify the
// extracted text against the project's sheet list and the marker regex,
// partitioning candidates into accept/reject/uncertain (spec.md §4.C).
//
// Classify is a pure function of (text, ocrConfidence, validSheets,
// validDetails) — spec.md §8 invariant #2 — so it is safe to unit-test
// exhaustively without an OCR engine at all.
package ocrprefilter
