// Package geometric implements Stage 1 of the callout pipeline: per-tile
// circle and triangle shape detection via edge/Hough/contour analysis
// (spec.md §4.B). Recall is prioritized over precision here — Stage 1.5 and
// Stage 2 are responsible for trimming false positives.
package geometric
