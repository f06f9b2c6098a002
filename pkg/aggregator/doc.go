// Package aggregator implements Stage E: it takes validated markers from
// every tile of one page, translates their bounding boxes back into page
// coordinates, removes duplicate detections that arose from tile overlap,
// and returns a stable top-to-bottom, left-to-right ordering (spec.md §4.E).
package aggregator
