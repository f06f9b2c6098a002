// Package tiling cuts a rendered page image into overlapping tiles of fixed
// pixel size (spec.md §4.A) so the detector stages always operate on a
// bounded input. Tiles are produced once per page and carry their top-left
// offset in page pixels so the Aggregator can translate candidate bboxes
// back to page coordinates.
package tiling
