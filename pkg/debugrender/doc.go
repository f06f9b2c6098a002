// Package debugrender draws an SVG overlay of detected markers on a tile
// or page image, for operator debugging. It is adapted from the teacher's
// dungeon-graph SVG exporter (github.com/ajstarks/svgo canvas drawing),
// repurposed from rooms/connectors to marker bounding boxes.
package debugrender
