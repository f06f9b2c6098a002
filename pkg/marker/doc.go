// Package marker defines the data model shared by every stage of the
// callout-detection pipeline: Tile, Candidate, Classification, Marker, and
// ProjectContext. Candidates are immutable once emitted by the geometric
// detector; later stages attach decisions but never rewrite a bbox.
package marker
