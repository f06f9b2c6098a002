package ocrprefilter

import "github.com/arxplans/planscan/pkg/marker"

// MarkerFromAccept builds a Marker directly from a VerdictAccept
// classification, without a Stage 2 round-trip. Classify only returns
// accept once the candidate's text has parsed as "detail/sheet" and the
// sheet matched a project sheet exactly (spec.md §4.C), so the parse here
// cannot fail in practice; ok is false only if cls.Verdict isn't accept or
// the text somehow no longer parses (e.g. a caller passed a stale
// Classification), in which case the caller should fall back to Stage 2.
func MarkerFromAccept(cls marker.Classification) (marker.Marker, bool) {
	if cls.Verdict != marker.VerdictAccept {
		return marker.Marker{}, false
	}
	detail, sheet, ok := marker.ParseCallout(cls.Text)
	if !ok {
		return marker.Marker{}, false
	}
	return marker.Marker{
		Text:         marker.CalloutText(detail, sheet),
		Detail:       detail,
		Sheet:        sheet,
		Kind:         cls.Candidate.ShapeKind,
		Confidence:   cls.OCRConfidence,
		IsValid:      true,
		BBox:         cls.Candidate.BBox,
		SourceTileID: cls.Candidate.SourceTileID,
	}, true
}
