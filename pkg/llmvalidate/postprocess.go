package llmvalidate

import (
	"strings"

	"github.com/arxplans/planscan/pkg/marker"
)

// maxFuzzySheetDistance bounds the Levenshtein distance a reported sheet
// name may be from a known sheet before it is treated as unmatched
// (spec.md §4.D "Postprocessing": "fuzzy-match against valid_sheets,
// distance <= 2").
const maxFuzzySheetDistance = 2

// Postprocess turns one batch's parsed rawMarker list, matched positionally
// against the batch's candidates, into final Markers: sheet normalization,
// fuzzy matching against the project's known sheets, and validity
// downgrade on no-match (spec.md §4.D "Postprocessing").
func Postprocess(raw []rawMarker, batch []CandidateImage, pc marker.ProjectContext) []marker.Marker {
	out := make([]marker.Marker, 0, len(raw))
	for i, rm := range raw {
		if i >= len(batch) {
			break // hallucination guard already truncates, but stay defensive
		}
		out = append(out, toMarker(rm, batch[i], pc))
	}
	return out
}

func toMarker(rm rawMarker, ci CandidateImage, pc marker.ProjectContext) marker.Marker {
	sheet := strings.ToUpper(strings.TrimSpace(rm.Sheet))
	confidence := clampConfidence(rm.Confidence)
	isValid := rm.IsValid
	fuzzyMatched := rm.FuzzyMatched
	originalSheet := ""

	if len(pc.ValidSheets) > 0 && !pc.HasSheet(sheet) {
		if matched, _, ok := marker.NearestSheet(pc, sheet, maxFuzzySheetDistance); ok {
			originalSheet = sheet
			sheet = matched
			fuzzyMatched = true
		} else {
			isValid = false
			if confidence > 0.5 {
				confidence = 0.5
			}
		}
	}

	kind := marker.ShapeUnknown
	switch rm.Type {
	case "circular":
		kind = marker.ShapeCircular
	case "triangular":
		kind = marker.ShapeTriangular
	}

	return marker.Marker{
		Text:          marker.CalloutText(rm.Detail, sheet),
		Detail:        rm.Detail,
		Sheet:         sheet,
		Kind:          kind,
		Confidence:    confidence,
		IsValid:       isValid,
		FuzzyMatched:  fuzzyMatched,
		OriginalSheet: originalSheet,
		BBox:          ci.Candidate.BBox,
		SourceTileID:  ci.Candidate.SourceTileID,
	}
}
