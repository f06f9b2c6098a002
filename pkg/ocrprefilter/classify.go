package ocrprefilter

import (
	"strings"
	"unicode"

	"github.com/arxplans/planscan/pkg/marker"
)

// falsePositiveKeywords are title-block/legend words that, if the OCR text
// matches one, always reject the candidate regardless of regex match
// (spec.md §4.C decision table, row 3).
var falsePositiveKeywords = []string{
	"SCALE", "PLAN", "ELEVATION", "SECTION", "DETAIL", "NOTES", "LEGEND",
	"TITLE", "DATE", "NORTH",
}

// Options bundles the thresholds Classify needs beyond the raw OCR result.
type Options struct {
	Project                marker.ProjectContext
	AcceptConfidenceThresh float64 // default 0.7, spec.md §6 OCR_CONFIDENCE_THRESHOLD
	NearMissMaxDist        int     // Levenshtein distance for "uncertain" near-miss sheets; spec.md says <=1
}

// DefaultOptions returns the spec.md §4.C defaults.
func DefaultOptions(pc marker.ProjectContext) Options {
	return Options{
		Project:                pc,
		AcceptConfidenceThresh: 0.7,
		NearMissMaxDist:        1,
	}
}

// Classify is a pure function of (text, ocrConfidence, opts) — spec.md §8
// invariant #2 — implementing the decision table in spec.md §4.C exactly,
// in order.
func Classify(text string, ocrConfidence float64, opts Options) marker.Verdict {
	if ocrConfidence < 0.3 {
		return marker.VerdictUncertain
	}

	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= 1 {
		return marker.VerdictReject
	}

	if isFalsePositive(trimmed) {
		return marker.VerdictReject
	}

	detail, sheet, matches := marker.ParseCallout(trimmed)
	if !matches {
		if ocrConfidence >= 0.7 {
			return marker.VerdictReject
		}
		return marker.VerdictUncertain
	}

	if !opts.Project.HasDetail(detail) && ocrConfidence >= 0.7 {
		return marker.VerdictReject
	}

	if opts.Project.HasSheet(sheet) {
		if ocrConfidence >= opts.AcceptConfidenceThresh {
			return marker.VerdictAccept
		}
		return marker.VerdictUncertain
	}

	if len(opts.Project.ValidSheets) > 0 {
		if _, _, ok := marker.NearestSheet(opts.Project, sheet, opts.NearMissMaxDist); ok {
			return marker.VerdictUncertain
		}
		if ocrConfidence >= 0.7 {
			return marker.VerdictReject
		}
	}

	return marker.VerdictUncertain
}

// isFalsePositive reports whether text is a known title-block keyword,
// exceeds 20 characters, or has more than 3 non-alphanumeric (non-"/")
// characters (spec.md §4.C decision table, row 3).
func isFalsePositive(text string) bool {
	upper := strings.ToUpper(text)
	for _, kw := range falsePositiveKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	if len(text) > 20 {
		return true
	}
	var special int
	for _, r := range text {
		if r == '/' {
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			special++
		}
	}
	return special > 3
}
