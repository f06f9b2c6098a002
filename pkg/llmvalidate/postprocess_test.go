package llmvalidate

import (
	"testing"

	"github.com/arxplans/planscan/pkg/marker"
)

func candidateImage(sourceTile string) CandidateImage {
	return CandidateImage{
		Candidate: marker.Candidate{
			ID:           "c1",
			BBox:         marker.BBox{X: 10, Y: 20, W: 30, H: 30},
			ShapeKind:    marker.ShapeCircular,
			SourceTileID: sourceTile,
		},
	}
}

func TestPostprocess_ExactSheetMatchPassesThrough(t *testing.T) {
	pc := marker.NewProjectContext([]string{"A7"}, nil)
	raw := []rawMarker{{Detail: "3", Sheet: "A7", Type: "circular", Confidence: 0.9, IsValid: true}}
	got := Postprocess(raw, []CandidateImage{candidateImage("t1")}, pc)
	if len(got) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(got))
	}
	m := got[0]
	if m.Sheet != "A7" || m.FuzzyMatched || !m.IsValid {
		t.Fatalf("unexpected marker: %+v", m)
	}
	if m.Text != "3/A7" {
		t.Fatalf("expected canonical text, got %q", m.Text)
	}
	if m.BBox != (marker.BBox{X: 10, Y: 20, W: 30, H: 30}) {
		t.Fatalf("expected bbox carried from candidate, got %+v", m.BBox)
	}
}

func TestPostprocess_NearMissSheetIsFuzzyMatched(t *testing.T) {
	pc := marker.NewProjectContext([]string{"A7"}, nil)
	raw := []rawMarker{{Detail: "3", Sheet: "A7.", Type: "circular", Confidence: 0.9}}
	got := Postprocess(raw, []CandidateImage{candidateImage("t1")}, pc)
	m := got[0]
	if !m.FuzzyMatched {
		t.Fatalf("expected fuzzy match flag set")
	}
	if m.Sheet != "A7" {
		t.Fatalf("expected corrected sheet A7, got %q", m.Sheet)
	}
	if m.OriginalSheet != "A7." {
		t.Fatalf("expected original sheet preserved, got %q", m.OriginalSheet)
	}
}

func TestPostprocess_UnmatchableSheetDowngradesValidityAndCapsConfidence(t *testing.T) {
	pc := marker.NewProjectContext([]string{"A7"}, nil)
	raw := []rawMarker{{Detail: "3", Sheet: "Z9999", Type: "circular", Confidence: 0.95, IsValid: true}}
	got := Postprocess(raw, []CandidateImage{candidateImage("t1")}, pc)
	m := got[0]
	if m.IsValid {
		t.Fatalf("expected invalid for unmatchable sheet")
	}
	if m.Confidence > 0.5 {
		t.Fatalf("expected confidence capped at 0.5, got %v", m.Confidence)
	}
}

func TestPostprocess_EmptyValidSheetsNeverFuzzyMatches(t *testing.T) {
	pc := marker.ProjectContext{}
	raw := []rawMarker{{Detail: "3", Sheet: "A7", Type: "circular", Confidence: 0.8, IsValid: true}}
	got := Postprocess(raw, []CandidateImage{candidateImage("t1")}, pc)
	m := got[0]
	if m.FuzzyMatched || !m.IsValid {
		t.Fatalf("unexpected downgrade with no valid sheets constraint: %+v", m)
	}
}

func TestPostprocess_StopsAtShorterCandidateList(t *testing.T) {
	raw := []rawMarker{{Detail: "1"}, {Detail: "2"}, {Detail: "3"}}
	got := Postprocess(raw, []CandidateImage{candidateImage("t1")}, marker.ProjectContext{})
	if len(got) != 1 {
		t.Fatalf("expected positional truncation to 1, got %d", len(got))
	}
}
