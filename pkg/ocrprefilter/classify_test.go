package ocrprefilter

import (
	"testing"

	"github.com/arxplans/planscan/pkg/marker"
)

func projectWithSheets(sheets ...string) marker.ProjectContext {
	return marker.NewProjectContext(sheets, nil)
}

func TestClassify_Scenario1_CleanMatchAccepts(t *testing.T) {
	pc := projectWithSheets("A5", "A6", "A7")
	opts := DefaultOptions(pc)
	got := Classify("3/A7", 0.95, opts)
	if got != marker.VerdictAccept {
		t.Fatalf("expected accept, got %s", got)
	}
}

func TestClassify_Scenario2_OCRGlitchIsUncertain(t *testing.T) {
	pc := projectWithSheets("A5", "A6", "A7")
	opts := DefaultOptions(pc)
	got := Classify("3/AS", 0.9, opts)
	if got != marker.VerdictUncertain {
		t.Fatalf("expected uncertain for near-miss sheet, got %s", got)
	}
}

func TestClassify_Scenario3_ScaleTextRejects(t *testing.T) {
	pc := projectWithSheets("A5", "A6", "A7")
	opts := DefaultOptions(pc)
	got := Classify(`SCALE: 1/4"=1'-0"`, 0.9, opts)
	if got != marker.VerdictReject {
		t.Fatalf("expected reject for scale text, got %s", got)
	}
}

func TestClassify_LowConfidenceAlwaysUncertain(t *testing.T) {
	pc := projectWithSheets("A7")
	opts := DefaultOptions(pc)
	got := Classify("3/A7", 0.2, opts)
	if got != marker.VerdictUncertain {
		t.Fatalf("expected uncertain below 0.3 confidence, got %s", got)
	}
}

func TestClassify_EmptyOrShortTextRejects(t *testing.T) {
	pc := projectWithSheets("A7")
	opts := DefaultOptions(pc)
	for _, text := range []string{"", "x"} {
		if got := Classify(text, 0.9, opts); got != marker.VerdictReject {
			t.Fatalf("text %q: expected reject, got %s", text, got)
		}
	}
}

func TestClassify_EmptyValidSheetsNeverRejectsOnSheetUnknown(t *testing.T) {
	pc := marker.ProjectContext{} // zero value: empty sets
	opts := DefaultOptions(pc)
	got := Classify("3/Z9", 0.95, opts)
	if got != marker.VerdictUncertain {
		t.Fatalf("boundary behavior: empty valid_sheets should never reject on sheet-unknown, got %s", got)
	}
}

func TestClassify_NonMatchingHighConfidenceRejects(t *testing.T) {
	pc := projectWithSheets("A7")
	opts := DefaultOptions(pc)
	got := Classify("random garbage!!", 0.9, opts)
	if got != marker.VerdictReject {
		t.Fatalf("expected reject, got %s", got)
	}
}

func TestClassify_NonMatchingLowConfidenceUncertain(t *testing.T) {
	pc := projectWithSheets("A7")
	opts := DefaultOptions(pc)
	got := Classify("xq", 0.5, opts)
	if got != marker.VerdictUncertain {
		t.Fatalf("expected uncertain, got %s", got)
	}
}

func TestClassify_IsPureFunctionOfInputs(t *testing.T) {
	pc := projectWithSheets("A5", "A6", "A7")
	opts := DefaultOptions(pc)
	a := Classify("3/A7", 0.8, opts)
	b := Classify("3/A7", 0.8, opts)
	if a != b {
		t.Fatalf("Classify must be deterministic: got %s then %s", a, b)
	}
}

func TestClassify_InvalidDetailRejectsAtHighConfidence(t *testing.T) {
	pc := marker.NewProjectContext([]string{"A7"}, []string{"1", "2", "3"})
	opts := DefaultOptions(pc)
	got := Classify("9/A7", 0.9, opts)
	if got != marker.VerdictReject {
		t.Fatalf("expected reject for invalid detail at high confidence, got %s", got)
	}
}
