package llmvalidate

import (
	"testing"

	"github.com/arxplans/planscan/pkg/pipelineerr"
)

func TestParseMarkers_DecodesCleanJSONArray(t *testing.T) {
	content := `[{"detail":"3","sheet":"A7","type":"circular","confidence":0.92,"is_valid":true}]`
	got, err := parseMarkers(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Sheet != "A7" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestParseMarkers_StripsCodeFence(t *testing.T) {
	content := "```json\n[{\"detail\":\"1\",\"sheet\":\"A1\",\"type\":\"circular\",\"confidence\":0.8,\"is_valid\":true}]\n```"
	got, err := parseMarkers(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(got))
	}
}

func TestParseMarkers_FallsBackToRegexOnMalformedJSON(t *testing.T) {
	content := `I see a marker that reads 3/A7 in the image.`
	got, err := parseMarkers(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Detail != "3" || got[0].Sheet != "A7" {
		t.Fatalf("unexpected fallback result: %+v", got)
	}
	if got[0].Confidence != fallbackConfidenceCap {
		t.Fatalf("expected fallback confidence capped at %v, got %v", fallbackConfidenceCap, got[0].Confidence)
	}
}

func TestParseMarkers_ReturnsTransientErrorWhenUnrecoverable(t *testing.T) {
	_, err := parseMarkers("no usable structure here at all")
	if err == nil {
		t.Fatal("expected error for unrecoverable content")
	}
	if pe, ok := pipelineerr.As(err); !ok || pe.Kind != pipelineerr.KindTransientExternal {
		t.Fatalf("expected a transient_external error, got %v", err)
	}
}

func TestTruncateToBatch_EnforcesHallucinationGuard(t *testing.T) {
	markers := []rawMarker{{Detail: "1"}, {Detail: "2"}, {Detail: "3"}}
	got := truncateToBatch(markers, 2)
	if len(got) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(got))
	}
}

func TestTruncateToBatch_LeavesShorterListsUntouched(t *testing.T) {
	markers := []rawMarker{{Detail: "1"}}
	got := truncateToBatch(markers, 5)
	if len(got) != 1 {
		t.Fatalf("expected no change, got %d", len(got))
	}
}
