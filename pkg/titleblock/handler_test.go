package titleblock

import (
	"context"
	"testing"
)

func TestExtractSheetNumberFromFilename_DisciplinePrefixWithHyphen(t *testing.T) {
	got, ok := ExtractSheetNumberFromFilename("A-101_REV2.pdf")
	if !ok || got != "A-101" {
		t.Fatalf("expected A-101, got %q (ok=%v)", got, ok)
	}
}

func TestExtractSheetNumberFromFilename_NoMatchReturnsFalse(t *testing.T) {
	_, ok := ExtractSheetNumberFromFilename("drawing_final_v3.pdf")
	if ok {
		t.Fatal("expected no match for a filename without a discipline-prefixed sheet number")
	}
}

func TestExtractSheetNumberFromFilename_EmptyFilename(t *testing.T) {
	_, ok := ExtractSheetNumberFromFilename("")
	if ok {
		t.Fatal("expected no match for empty filename")
	}
}

func TestSheetNumberFromText_PrefersDisciplinePattern(t *testing.T) {
	got, ok := sheetNumberFromText("PROJECT TITLE SHEET A7.2 REV B")
	if !ok || got != "A7.2" {
		t.Fatalf("expected A7.2, got %q (ok=%v)", got, ok)
	}
}

func TestSheetNumberFromText_FallsBackToSheetNoPattern(t *testing.T) {
	got, ok := sheetNumberFromText("SHEET NO: 42")
	if !ok || got != "42" {
		t.Fatalf("expected 42, got %q (ok=%v)", got, ok)
	}
}

func TestHandler_Extract_NoOCRNoFilenameSynthesizesFallback(t *testing.T) {
	h := &Handler{}
	result := h.Extract(context.Background(), nil, "sheet-0000000001ab", "")
	if result.Metadata.Method != MethodFallback {
		t.Fatalf("expected fallback method, got %s", result.Metadata.Method)
	}
	if result.Metadata.Confidence != 0 {
		t.Fatalf("expected confidence 0 for fallback, got %v", result.Metadata.Confidence)
	}
	if result.SheetNumber != "Sheet-01ab" {
		t.Fatalf("expected synthesized sheet number from last 4 chars, got %q", result.SheetNumber)
	}
}

func TestHandler_Extract_FilenameFallbackBeatsSynthesized(t *testing.T) {
	h := &Handler{}
	result := h.Extract(context.Background(), nil, "sheet-xyz", "A-204_FINAL.pdf")
	if result.Metadata.Method != MethodFilenameFallback {
		t.Fatalf("expected filename-fallback method, got %s", result.Metadata.Method)
	}
	if result.SheetNumber != "A-204" {
		t.Fatalf("expected A-204, got %q", result.SheetNumber)
	}
}
