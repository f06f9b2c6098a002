package llmvalidate

import "testing"

func TestBatches_SplitsIntoFixedSizeGroups(t *testing.T) {
	items := make([]CandidateImage, 25)
	got := Batches(items, 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(got))
	}
	if len(got[0]) != 10 || len(got[1]) != 10 || len(got[2]) != 5 {
		t.Fatalf("unexpected batch sizes: %d %d %d", len(got[0]), len(got[1]), len(got[2]))
	}
}

func TestBatches_DefaultsSizeWhenNonPositive(t *testing.T) {
	items := make([]CandidateImage, 15)
	got := Batches(items, 0)
	if len(got) != 2 || len(got[0]) != 10 || len(got[1]) != 5 {
		t.Fatalf("expected default size 10, got batches of %v", lens(got))
	}
}

func TestBatches_EmptyInputYieldsNoBatches(t *testing.T) {
	got := Batches(nil, 10)
	if len(got) != 0 {
		t.Fatalf("expected no batches for empty input, got %d", len(got))
	}
}

func lens(batches [][]CandidateImage) []int {
	out := make([]int, len(batches))
	for i, b := range batches {
		out[i] = len(b)
	}
	return out
}
