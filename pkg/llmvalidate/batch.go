package llmvalidate

// Batches splits items into groups of exactly size, except the final group
// which may be shorter (spec.md §4.D "Batching": "default 10; the tested
// optimum... Each batch produces one request").
func Batches(items []CandidateImage, size int) [][]CandidateImage {
	if size <= 0 {
		size = 10
	}
	var out [][]CandidateImage
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}
