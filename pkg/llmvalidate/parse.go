package llmvalidate

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/arxplans/planscan/pkg/pipelineerr"
)

// fallbackPattern recovers a detail/sheet pair from a response the model
// wrapped in prose or malformed JSON instead of a clean array
// (spec.md §4.D "Parsing": "a regex fallback... when JSON decoding fails").
var fallbackPattern = regexp.MustCompile(`(\d+|N)\s*[/_—–-]\s*([A-Z0-9.\-]+)`)

// parseMarkers decodes the model's response content, trying a direct JSON
// array first and falling back to regex extraction of detail/sheet pairs
// with a capped confidence, since the fallback path carries no model
// confidence signal of its own (spec.md §4.D).
func parseMarkers(content string) ([]rawMarker, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var markers []rawMarker
	if err := json.Unmarshal([]byte(trimmed), &markers); err == nil {
		return markers, nil
	}

	fallback := parseFallback(trimmed)
	if len(fallback) == 0 {
		return nil, pipelineerr.Transient(nil, "llmvalidate: response is neither valid JSON nor regex-recoverable")
	}
	return fallback, nil
}

const fallbackConfidenceCap = 0.6

func parseFallback(content string) []rawMarker {
	matches := fallbackPattern.FindAllStringSubmatch(content, -1)
	markers := make([]rawMarker, 0, len(matches))
	for _, m := range matches {
		markers = append(markers, rawMarker{
			Detail:     m[1],
			Sheet:      strings.ToUpper(m[2]),
			Type:       "circular",
			Confidence: fallbackConfidenceCap,
			IsValid:    false,
			Reason:     "regex fallback parse",
		})
	}
	return markers
}

// truncateToBatch enforces the hallucination guard: a batch of N candidates
// can never yield more than N markers (spec.md §8 #3).
func truncateToBatch(markers []rawMarker, batchSize int) []rawMarker {
	if len(markers) > batchSize {
		return markers[:batchSize]
	}
	return markers
}

// clampConfidence keeps LLM-reported confidence within [0, 1] even if the
// model returns something outside range.
func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
