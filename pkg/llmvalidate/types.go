package llmvalidate

import "github.com/arxplans/planscan/pkg/marker"

// Exemplar is a pre-recorded true-positive crop shown to the model so it
// anchors its recognition behavior without being analyzed itself
// (spec.md §4.D "Prompt construction", step 3).
type Exemplar struct {
	Image []byte // PNG-encoded
	Kind  marker.ShapeKind
}

// CandidateImage pairs a Candidate with its encoded crop, in batch order.
// Positional order is load-bearing: Stage 2's output is matched back to
// candidates by index (spec.md §4.D "Contract").
type CandidateImage struct {
	Candidate marker.Candidate
	PNG       []byte
}

// rawMarker is the shape of one element of the LLM's JSON array response
// (spec.md §4.D "Required LLM output").
type rawMarker struct {
	Detail       string  `json:"detail"`
	Sheet        string  `json:"sheet"`
	Type         string  `json:"type"`
	Confidence   float64 `json:"confidence"`
	IsValid      bool    `json:"is_valid"`
	FuzzyMatched bool    `json:"fuzzy_matched"`
	Reason       string  `json:"reason,omitempty"`
}

// maxResponseBytes is the hard cap on a single LLM response body
// (spec.md §4.D "Required LLM output": "hard cap, e.g. 50 kB").
const maxResponseBytes = 50 * 1024
