// Package llmvalidate implements Stage 2 of the callout pipeline: batch the
// uncertain (and optionally accept) candidates, send each batch as a
// multi-image prompt together with fixed few-shot exemplars to a
// vision-capable language model, parse structured JSON, apply fuzzy sheet
// matching, and return validated markers (spec.md §4.D).
//
// Stage 2's central invariant (spec.md §8 #3) is the hallucination guard:
// a batch of B candidates can never produce more than B markers. Every
// entry point in this package enforces that before returning.
package llmvalidate
