// Package titleblock implements the POST /api/extract-metadata contract
// (spec.md §6): Client calls an external title-block metadata extraction
// service, and Handler is this module's own implementation of the same
// contract, backed by the Stage 1.5 OCR engine and a filename-based
// fallback heuristic adapted from original_source's sheet-number
// extraction regexes.
package titleblock
