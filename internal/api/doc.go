// Package api is the HTTP facade (spec.md §4.F, §6): a gin router exposing
// /health, /api/extract-metadata, /api/detect-markers, and /metrics. It
// never runs detection logic itself — every handler is a thin adapter that
// decodes the wire request, calls a pkg/pipeline, pkg/titleblock, or
// pkg/schedule collaborator, and encodes the wire response, translating
// pipelineerr.Kind into the HTTP status spec.md §7 assigns it.
package api
