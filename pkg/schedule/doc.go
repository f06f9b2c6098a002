// Package schedule implements the schedule/notes extraction boundary
// spec.md §6 describes as an external collaborator: Client is the typed
// request/response contract the pipeline assumes, and Detector finds
// candidate table regions within a page's text-cell grid using the same
// row/column bounding and header-sampling heuristics as the retrieved
// corpus's spreadsheet table detector, adapted from cell ranges to pixel
// bounding boxes.
package schedule
