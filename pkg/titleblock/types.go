package titleblock

// Metadata is the POST /api/extract-metadata response body's "metadata"
// object (spec.md §6).
type Metadata struct {
	SheetTitle         *string      `json:"sheet_title"`
	Confidence         float64      `json:"confidence"`
	Method             string       `json:"method"`
	ExtractedText      string       `json:"extracted_text"`
	TitleBlockLocation *BoxLocation `json:"title_block_location"`
	AllSheets          []string     `json:"all_sheets"`
}

// BoxLocation is the title block's bounding region within the page image,
// in pixel coordinates.
type BoxLocation struct {
	X, Y, W, H float64
}

// Result is the full POST /api/extract-metadata response (spec.md §6).
type Result struct {
	SheetNumber string   `json:"sheet_number"`
	Metadata    Metadata `json:"metadata"`
}

// Method tiers, highest-confidence first (spec.md §6 plus the
// filename-fallback tier from original_source's extract_sheet_number.py).
const (
	MethodTitleBlockOCR    = "title_block_ocr"
	MethodFilenameFallback = "filename-fallback"
	MethodFallback         = "fallback"
)
