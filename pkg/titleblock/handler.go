package titleblock

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arxplans/planscan/pkg/ocrprefilter"
)

// titleBlockXFrac/titleBlockYFrac crop the page to its bottom-right corner,
// where construction-drawing title blocks conventionally sit (original_source
// extract_sheet_number.py: "title_block_x = int(w * 0.75); title_block_y =
// int(h * 0.85)").
const (
	titleBlockXFrac = 0.75
	titleBlockYFrac = 0.85
)

// disciplinePattern matches a discipline-prefixed sheet number, e.g. "A101"
// or "S2.1" (original_source extract_sheet_number.py's discipline_pattern).
var disciplinePattern = regexp.MustCompile(`(?i)\b([SAEMPCGL]\d+(?:\.\d+)?)\b`)

// filenameDisciplinePattern is disciplinePattern loosened to allow the
// hyphen filenames commonly use between the discipline letter and sheet
// number (e.g. "A-101"), which OCR'd title-block text rarely contains.
var filenameDisciplinePattern = regexp.MustCompile(`(?i)\b([SAEMPCGL]-?\d+(?:\.\d+)?)\b`)

// sheetPatterns are tried in order against OCR'd title-block text when the
// discipline pattern doesn't match (original_source extract_sheet_number.py
// sheet_patterns).
var sheetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)SHEET\s*(?:NO\.?)?\s*[:#]?\s*([A-Z]?\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)DWG\.?\s*(?:NO\.?)?\s*[:#]?\s*([A-Z]?\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)DRAWING\s+([A-Z]\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)\b([A-Z]\d+(?:\.\d+)?)\b`),
}

// Handler implements POST /api/extract-metadata (spec.md §6) against a
// decoded page image, the request's sheet identifier, and an optional
// filename/path, in three descending-confidence tiers: title-block OCR,
// filename-fallback, and a synthesized last resort.
type Handler struct {
	OCR ocrprefilter.Engine
}

// Extract runs the full tiered extraction. sheetID is the caller-supplied
// X-Sheet-Id (or JSON "sheet_id"); filename is the originating PDF's
// filename or path, if known.
func (h *Handler) Extract(ctx context.Context, page image.Image, sheetID, filename string) Result {
	if h.OCR != nil && page != nil {
		if result, ok := h.extractFromTitleBlock(ctx, page); ok {
			return result
		}
	}

	if number, ok := ExtractSheetNumberFromFilename(filename); ok {
		return Result{
			SheetNumber: number,
			Metadata: Metadata{
				Confidence:    0.4,
				Method:        MethodFilenameFallback,
				ExtractedText: filename,
			},
		}
	}

	return h.fallback(sheetID)
}

func (h *Handler) extractFromTitleBlock(ctx context.Context, page image.Image) (Result, bool) {
	b := page.Bounds()
	w, hgt := b.Dx(), b.Dy()
	x0 := b.Min.X + int(float64(w)*titleBlockXFrac)
	y0 := b.Min.Y + int(float64(hgt)*titleBlockYFrac)
	region := image.Rect(x0, y0, b.Max.X, b.Max.Y)
	if region.Dx() <= 0 || region.Dy() <= 0 {
		return Result{}, false
	}

	crop, ok := cropRegion(page, region)
	if !ok {
		return Result{}, false
	}

	text, conf, err := h.OCR.Recognize(ctx, crop)
	if err != nil || strings.TrimSpace(text) == "" {
		return Result{}, false
	}

	number, ok := sheetNumberFromText(text)
	if !ok {
		return Result{}, false
	}

	loc := BoxLocation{X: float64(x0), Y: float64(y0), W: float64(region.Dx()), H: float64(region.Dy())}
	return Result{
		SheetNumber: number,
		Metadata: Metadata{
			Confidence:         conf,
			Method:             MethodTitleBlockOCR,
			ExtractedText:      text,
			TitleBlockLocation: &loc,
		},
	}, true
}

// fallback synthesizes a sheet number from the request's sheet ID, matching
// spec.md §6's "e.g. 'Sheet-' + last 4 chars of sheet id" with confidence 0.
func (h *Handler) fallback(sheetID string) Result {
	suffix := sheetID
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return Result{
		SheetNumber: fmt.Sprintf("Sheet-%s", suffix),
		Metadata: Metadata{
			Confidence: 0,
			Method:     MethodFallback,
		},
	}
}

// sheetNumberFromText applies the discipline pattern first, then the
// fallback sheet patterns in order (original_source extract_sheet_number.py).
func sheetNumberFromText(text string) (string, bool) {
	if m := disciplinePattern.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1]), true
	}
	for _, p := range sheetPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.ToUpper(m[1]), true
		}
	}
	return "", false
}

// ExtractSheetNumberFromFilename applies the same discipline-prefixed
// pattern to a bare filename/path stem, e.g. "A-101_REV2.pdf" -> "A-101"
// (adapted from original_source extract_sheet_number.py's OCR-text patterns,
// applied here to the filename itself for the one-tier-above-synthesized
// fallback path).
func ExtractSheetNumberFromFilename(filename string) (string, bool) {
	if filename == "" {
		return "", false
	}
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	// '_' is a word character for \b, so "A-101_REV2" would not match
	// without turning underscores into separators first.
	stem = strings.ReplaceAll(stem, "_", " ")
	if m := filenameDisciplinePattern.FindStringSubmatch(stem); m != nil {
		return strings.ToUpper(m[1]), true
	}
	return "", false
}
