package schedule

import (
	"sort"

	"github.com/arxplans/planscan/pkg/marker"
)

// DefaultHeaderSampleRows/Cols mirror the retrieved corpus's spreadsheet
// table detector defaults for including a header preview with each
// candidate (22af140c_vinodismyname-mcpxcel detect_tables.go: "default 2",
// "default 12").
const (
	DefaultHeaderSampleRows = 2
	DefaultHeaderSampleCols = 12
	defaultMaxTables        = 5
)

// Detector finds candidate schedule/notes table regions in a page's cell
// grid, adapted from the corpus's excelize-grid table detector: grow
// rectangular blocks of occupied cells, sample the top rows as a header
// preview, and score by fill ratio.
type Detector struct {
	MaxTables int
}

// DetectTables groups cells into row/column blocks and returns up to
// MaxTables candidates ranked by confidence, highest first.
func (d *Detector) DetectTables(cells []Cell) []TableCandidate {
	if len(cells) == 0 {
		return nil
	}
	maxTables := d.MaxTables
	if maxTables <= 0 {
		maxTables = defaultMaxTables
	}

	grid := buildGrid(cells)
	blocks := growBlocks(grid)

	candidates := make([]TableCandidate, 0, len(blocks))
	for _, b := range blocks {
		candidates = append(candidates, b.toCandidate(grid))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > maxTables {
		candidates = candidates[:maxTables]
	}
	return candidates
}

type cellGrid struct {
	cells map[[2]int]Cell
}

func buildGrid(cells []Cell) cellGrid {
	g := cellGrid{cells: make(map[[2]int]Cell, len(cells))}
	for _, c := range cells {
		g.cells[[2]int{c.Row, c.Col}] = c
	}
	return g
}

func (g cellGrid) occupied(row, col int) bool {
	_, ok := g.cells[[2]int{row, col}]
	return ok
}

type block struct {
	startRow, startCol int
	rows, cols         int
}

// growBlocks scans row-major for an unvisited occupied cell and grows a
// rectangle outward while rows/columns stay at least half-occupied, a
// simple analogue of the corpus detector's "used range" block growth.
func growBlocks(g cellGrid) []block {
	visited := make(map[[2]int]bool)
	var blocks []block

	var rows, cols []int
	for k := range g.cells {
		rows = append(rows, k[0])
		cols = append(cols, k[1])
	}
	if len(rows) == 0 {
		return nil
	}
	maxRow, maxCol := 0, 0
	for _, r := range rows {
		if r > maxRow {
			maxRow = r
		}
	}
	for _, c := range cols {
		if c > maxCol {
			maxCol = c
		}
	}

	for r := 0; r <= maxRow; r++ {
		for c := 0; c <= maxCol; c++ {
			if visited[[2]int{r, c}] || !g.occupied(r, c) {
				continue
			}
			b := growFrom(g, visited, r, c, maxRow, maxCol)
			if b.rows >= 2 && b.cols >= 2 {
				blocks = append(blocks, b)
			}
		}
	}
	return blocks
}

func growFrom(g cellGrid, visited map[[2]int]bool, startRow, startCol, maxRow, maxCol int) block {
	endRow, endCol := startRow, startCol

	for endCol+1 <= maxCol && rowFillRatio(g, startRow, endRow, endCol+1) >= 0.5 {
		endCol++
	}
	for endRow+1 <= maxRow && colFillRatio(g, startRow, endRow+1, startCol, endCol) >= 0.5 {
		endRow++
	}

	for r := startRow; r <= endRow; r++ {
		for c := startCol; c <= endCol; c++ {
			visited[[2]int{r, c}] = true
		}
	}

	return block{startRow: startRow, startCol: startCol, rows: endRow - startRow + 1, cols: endCol - startCol + 1}
}

func rowFillRatio(g cellGrid, startRow, endRow, col int) float64 {
	total := endRow - startRow + 1
	if total <= 0 {
		return 0
	}
	filled := 0
	for r := startRow; r <= endRow; r++ {
		if g.occupied(r, col) {
			filled++
		}
	}
	return float64(filled) / float64(total)
}

func colFillRatio(g cellGrid, row, endRow, startCol, endCol int) float64 {
	total := endCol - startCol + 1
	if total <= 0 {
		return 0
	}
	filled := 0
	for c := startCol; c <= endCol; c++ {
		if g.occupied(row, c) {
			filled++
		}
	}
	return float64(filled) / float64(total)
}

func (b block) toCandidate(g cellGrid) TableCandidate {
	total := b.rows * b.cols
	filled := 0
	var minX, minY, maxX, maxY float64
	first := true
	for r := b.startRow; r < b.startRow+b.rows; r++ {
		for c := b.startCol; c < b.startCol+b.cols; c++ {
			cell, ok := g.cells[[2]int{r, c}]
			if !ok {
				continue
			}
			filled++
			x0, y0 := cell.BBox.X, cell.BBox.Y
			x1, y1 := cell.BBox.X+cell.BBox.W, cell.BBox.Y+cell.BBox.H
			if first {
				minX, minY, maxX, maxY = x0, y0, x1, y1
				first = false
				continue
			}
			if x0 < minX {
				minX = x0
			}
			if y0 < minY {
				minY = y0
			}
			if x1 > maxX {
				maxX = x1
			}
			if y1 > maxY {
				maxY = y1
			}
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = float64(filled) / float64(total)
	}

	header := headerRow(g, b)
	sample := headerSample(g, b, DefaultHeaderSampleRows, DefaultHeaderSampleCols)

	return TableCandidate{
		StartRow:     b.startRow,
		StartCol:     b.startCol,
		Rows:         b.rows,
		Cols:         b.cols,
		Header:       header,
		HeaderSample: sample,
		Confidence:   confidence,
		BBox:         marker.BBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY},
	}
}

func headerRow(g cellGrid, b block) []string {
	out := make([]string, 0, b.cols)
	for c := b.startCol; c < b.startCol+b.cols; c++ {
		if cell, ok := g.cells[[2]int{b.startRow, c}]; ok {
			out = append(out, cell.Text)
		} else {
			out = append(out, "")
		}
	}
	return out
}

func headerSample(g cellGrid, b block, sampleRows, sampleCols int) [][]string {
	rows := sampleRows
	if rows > b.rows {
		rows = b.rows
	}
	cols := sampleCols
	if cols > b.cols {
		cols = b.cols
	}
	out := make([][]string, 0, rows)
	for r := b.startRow; r < b.startRow+rows; r++ {
		row := make([]string, 0, cols)
		for c := b.startCol; c < b.startCol+cols; c++ {
			if cell, ok := g.cells[[2]int{r, c}]; ok {
				row = append(row, cell.Text)
			} else {
				row = append(row, "")
			}
		}
		out = append(out, row)
	}
	return out
}
