package extract

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// grid is an in-memory snapshot of one worksheet, loaded in a single pass.
// Coordinates are 1-based to match workbook addressing; reads outside the
// populated range return "".
type grid struct {
	sheet string
	rows  [][]string
}

func loadGrid(f *excelize.File, sheet string) (*grid, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return &grid{sheet: sheet, rows: rows}, nil
}

func (g *grid) rowCount() int { return len(g.rows) }

// colsInRow returns the populated width of a 1-based row.
func (g *grid) colsInRow(row int) int {
	if row < 1 || row > len(g.rows) {
		return 0
	}
	return len(g.rows[row-1])
}

// cell returns the raw value at 1-based (row, col).
func (g *grid) cell(row, col int) string {
	if row < 1 || row > len(g.rows) || col < 1 {
		return ""
	}
	r := g.rows[row-1]
	if col > len(r) {
		return ""
	}
	return r[col-1]
}
