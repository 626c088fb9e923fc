package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"motorlab/pkg/contracts/domain"
)

// rawSheetKeys selects which sheets are worth dumping: anything whose
// normalized name mentions one of these.
var rawSheetKeys = []string{"scheda", "collaudo", "carichi"}

// RawSheetExporter mechanically dumps the relevant sheets of a workbook:
// every cell value in row-major order plus merge ranges, column widths and
// row heights. No heuristics are applied; the dump is meant to be replayed
// verbatim into a report with ReplayBlock.
type RawSheetExporter struct {
	// PreserveFormulas substitutes a cell's formula text for its cached
	// value, for copies that must stay live in the target workbook.
	PreserveFormulas bool

	logger *slog.Logger
}

func NewRawSheetExporter(preserveFormulas bool, logger *slog.Logger) *RawSheetExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RawSheetExporter{PreserveFormulas: preserveFormulas, logger: logger}
}

// Export returns one block per relevant sheet, in workbook order. Sheets
// that fail to read are logged and skipped.
func (e *RawSheetExporter) Export(f *excelize.File) []domain.RawSheetBlock {
	var blocks []domain.RawSheetBlock
	for _, name := range f.GetSheetList() {
		normalized := normalizeText(name)
		relevant := false
		for _, key := range rawSheetKeys {
			if strings.Contains(normalized, key) {
				relevant = true
				break
			}
		}
		if !relevant {
			continue
		}
		block, err := e.exportSheet(f, name)
		if err != nil {
			e.logger.Warn("raw sheet export failed",
				slog.String("sheet", name),
				slog.String("error", err.Error()))
			continue
		}
		blocks = append(blocks, block)
		e.logger.Debug("raw sheet exported",
			slog.String("sheet", name),
			slog.Int("rows", len(block.Values)),
			slog.Int("merges", len(block.Merges)))
	}
	return blocks
}

func (e *RawSheetExporter) exportSheet(f *excelize.File, name string) (domain.RawSheetBlock, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.RawSheetBlock{}, fmt.Errorf("reading rows: %w", err)
	}

	block := domain.RawSheetBlock{
		Name:         name,
		Values:       rows,
		ColumnWidths: make(map[string]float64),
		RowHeights:   make(map[int]float64),
	}

	if e.PreserveFormulas {
		for r := range rows {
			for c := range rows[r] {
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					continue
				}
				if formula, err := f.GetCellFormula(name, axis); err == nil && formula != "" {
					rows[r][c] = "=" + formula
				}
			}
		}
	}

	merges, err := f.GetMergeCells(name)
	if err != nil {
		return domain.RawSheetBlock{}, fmt.Errorf("reading merges: %w", err)
	}
	for _, m := range merges {
		block.Merges = append(block.Merges, m.GetStartAxis()+":"+m.GetEndAxis())
	}

	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	for col := 1; col <= maxCols; col++ {
		letter, err := excelize.ColumnNumberToName(col)
		if err != nil {
			continue
		}
		if width, err := f.GetColWidth(name, letter); err == nil {
			block.ColumnWidths[letter] = width
		}
	}
	for row := 1; row <= len(rows); row++ {
		if height, err := f.GetRowHeight(name, row); err == nil {
			block.RowHeights[row] = height
		}
	}
	return block, nil
}

// ReplayBlock writes a captured sheet block into sheet, shifted down by
// rowOffset rows: the value of 1-based source row R lands on row R+rowOffset
// with its column unchanged, merge ranges shift with their rows, recorded
// column widths apply as captured and row heights follow their rows. Empty
// cells are not written so existing content outside the block survives.
func ReplayBlock(f *excelize.File, sheet string, block domain.RawSheetBlock, rowOffset int) error {
	for r, row := range block.Values {
		for c, value := range row {
			if value == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1+rowOffset)
			if err != nil {
				return fmt.Errorf("cell (%d,%d): %w", r+1, c+1, err)
			}
			if err := f.SetCellValue(sheet, axis, value); err != nil {
				return fmt.Errorf("writing %s: %w", axis, err)
			}
		}
	}

	for _, ref := range block.Merges {
		topLeft, bottomRight, err := shiftRange(ref, rowOffset)
		if err != nil {
			return fmt.Errorf("merge range %q: %w", ref, err)
		}
		if err := f.MergeCell(sheet, topLeft, bottomRight); err != nil {
			return fmt.Errorf("merging %q: %w", ref, err)
		}
	}

	for letter, width := range block.ColumnWidths {
		if err := f.SetColWidth(sheet, letter, letter, width); err != nil {
			return fmt.Errorf("column %s width: %w", letter, err)
		}
	}
	for row, height := range block.RowHeights {
		if err := f.SetRowHeight(sheet, row+rowOffset, height); err != nil {
			return fmt.Errorf("row %d height: %w", row, err)
		}
	}
	return nil
}

// shiftRange moves a range reference like "A1:C2" down by rowOffset rows and
// returns its corners.
func shiftRange(ref string, rowOffset int) (string, string, error) {
	parts := strings.SplitN(ref, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed range %q", ref)
	}
	shift := func(axis string) (string, error) {
		col, row, err := excelize.CellNameToCoordinates(axis)
		if err != nil {
			return "", err
		}
		return excelize.CoordinatesToCellName(col, row+rowOffset)
	}
	topLeft, err := shift(parts[0])
	if err != nil {
		return "", "", err
	}
	bottomRight, err := shift(parts[1])
	if err != nil {
		return "", "", err
	}
	return topLeft, bottomRight, nil
}
