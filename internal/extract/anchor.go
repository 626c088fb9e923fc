package extract

import (
	"strings"

	"motorlab/pkg/contracts/domain"
)

// headerRow is one recognized header row: its 1-based sheet row and the
// resolved 1-based column of every canonical header found in it.
type headerRow struct {
	row     int
	columns map[string]int
}

// nearestHeaderAbove returns the closest header row strictly above row.
// headers must be sorted by ascending row index.
func nearestHeaderAbove(headers []headerRow, row int) (headerRow, bool) {
	best := -1
	for i := range headers {
		if headers[i].row >= row {
			break
		}
		best = i
	}
	if best < 0 {
		return headerRow{}, false
	}
	return headers[best], true
}

// labelScanner locates summary row labels in a sheet grid. The two
// implementations differ only in where a label may legitimately appear:
// Scheda sheets put Media/Min/Max in varying columns, Collaudo sheets keep
// the Media label in the first column.
type labelScanner interface {
	// scan returns the label found in the given 1-based row, or "".
	scan(g *grid, row int) string
}

// rowScan accepts a label in any of the first maxCols cells of a row. The
// first cell that classifies wins.
type rowScan struct {
	maxCols int
}

func (s rowScan) scan(g *grid, row int) string {
	limit := s.maxCols
	if n := g.colsInRow(row); n < limit {
		limit = n
	}
	for col := 1; col <= limit; col++ {
		if label := classifyLabel(normalizeText(g.cell(row, col))); label != "" {
			return label
		}
	}
	return ""
}

// firstColumnScan accepts only the Media label, and only in the first
// column.
type firstColumnScan struct{}

func (firstColumnScan) scan(g *grid, row int) string {
	if strings.Contains(normalizeText(g.cell(row, 1)), "media") {
		return domain.RowMedia
	}
	return ""
}

// classifyLabel maps normalized cell text to a summary row label. It accepts
// the spellings seen in the corpus: "media"/"med."/"media pesata", "min"/
// "minimo"/"minimi", "max"/"massimo"/"massimi".
func classifyLabel(normalized string) string {
	if normalized == "" {
		return ""
	}
	switch {
	case normalized == "media" || strings.HasPrefix(normalized, "med") || strings.Contains(normalized, "media"):
		return domain.RowMedia
	case normalized == "min" || strings.HasPrefix(normalized, "minim"):
		return domain.RowMin
	case normalized == "max" || strings.HasPrefix(normalized, "massim"):
		return domain.RowMax
	}
	return ""
}
