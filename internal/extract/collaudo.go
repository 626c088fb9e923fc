package extract

import (
	"log/slog"

	"github.com/xuri/excelize/v2"

	"motorlab/pkg/contracts/domain"
)

// collaudoColumn pairs a canonical Collaudo column with the position it has
// held in the classic sheet layout. The default is used whenever no header
// alias resolves the column dynamically.
type collaudoColumn struct {
	header     string
	defaultCol int
}

var collaudoColumns = []collaudoColumn{
	{"Ampere 22.2", 2},
	{"Ampere BA", 3},
	{"Ampere BC", 4},
	{"Watt 22.2", 5},
	{"Watt BA", 6},
	{"Watt BC", 7},
	{"RPM 22.2", 8},
	{"RPM BA", 9},
	{"RPM BC", 10},
	{"mmH2O 22.2", 11},
	{"mmH2O BA", 12},
	{"mmH2O BC", 13},
}

var collaudoHeaderAliases = map[string]string{
	"ampere222": "Ampere 22.2",
	"ampere22":  "Ampere 22.2",
	"ampereba":  "Ampere BA",
	"amperebc":  "Ampere BC",
	"watt222":   "Watt 22.2",
	"watt22":    "Watt 22.2",
	"wattba":    "Watt BA",
	"wattbc":    "Watt BC",
	"rpm222":    "RPM 22.2",
	"rpm22":     "RPM 22.2",
	"rpmba":     "RPM BA",
	"rpmbc":     "RPM BC",
	"mmh2o222":  "mmH2O 22.2",
	"mmh2o22":   "mmH2O 22.2",
	"mmh2oba":   "mmH2O BA",
	"mmh2obc":   "mmH2O BC",
}

// CollaudoParams tunes the Collaudo media row heuristics.
type CollaudoParams struct {
	// LabelScanRows bounds how deep the first column is scanned for the
	// Media label.
	LabelScanRows int
	// HeaderScanCols bounds how far into a row header aliases are looked
	// for when resolving columns dynamically.
	HeaderScanCols int
	// HeaderLookbackRows is how many rows above a Media candidate are
	// searched for header aliases.
	HeaderLookbackRows int
}

// DefaultCollaudoParams returns the tuning that matches the historical
// workbook corpus.
func DefaultCollaudoParams() CollaudoParams {
	return CollaudoParams{
		LabelScanRows:      200,
		HeaderScanCols:     200,
		HeaderLookbackRows: 10,
	}
}

// CollaudoExtractor recognizes the single "Media" measurement row of a
// Collaudo sheet. Stateless and safe to reuse across workbooks.
type CollaudoExtractor struct {
	params CollaudoParams
	labels labelScanner
	logger *slog.Logger
}

func NewCollaudoExtractor(params CollaudoParams, logger *slog.Logger) *CollaudoExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollaudoExtractor{
		params: params,
		labels: firstColumnScan{},
		logger: logger,
	}
}

// Extract returns the Media row of the workbook's Collaudo sheet, or nil
// when no sheet qualifies or no candidate row carries numeric data. When
// several first-column Media rows exist, the one with the most parseable
// values wins; earlier rows win ties.
func (e *CollaudoExtractor) Extract(f *excelize.File) *domain.CollaudoSummary {
	sheet := sheetNamed(f, "collaudo")
	if sheet == "" {
		e.logger.Debug("workbook has no collaudo sheet")
		return nil
	}
	g, err := loadGrid(f, sheet)
	if err != nil {
		e.logger.Warn("reading collaudo sheet failed",
			slog.String("sheet", sheet),
			slog.String("error", err.Error()))
		return nil
	}

	maxRows := min(g.rowCount(), e.params.LabelScanRows)
	var candidates []int
	for row := 1; row <= maxRows; row++ {
		if e.labels.scan(g, row) == domain.RowMedia {
			candidates = append(candidates, row)
		}
	}
	if len(candidates) == 0 {
		e.logger.Debug("media label not found in first column", slog.String("sheet", sheet))
		return nil
	}

	var (
		bestValues map[string]*float64
		bestRow    int
		bestScore  = -1
	)
	for _, mediaRow := range candidates {
		resolved := e.resolveColumns(g, mediaRow)
		values := make(map[string]*float64, len(collaudoColumns))
		score := 0
		for _, column := range collaudoColumns {
			col, ok := resolved[column.header]
			if !ok {
				col = column.defaultCol
			}
			parsed := ParseNumber(g.cell(mediaRow, col))
			values[column.header] = parsed
			if parsed != nil {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestValues = values
			bestRow = mediaRow
		}
	}

	if bestScore <= 0 {
		e.logger.Debug("media candidate rows carried no numeric data", slog.String("sheet", sheet))
		return nil
	}

	headers := make([]string, len(collaudoColumns))
	for i, column := range collaudoColumns {
		headers[i] = column.header
	}
	e.logger.Debug("collaudo media row extracted",
		slog.String("sheet", sheet),
		slog.Int("row", bestRow),
		slog.Int("numeric_cells", bestScore))
	return &domain.CollaudoSummary{Headers: headers, Values: bestValues}
}

// resolveColumns maps canonical column names to the positions their aliases
// occupy in the rows above mediaRow. The first alias occurrence wins;
// columns never resolved fall back to their defaults.
func (e *CollaudoExtractor) resolveColumns(g *grid, mediaRow int) map[string]int {
	resolved := make(map[string]int)
	start := max(1, mediaRow-e.params.HeaderLookbackRows)
	for row := start; row < mediaRow; row++ {
		limit := min(g.colsInRow(row), e.params.HeaderScanCols)
		for col := 1; col <= limit; col++ {
			normalized := normalizeText(g.cell(row, col))
			if normalized == "" {
				continue
			}
			canonical, ok := collaudoHeaderAliases[normalized]
			if !ok {
				continue
			}
			if _, seen := resolved[canonical]; !seen {
				resolved[canonical] = col
			}
		}
	}
	if len(resolved) == 0 {
		e.logger.Debug("collaudo headers not detected; relying on default columns", slog.Int("media_row", mediaRow))
	}
	return resolved
}
