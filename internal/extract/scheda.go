package extract

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"motorlab/pkg/contracts/domain"
)

// Canonical column order of the Scheda measurement block.
var schedaHeaders = []string{
	"Orifice (mm)",
	"Watt",
	"Watt c.",
	"mmH2O",
	"mmH2O c.",
	"Portata",
	"Air Watt",
	"Eff.%",
}

// Normalized header text to canonical header name.
var schedaHeaderAliases = map[string]string{
	"orifice":   "Orifice (mm)",
	"orificemm": "Orifice (mm)",
	"watt":      "Watt",
	"wattc":     "Watt c.",
	"mmh2o":     "mmH2O",
	"mmh2oc":    "mmH2O c.",
	"portata":   "Portata",
	"airwatt":   "Air Watt",
	"eff":       "Eff.%",
	"eff%":      "Eff.%",
}

// SchedaParams tunes the Scheda block heuristics. Zero values disable the
// scans; start from DefaultSchedaParams.
type SchedaParams struct {
	// HeaderScanRows and HeaderScanCols bound the region searched for
	// header rows.
	HeaderScanRows int
	HeaderScanCols int
	// LabelScanCols bounds how far into a row the Media/Min/Max labels are
	// looked for.
	LabelScanCols int
	// GapFillWindow is the half-width, in rows, of the window rescanned for
	// a missed Media label around the winning block.
	GapFillWindow int
	// NotesRows is how many rows below the header row are searched for
	// free-form notes; NotesFirstCol..NotesLastCol is the column band
	// searched (1-based, inclusive).
	NotesRows     int
	NotesFirstCol int
	NotesLastCol  int
}

// DefaultSchedaParams returns the tuning that matches the historical
// workbook corpus.
func DefaultSchedaParams() SchedaParams {
	return SchedaParams{
		HeaderScanRows: 200,
		HeaderScanCols: 50,
		LabelScanCols:  80,
		GapFillWindow:  5,
		NotesRows:      10,
		NotesFirstCol:  2,
		NotesLastCol:   5,
	}
}

// SchedaExtractor recognizes the Media/Min/Max measurement block of a Scheda
// sheet. It is stateless across workbooks and safe to reuse.
type SchedaExtractor struct {
	params SchedaParams
	labels labelScanner
	logger *slog.Logger
}

func NewSchedaExtractor(params SchedaParams, logger *slog.Logger) *SchedaExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchedaExtractor{
		params: params,
		labels: rowScan{maxCols: params.LabelScanCols},
		logger: logger,
	}
}

// labelHit is one row recognized as carrying a summary label.
type labelHit struct {
	row   int
	label string
}

// schedaCandidate is a measurement block anchored to one header row.
type schedaCandidate struct {
	header   headerRow
	headers  []string       // canonical order, filtered to resolved columns
	rowIndex map[string]int // label -> 1-based sheet row
	rows     map[string]map[string]*float64
	complete bool // Media, Min and Max all captured in order
	score    int  // numeric cells across captured rows
}

// Extract returns the best Media/Min/Max block found in the workbook's
// Scheda sheet, or nil when no sheet qualifies or no ordered block with a
// Media row can be recognized.
func (e *SchedaExtractor) Extract(f *excelize.File) *domain.SchedaSummary {
	sheet := sheetNamed(f, "scheda")
	if sheet == "" {
		e.logger.Debug("workbook has no scheda sheet")
		return nil
	}
	g, err := loadGrid(f, sheet)
	if err != nil {
		e.logger.Warn("reading scheda sheet failed",
			slog.String("sheet", sheet),
			slog.String("error", err.Error()))
		return nil
	}

	headers := e.findHeaderRows(g)
	if len(headers) == 0 {
		e.logger.Debug("scheda header row not detected", slog.String("sheet", sheet))
		return nil
	}

	hits := e.findLabelHits(g)
	if len(hits) == 0 {
		e.logger.Debug("no media/min/max labels detected", slog.String("sheet", sheet))
		return nil
	}

	best := e.pickCandidate(g, headers, hits)
	if best == nil {
		e.logger.Debug("labels found but no ordered block under a header", slog.String("sheet", sheet))
		return nil
	}

	if !best.complete {
		e.backfillMedia(g, headers, best)
		if _, ok := best.rows[domain.RowMedia]; !ok {
			e.logger.Debug("media row missing and not recovered",
				slog.String("sheet", sheet),
				slog.Int("header_row", best.header.row))
			return nil
		}
	}

	notes := e.collectNotes(g, best.header.row)
	e.logger.Debug("scheda block extracted",
		slog.String("sheet", sheet),
		slog.Int("header_row", best.header.row),
		slog.Int("numeric_cells", best.score),
		slog.Int("notes", len(notes)))
	return &domain.SchedaSummary{Headers: best.headers, Rows: best.rows, Notes: notes}
}

// findHeaderRows scans the top of the sheet for rows carrying at least one
// recognizable header alias. The result is ordered by ascending row.
func (e *SchedaExtractor) findHeaderRows(g *grid) []headerRow {
	maxRows := min(g.rowCount(), e.params.HeaderScanRows)
	var found []headerRow
	for row := 1; row <= maxRows; row++ {
		limit := min(g.colsInRow(row), e.params.HeaderScanCols)
		var columns map[string]int
		for col := 1; col <= limit; col++ {
			normalized := normalizeText(g.cell(row, col))
			if normalized == "" {
				continue
			}
			canonical, ok := schedaHeaderAliases[normalized]
			if !ok {
				continue
			}
			if columns == nil {
				columns = make(map[string]int)
			}
			if _, seen := columns[canonical]; !seen {
				columns[canonical] = col
			}
		}
		if len(columns) > 0 {
			found = append(found, headerRow{row: row, columns: columns})
		}
	}
	return found
}

func (e *SchedaExtractor) findLabelHits(g *grid) []labelHit {
	var hits []labelHit
	for row := 1; row <= g.rowCount(); row++ {
		if label := e.labels.scan(g, row); label != "" {
			hits = append(hits, labelHit{row: row, label: label})
		}
	}
	return hits
}

// pickCandidate groups label rows by their nearest header above, builds a
// candidate block per anchor and keeps the best one. Complete blocks beat
// incomplete ones; among equals the higher numeric score wins and ties go to
// the topmost anchor.
func (e *SchedaExtractor) pickCandidate(g *grid, headers []headerRow, hits []labelHit) *schedaCandidate {
	byAnchor := make(map[int]map[string][]int)
	anchorOf := make(map[int]headerRow)
	var anchorRows []int
	for _, hit := range hits {
		anchor, ok := nearestHeaderAbove(headers, hit.row)
		if !ok {
			continue
		}
		if _, seen := byAnchor[anchor.row]; !seen {
			byAnchor[anchor.row] = make(map[string][]int)
			anchorOf[anchor.row] = anchor
			anchorRows = append(anchorRows, anchor.row)
		}
		byAnchor[anchor.row][hit.label] = append(byAnchor[anchor.row][hit.label], hit.row)
	}
	sort.Ints(anchorRows)

	var best *schedaCandidate
	for _, ar := range anchorRows {
		candidate := e.buildCandidate(g, anchorOf[ar], byAnchor[ar])
		if candidate == nil {
			continue
		}
		switch {
		case best == nil:
			best = candidate
		case candidate.complete != best.complete:
			if candidate.complete {
				best = candidate
			}
		case candidate.score > best.score:
			best = candidate
		}
	}
	return best
}

// buildCandidate selects the topmost strictly ordered Media<Min<Max rows for
// one anchor. When no Media row fits the ordering, it falls back to the
// topmost ordered Min<Max pair so the gap-fill pass can try to recover
// Media.
func (e *SchedaExtractor) buildCandidate(g *grid, anchor headerRow, rowsByLabel map[string][]int) *schedaCandidate {
	headers := canonicalHeaders(anchor.columns)
	if len(headers) == 0 {
		return nil
	}

	selected, complete := orderedSelection(rowsByLabel)
	if selected == nil {
		return nil
	}

	candidate := &schedaCandidate{
		header:   anchor,
		headers:  headers,
		rowIndex: selected,
		rows:     make(map[string]map[string]*float64, len(selected)),
		complete: complete,
	}
	for label, row := range selected {
		values := e.rowValues(g, anchor, headers, row)
		candidate.rows[label] = values
		for _, v := range values {
			if v != nil {
				candidate.score++
			}
		}
	}
	return candidate
}

// orderedSelection picks one sheet row per label such that the rows appear
// in Media < Min < Max order, preferring the topmost combination. The row
// ordering is the primary defense against stray label text elsewhere in the
// sheet. Row lists must be ascending. With no eligible Media row it returns
// the topmost ordered Min/Max pair and complete=false; with no such pair it
// returns nil.
func orderedSelection(rowsByLabel map[string][]int) (map[string]int, bool) {
	medias := rowsByLabel[domain.RowMedia]
	mins := rowsByLabel[domain.RowMin]
	maxes := rowsByLabel[domain.RowMax]

	for _, m := range medias {
		for _, n := range mins {
			if n <= m {
				continue
			}
			for _, x := range maxes {
				if x <= n {
					continue
				}
				return map[string]int{domain.RowMedia: m, domain.RowMin: n, domain.RowMax: x}, true
			}
		}
	}
	for _, n := range mins {
		for _, x := range maxes {
			if x <= n {
				continue
			}
			return map[string]int{domain.RowMin: n, domain.RowMax: x}, false
		}
	}
	return nil, false
}

func canonicalHeaders(columns map[string]int) []string {
	headers := make([]string, 0, len(columns))
	for _, h := range schedaHeaders {
		if _, ok := columns[h]; ok {
			headers = append(headers, h)
		}
	}
	return headers
}

func (e *SchedaExtractor) rowValues(g *grid, anchor headerRow, headers []string, row int) map[string]*float64 {
	values := make(map[string]*float64, len(headers))
	for _, h := range headers {
		values[h] = ParseNumber(g.cell(row, anchor.columns[h]))
	}
	return values
}

// backfillMedia rescans a tight window around the captured block for a label
// row the full-sheet pass attributed to nothing, keeping only rows that
// anchor to the same header.
func (e *SchedaExtractor) backfillMedia(g *grid, headers []headerRow, candidate *schedaCandidate) {
	reference := candidate.lowestRow()
	if reference == 0 {
		return
	}
	lo := max(1, reference-e.params.GapFillWindow)
	hi := min(g.rowCount(), reference+e.params.GapFillWindow)
	for row := lo; row <= hi; row++ {
		label := e.labels.scan(g, row)
		if label == "" {
			continue
		}
		if _, have := candidate.rows[label]; have {
			continue
		}
		anchor, ok := nearestHeaderAbove(headers, row)
		if !ok || anchor.row != candidate.header.row {
			continue
		}
		values := e.rowValues(g, candidate.header, candidate.headers, row)
		candidate.rows[label] = values
		candidate.rowIndex[label] = row
		for _, v := range values {
			if v != nil {
				candidate.score++
			}
		}
		e.logger.Debug("backfilled summary row",
			slog.String("label", label),
			slog.Int("row", row))
	}
	if _, ok := candidate.rows[domain.RowMedia]; ok {
		candidate.complete = true
	}
}

func (c *schedaCandidate) lowestRow() int {
	lowest := 0
	for _, row := range c.rowIndex {
		if lowest == 0 || row < lowest {
			lowest = row
		}
	}
	return lowest
}

// collectNotes gathers the free-form note lines kept under the header row.
// Cell texts of each row are joined with a space; duplicate lines collapse.
func (e *SchedaExtractor) collectNotes(g *grid, headerRowIdx int) []string {
	var notes []string
	seen := make(map[string]struct{})
	last := min(g.rowCount(), headerRowIdx+e.params.NotesRows)
	for row := headerRowIdx + 1; row <= last; row++ {
		var parts []string
		for col := e.params.NotesFirstCol; col <= e.params.NotesLastCol; col++ {
			if text := strings.TrimSpace(g.cell(row, col)); text != "" {
				parts = append(parts, text)
			}
		}
		if len(parts) == 0 {
			continue
		}
		line := strings.Join(parts, " ")
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		notes = append(notes, line)
	}
	return notes
}
