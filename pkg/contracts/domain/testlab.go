package domain

// MatchStrategy records how a workbook was matched to a test identifier.
type MatchStrategy string

const (
	MatchExact          MatchStrategy = "exact"
	MatchPrefix         MatchStrategy = "prefix"
	MatchFallbackExact  MatchStrategy = "fallback_exact"
	MatchFallbackPrefix MatchStrategy = "fallback_prefix"
	MatchManualOverride MatchStrategy = "manual_override"
)

// Summary row labels for the Scheda block.
const (
	RowMedia = "Media"
	RowMin   = "Min"
	RowMax   = "Max"
)

// WorkbookMatch describes a workbook located within the carichi hierarchy.
type WorkbookMatch struct {
	RequestedTestNumber string        `json:"requested_test_number" validate:"required"`
	MatchedTestNumber   string        `json:"matched_test_number" validate:"required"`
	Strategy            MatchStrategy `json:"match_strategy" validate:"required"`
	Path                string        `json:"path" validate:"required"`
	YearFolder          string        `json:"year_folder,omitempty"`
}

// SchedaSummary holds the Media/Min/Max measurement block extracted from a
// Scheda sheet. Rows maps a row label (RowMedia, RowMin, RowMax) to the
// parsed values keyed by canonical header name; a nil value means the cell
// was empty or not numeric. Headers preserves the canonical column order for
// downstream rendering.
type SchedaSummary struct {
	Headers []string                       `json:"headers"`
	Rows    map[string]map[string]*float64 `json:"rows"`
	Notes   []string                       `json:"notes,omitempty"`
}

// CollaudoSummary holds the single "Media" measurement row extracted from a
// Collaudo sheet, keyed by canonical column name.
type CollaudoSummary struct {
	Headers []string            `json:"headers"`
	Values  map[string]*float64 `json:"values"`
}

// RawSheetBlock is a mechanical dump of one worksheet: every cell value in
// row-major order plus the geometry needed to replay the sheet elsewhere.
// Values carries the rendered cell text exactly as read; Merges holds range
// references such as "A1:C2"; ColumnWidths is keyed by column letter and
// RowHeights by 1-based row index.
type RawSheetBlock struct {
	Name         string             `json:"name"`
	Values       [][]string         `json:"values"`
	Merges       []string           `json:"merges,omitempty"`
	ColumnWidths map[string]float64 `json:"col_widths,omitempty"`
	RowHeights   map[int]float64    `json:"row_heights,omitempty"`
}

// TestLabSummary is the complete result of a test-lab lookup: where the
// workbook was found, the extracted summary blocks, and raw copies of the
// relevant sheets. Scheda and CollaudoMedia are nil when the corresponding
// block could not be recognized; at least one of the three payload fields is
// populated (an entirely empty result is reported as no data instead).
type TestLabSummary struct {
	SourcePath        string           `json:"source_path"`
	Scheda            *SchedaSummary   `json:"scheda,omitempty"`
	CollaudoMedia     *CollaudoSummary `json:"collaudo_media,omitempty"`
	MatchedTestNumber string           `json:"matched_test_number"`
	MatchStrategy     MatchStrategy    `json:"match_strategy"`
	RawSheets         []RawSheetBlock  `json:"raw_sheets,omitempty"`
}
