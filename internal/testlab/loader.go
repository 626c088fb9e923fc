package testlab

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"motorlab/internal/convert"
	"motorlab/internal/extract"
	"motorlab/internal/locator"
	"motorlab/pkg/contracts/domain"
)

// Option configures a SummaryLoader beyond its base directory.
type Option func(*options)

type options struct {
	converter      convert.Converter
	logger         *slog.Logger
	searchParams   locator.Params
	schedaParams   extract.SchedaParams
	collaudoParams extract.CollaudoParams
	metrics        *LoaderMetrics
}

// WithConverter installs the legacy-format converter used for .xls
// workbooks. Without one, legacy workbooks are reported as unreadable.
func WithConverter(c convert.Converter) Option {
	return func(o *options) {
		if c != nil {
			o.converter = c
		}
	}
}

// WithLogger sets the logger shared by the loader and its extractors.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSearchParams overrides the workbook matching tunables.
func WithSearchParams(p locator.Params) Option {
	return func(o *options) { o.searchParams = p }
}

// WithSchedaParams overrides the Scheda block scan tunables.
func WithSchedaParams(p extract.SchedaParams) Option {
	return func(o *options) { o.schedaParams = p }
}

// WithCollaudoParams overrides the Collaudo media row scan tunables.
func WithCollaudoParams(p extract.CollaudoParams) Option {
	return func(o *options) { o.collaudoParams = p }
}

// WithMetrics attaches lookup metrics. Without it the loader stays silent
// toward the meter provider.
func WithMetrics(m *LoaderMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// SummaryLoader resolves test identifiers to their workbook under the
// carichi base directory and extracts the Scheda and Collaudo summary
// blocks plus raw copies of the relevant sheets. Every lookup either
// produces a summary or nil; problems along the way are logged, never
// returned.
type SummaryLoader struct {
	locator   *locator.Locator
	converter convert.Converter
	scheda    *extract.SchedaExtractor
	collaudo  *extract.CollaudoExtractor
	values    *extract.RawSheetExporter
	formulas  *extract.RawSheetExporter
	metrics   *LoaderMetrics
	logger    *slog.Logger
}

// NewSummaryLoader builds a loader over baseDir, the root of the per-year
// workbook archive. An empty baseDir yields a loader that reports every
// archive lookup as missing; path overrides still work.
func NewSummaryLoader(baseDir string, opts ...Option) *SummaryLoader {
	o := &options{
		converter:      convert.Unsupported{},
		logger:         slog.Default(),
		searchParams:   locator.DefaultParams(),
		schedaParams:   extract.DefaultSchedaParams(),
		collaudoParams: extract.DefaultCollaudoParams(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return &SummaryLoader{
		locator:   locator.New(baseDir, o.searchParams, o.logger),
		converter: o.converter,
		scheda:    extract.NewSchedaExtractor(o.schedaParams, o.logger),
		collaudo:  extract.NewCollaudoExtractor(o.collaudoParams, o.logger),
		values:    extract.NewRawSheetExporter(false, o.logger),
		formulas:  extract.NewRawSheetExporter(true, o.logger),
		metrics:   o.metrics,
		logger:    o.logger,
	}
}

// Available reports whether the workbook archive is configured and exists.
func (l *SummaryLoader) Available() bool { return l.locator.Available() }

// LocateWorkbook resolves the workbook backing testNumber without reading
// it. Nil means no workbook matched.
func (l *SummaryLoader) LocateWorkbook(testNumber string) *domain.WorkbookMatch {
	return l.locator.Locate(testNumber)
}

// LoadSummary locates the workbook for testNumber and extracts its summary.
// It returns nil when the archive is unavailable, no workbook matches, the
// workbook cannot be read, or the workbook carries no recognizable data.
func (l *SummaryLoader) LoadSummary(ctx context.Context, testNumber string) *domain.TestLabSummary {
	return l.traceLookup(ctx, "load_summary", testNumber, func(ctx context.Context) *domain.TestLabSummary {
		if !l.Available() {
			l.logger.Debug("test lab base directory not configured; skipping lookup",
				slog.String("test_number", testNumber))
			return nil
		}
		match := l.locator.Locate(testNumber)
		if match == nil {
			l.logger.Info("no test-lab workbook found",
				slog.String("test_number", testNumber))
			return nil
		}
		return l.buildSummary(ctx, match.Path, match.MatchedTestNumber, match.Strategy)
	})
}

// LoadSummaryFromPath extracts the summary for testNumber from an
// operator-supplied workbook, bypassing the archive search. The match is
// tagged as a manual override and keeps the identifier as given.
func (l *SummaryLoader) LoadSummaryFromPath(ctx context.Context, testNumber, overridePath string) *domain.TestLabSummary {
	return l.traceLookup(ctx, "load_summary_override", testNumber, func(ctx context.Context) *domain.TestLabSummary {
		if _, err := os.Stat(overridePath); err != nil {
			l.logger.Warn("override path does not exist",
				slog.String("test_number", testNumber),
				slog.String("path", overridePath))
			return nil
		}
		l.logger.Info("using manual override workbook",
			slog.String("test_number", testNumber),
			slog.String("path", overridePath))
		return l.buildSummary(ctx, overridePath, testNumber, domain.MatchManualOverride)
	})
}

// RawSheets locates the workbook for testNumber and exports its relevant
// sheets with cell formulas preserved, for copies that must stay live when
// replayed into another workbook. LoadSummary captures cached values
// instead.
func (l *SummaryLoader) RawSheets(ctx context.Context, testNumber string) []domain.RawSheetBlock {
	return l.traceRawExport(ctx, testNumber, func(ctx context.Context) []domain.RawSheetBlock {
		match := l.locator.Locate(testNumber)
		if match == nil {
			return nil
		}
		f, cleanup, err := l.openWorkbook(ctx, match.Path)
		if err != nil {
			l.logger.Warn("failed to parse test-lab workbook",
				slog.String("path", match.Path),
				slog.String("error", err.Error()))
			return nil
		}
		defer cleanup()
		return l.formulas.Export(f)
	})
}

// buildSummary opens the workbook, converting legacy formats first, and
// runs every extractor over it. A workbook yielding neither summary block
// nor any raw sheet is reported as carrying no data.
func (l *SummaryLoader) buildSummary(ctx context.Context, path, matched string, strategy domain.MatchStrategy) *domain.TestLabSummary {
	f, cleanup, err := l.openWorkbook(ctx, path)
	if err != nil {
		l.logger.Warn("failed to parse test-lab workbook",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}
	defer cleanup()

	scheda := l.scheda.Extract(f)
	collaudo := l.collaudo.Extract(f)
	raw := l.values.Export(f)

	if scheda == nil && collaudo == nil && len(raw) == 0 {
		l.logger.Info("workbook carries no scheda or collaudo data",
			slog.String("path", path))
		return nil
	}

	l.logger.Debug("workbook extraction finished",
		slog.String("path", path),
		slog.Bool("scheda", scheda != nil),
		slog.Bool("collaudo", collaudo != nil),
		slog.Int("raw_sheets", len(raw)))
	return &domain.TestLabSummary{
		SourcePath:        path,
		Scheda:            scheda,
		CollaudoMedia:     collaudo,
		MatchedTestNumber: matched,
		MatchStrategy:     strategy,
		RawSheets:         raw,
	}
}

// openWorkbook opens path for extraction, converting a legacy .xls file to
// a temporary .xlsx first. The returned cleanup closes the workbook and
// removes the temporary copy; it must be called exactly once.
func (l *SummaryLoader) openWorkbook(ctx context.Context, path string) (*excelize.File, func(), error) {
	readPath := path
	tempPath := ""
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		converted, err := l.converter.Convert(ctx, path)
		if err != nil {
			l.recordConversionFailure(ctx)
			return nil, nil, fmt.Errorf("converting legacy workbook: %w", err)
		}
		readPath = converted
		tempPath = converted
	}

	f, err := excelize.OpenFile(readPath)
	if err != nil {
		l.removeTemp(tempPath)
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	cleanup := func() {
		if cerr := f.Close(); cerr != nil {
			l.logger.Debug("closing workbook failed",
				slog.String("path", readPath),
				slog.String("error", cerr.Error()))
		}
		l.removeTemp(tempPath)
	}
	return f, cleanup, nil
}

// removeTemp deletes a converted temporary workbook. Missing files are
// fine; anything else is logged and forgotten.
func (l *SummaryLoader) removeTemp(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		l.logger.Warn("removing temporary workbook failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}
