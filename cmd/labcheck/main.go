package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"motorlab/internal/config"
	"motorlab/internal/convert"
	"motorlab/internal/extract"
	"motorlab/internal/files"
	"motorlab/internal/infrastructure"
	"motorlab/internal/locator"
	"motorlab/internal/testlab"
	"motorlab/internal/validation"
	"motorlab/pkg/contracts"
	"motorlab/pkg/contracts/domain"
)

func main() {
	root := flag.String("root", "", "carichi archive root (defaults to the configured paths.carichi_dir)")
	jsonOut := flag.Bool("json", false, "dump each extracted summary as indented JSON")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if *root != "" {
		cfg.Paths.CarichiDir = *root
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := infrastructure.EnsureTraceID(context.Background())

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateArchiveRoot(cfg.Paths.CarichiDir); err != nil {
		fmt.Fprintf(os.Stderr, "archive root check failed: %v\n", err)
		os.Exit(1)
	}
	if err := validator.ValidateScratchDir(cfg.Paths.TempDir); err != nil {
		logger.Warn("Scratch directory unusable; legacy .xls conversion will fail",
			slog.String("dir", cfg.Paths.TempDir),
			slog.String("error", err.Error()))
	}

	logger.InfoContext(ctx, "Starting archive scan",
		slog.String("root", cfg.Paths.CarichiDir),
		slog.Int("identifiers", flag.NArg()))

	disc := files.NewDiscovery(cfg.Paths.CarichiDir)
	total := dumpTree(os.Stdout, disc, cfg.Paths.CarichiDir, validator, logger)
	if total == 0 {
		fmt.Println("\nno workbooks found anywhere under the archive root")
	}

	if flag.NArg() == 0 {
		return
	}

	loader := testlab.NewSummaryLoader(cfg.Paths.CarichiDir,
		testlab.WithLogger(logger),
		testlab.WithConverter(convert.NewXLSConverter(cfg.Paths.TempDir, logger)),
		testlab.WithSearchParams(searchParams(cfg)),
		testlab.WithSchedaParams(schedaParams(cfg)),
		testlab.WithCollaudoParams(collaudoParams(cfg)))

	found := 0
	for _, raw := range flag.Args() {
		if reportIdentifier(ctx, os.Stdout, loader, raw, cfg.Search.DeriveAliasFallback, *jsonOut) {
			found++
		}
	}

	fmt.Printf("\n%d of %d identifiers resolved\n", found, flag.NArg())
	logger.InfoContext(ctx, "Archive scan finished",
		slog.Int("workbooks", total),
		slog.Int("resolved", found),
		slog.Int("requested", flag.NArg()))
}

// dumpTree prints the year folders of the archive newest-first, then the
// root itself, with the workbooks each one holds. Office lock files and
// unreadable entries are skipped. It returns the total workbook count.
func dumpTree(w io.Writer, disc *files.Discovery, root string, v *validation.FileValidator, logger *slog.Logger) int {
	fmt.Fprintf(w, "archive root: %s\n", root)

	dirs := []string{root}
	if folders, err := disc.ListYearFolders(); err != nil {
		logger.Warn("Listing year folders failed",
			slog.String("root", root),
			slog.String("error", err.Error()))
	} else {
		dirs = make([]string, 0, len(folders)+1)
		for _, folder := range folders {
			dirs = append(dirs, folder.Path)
		}
		dirs = append(dirs, root)
	}

	total := 0
	for _, dir := range dirs {
		workbooks, err := disc.FindWorkbooks(dir)
		if err != nil {
			logger.Warn("Listing directory failed",
				slog.String("dir", dir),
				slog.String("error", err.Error()))
			continue
		}
		kept := make([]files.FileInfo, 0, len(workbooks))
		skipped := 0
		for _, wb := range workbooks {
			if err := v.ValidateWorkbookFile(wb.Path); err != nil {
				skipped++
				continue
			}
			kept = append(kept, wb)
		}
		fmt.Fprintf(w, "\n%s%c (%d workbooks)\n", filepath.Base(dir), filepath.Separator, len(kept))
		for _, wb := range kept {
			fmt.Fprintf(w, "  %s\n", wb.Name)
		}
		if skipped > 0 {
			fmt.Fprintf(w, "  (%d skipped: lock or unreadable)\n", skipped)
		}
		total += len(kept)
	}

	fmt.Fprintf(w, "\ntotal workbooks: %d\n", total)
	return total
}

// reportIdentifier resolves one identifier and prints what the archive
// holds for it. It returns whether a workbook matched.
func reportIdentifier(ctx context.Context, w io.Writer, loader *testlab.SummaryLoader, raw string, aliasFallback, jsonOut bool) bool {
	id := domain.NormalizeTestID(raw)
	fmt.Fprintf(w, "\n%s (normalized: %s)\n", raw, id)
	if id.IsZero() {
		fmt.Fprintln(w, "  invalid identifier: normalizes to nothing")
		return false
	}

	match := loader.LocateWorkbook(raw)
	if match == nil {
		fmt.Fprintln(w, "  NOT FOUND")
		if !aliasFallback {
			counterpart := id.AliasForm()
			if id.IsAlias() {
				counterpart = id.BaseForm()
			}
			fmt.Fprintf(w, "  strict matching is on; %s would only be tried with derive_alias_fallback\n", counterpart)
		}
		return false
	}

	fmt.Fprintf(w, "  %s match: %s\n", match.Strategy, match.Path)
	if match.YearFolder != "" {
		fmt.Fprintf(w, "  year folder: %s\n", match.YearFolder)
	}

	summary := loader.LoadSummary(ctx, raw)
	if summary == nil {
		fmt.Fprintln(w, "  workbook located but carries no extractable data")
		return true
	}
	fmt.Fprintf(w, "  scheda: %s  collaudo: %s  raw sheets: %d\n",
		yesNo(summary.Scheda != nil), yesNo(summary.CollaudoMedia != nil), len(summary.RawSheets))

	if jsonOut {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			fmt.Fprintf(w, "  marshaling summary failed: %v\n", err)
			return true
		}
		fmt.Fprintln(w, string(data))
	}
	return true
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// searchParams maps the search section of the configuration onto locator
// tunables.
func searchParams(cfg *config.Config) locator.Params {
	return locator.Params{
		AliasMismatchPenalty: cfg.Search.AliasMismatchPenalty,
		LengthPenaltyPerChar: cfg.Search.LengthPenaltyPerChar,
		DeriveAliasFallback:  cfg.Search.DeriveAliasFallback,
	}
}

// schedaParams maps the extract section onto Scheda scan tunables, keeping
// defaults for the windows the configuration does not expose.
func schedaParams(cfg *config.Config) extract.SchedaParams {
	p := extract.DefaultSchedaParams()
	p.HeaderScanRows = cfg.Extract.HeaderScanRows
	p.HeaderScanCols = cfg.Extract.HeaderScanCols
	p.LabelScanCols = cfg.Extract.LabelScanCols
	p.GapFillWindow = cfg.Extract.GapFillWindow
	p.NotesRows = cfg.Extract.NotesRows
	return p
}

// collaudoParams maps the extract section onto Collaudo scan tunables.
func collaudoParams(cfg *config.Config) extract.CollaudoParams {
	p := extract.DefaultCollaudoParams()
	p.LabelScanRows = cfg.Extract.CollaudoScanRows
	p.HeaderLookbackRows = cfg.Extract.CollaudoLookbackRows
	return p
}
