// Package testlab orchestrates test-lab workbook lookups: locate the
// workbook for an identifier, convert legacy formats, extract the Scheda
// and Collaudo summary blocks and dump the raw sheets, all in one pass.
//
// The package follows a no-error contract toward callers: a lookup either
// produces a summary or nil. Misses, unreadable workbooks and conversion
// failures are logged and counted, never propagated, so one bad workbook
// cannot take down report assembly.
//
//	loader := testlab.NewSummaryLoader(cfg.Paths.CarichiDir,
//		testlab.WithConverter(convert.NewXLSConverter(cfg.Paths.TempDir, logger)),
//		testlab.WithLogger(logger))
//	summary := loader.LoadSummary(ctx, "26178-A")
//	if summary == nil {
//		// no data for this test
//	}
package testlab
