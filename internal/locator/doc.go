// Package locator resolves test identifiers to workbook files stored in the
// carichi directory hierarchy.
//
// The hierarchy is a base directory holding per-year folders plus loose
// files: year folders are searched newest-first (descending name order),
// the base directory last, so a test re-run in a recent year shadows its
// older copies. Within a directory the exact stem is tried before any
// prefix match, and prefix matching for the requested form is reserved for
// alias identifiers (trailing "A").
//
// Matching is strict with respect to the alias marker: "30001" never
// resolves to 30001A.xlsx and "30001A" never resolves to 30001.xlsx. The
// mirrored record is a distinct test. Params.DeriveAliasFallback exists for
// deployments that explicitly decide otherwise.
//
// CarichiLocator adds per-instance result caching for report assembly,
// where the same identifiers are resolved over and over;
// SharedCarichiLocator is its goroutine-safe counterpart.
package locator
