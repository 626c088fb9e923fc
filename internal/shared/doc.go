// Package shared holds cross-cutting helpers that belong to no single
// domain package.
//
// The testutil subpackage carries the test plumbing used across the
// codebase: a buffered slog handler for asserting on log output, and
// fixture builders that write workbook files and placeholder archives
// for the locator and loader tests.
//
// Nothing in here may depend on other internal packages; shared sits at
// the bottom of the import graph.
package shared
