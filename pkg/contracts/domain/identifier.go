package domain

import (
	"regexp"
	"strings"
)

// nonAlphanumeric matches every run of characters outside [0-9A-Za-z].
var nonAlphanumeric = regexp.MustCompile(`[^0-9A-Za-z]+`)

// TestID is the normalized form of a test-lab identifier. Raw identifiers
// arrive from spreadsheets and operator input with stray spaces, dashes and
// mixed case ("26178-A", " 26178a "); normalization strips every
// non-alphanumeric rune and uppercases the rest so all spellings of the same
// test collapse to a single token. Normalization is idempotent.
//
// A trailing "A" marks the mirrored record of a base performance test
// ("30001A" versus "30001"). The two forms are distinct identifiers and are
// never substituted for one another during lookups.
type TestID struct {
	token string
}

// NormalizeTestID builds a TestID from raw operator or spreadsheet input.
func NormalizeTestID(raw string) TestID {
	return TestID{token: strings.ToUpper(nonAlphanumeric.ReplaceAllString(raw, ""))}
}

// String returns the normalized token, e.g. "26178A".
func (id TestID) String() string { return id.token }

// IsZero reports whether the raw input normalized to nothing.
func (id TestID) IsZero() bool { return id.token == "" }

// IsAlias reports whether the identifier names a mirrored "A" record.
func (id TestID) IsAlias() bool { return strings.HasSuffix(id.token, "A") }

// BaseForm returns the identifier with a trailing alias marker removed.
// Non-alias identifiers are returned unchanged.
func (id TestID) BaseForm() TestID {
	if !id.IsAlias() {
		return id
	}
	return TestID{token: strings.TrimSuffix(id.token, "A")}
}

// AliasForm returns the mirrored "A" form of the identifier. Alias and zero
// identifiers are returned unchanged.
func (id TestID) AliasForm() TestID {
	if id.IsAlias() || id.IsZero() {
		return id
	}
	return TestID{token: id.token + "A"}
}
