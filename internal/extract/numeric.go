package extract

import (
	"strconv"
	"strings"
)

// ParseNumber converts cell text to a float, tolerating the decimal
// conventions that coexist in the workbook corpus: "1.234,56" (Italian
// thousands + decimal comma), "3,14" (bare decimal comma) and "12.5" all
// parse. Non-breaking spaces are stripped first. Empty or unparseable text
// yields nil; extraction treats such cells as missing data, never as a
// failure.
func ParseNumber(value string) *float64 {
	text := strings.TrimSpace(value)
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, " ", "")

	hasComma := strings.Contains(text, ",")
	hasPoint := strings.Contains(text, ".")
	switch {
	case hasComma && hasPoint:
		// "1.234,56": points are thousands separators.
		text = strings.ReplaceAll(text, ".", "")
		text = strings.ReplaceAll(text, ",", ".")
	case hasComma:
		text = strings.ReplaceAll(text, ",", ".")
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &f
}
