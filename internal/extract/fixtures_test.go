package extract

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// sheetFixture builds an in-memory workbook whose only sheet is renamed to
// sheet and populated from axis/value pairs.
func sheetFixture(t *testing.T, sheet string, cells map[string]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		t.Fatalf("renaming sheet: %v", err)
	}
	fillSheet(t, f, sheet, cells)
	return f
}

// addSheet appends one more populated sheet to a fixture workbook.
func addSheet(t *testing.T, f *excelize.File, sheet string, cells map[string]interface{}) {
	t.Helper()
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatalf("adding sheet %s: %v", sheet, err)
	}
	fillSheet(t, f, sheet, cells)
}

func fillSheet(t *testing.T, f *excelize.File, sheet string, cells map[string]interface{}) {
	t.Helper()
	for axis, value := range cells {
		if err := f.SetCellValue(sheet, axis, value); err != nil {
			t.Fatalf("setting cell %s: %v", axis, err)
		}
	}
}

func f64(v float64) *float64 { return &v }
