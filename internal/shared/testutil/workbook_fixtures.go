package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SheetDef is one worksheet of a fixture workbook: its name and the cells to
// populate, keyed by axis ("A1").
type SheetDef struct {
	Name  string
	Cells map[string]interface{}
}

// WriteWorkbook writes an .xlsx workbook at path with the given sheets in
// order, creating parent directories as needed. It returns path for
// convenience.
func WriteWorkbook(t *testing.T, path string, sheets ...SheetDef) string {
	t.Helper()
	if len(sheets) == 0 {
		t.Fatal("WriteWorkbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheets[0].Name); err != nil {
		t.Fatalf("renaming sheet: %v", err)
	}
	for i, sheet := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				t.Fatalf("adding sheet %s: %v", sheet.Name, err)
			}
		}
		for axis, value := range sheet.Cells {
			if err := f.SetCellValue(sheet.Name, axis, value); err != nil {
				t.Fatalf("setting %s!%s: %v", sheet.Name, axis, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directories for %s: %v", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving %s: %v", path, err)
	}
	return path
}

// SchedaCells returns a small but realistic Scheda SR sheet: canonical
// headers on row 3, the Media/Min/Max block right under them, a note line
// further down.
func SchedaCells() map[string]interface{} {
	return map[string]interface{}{
		"A1": "Scheda prova motore",
		"B3": "Orifice (mm)", "C3": "Watt", "D3": "mmH2O", "E3": "Air Watt", "F3": "Eff.%",
		"A4": "Media", "B4": 30, "C4": "1.250,5", "D4": 2540, "E4": 395, "F4": "31,5",
		"A5": "Min", "B5": 30, "C5": 1240, "D5": 2515, "E5": 388, "F5": "31,1",
		"A6": "Max", "B6": 30, "C6": 1262, "D6": 2561, "E6": 402, "F6": "31,9",
		"B8": "Prova eseguita su banco 2",
	}
}

// CollaudoCells returns a classic-layout Collaudo sheet: the Media label in
// column A and measurements in columns B through M.
func CollaudoCells() map[string]interface{} {
	return map[string]interface{}{
		"A5": "Media",
		"B5": "1,2", "C5": "1,4", "D5": "1,1",
		"E5": 1250, "F5": 1320, "G5": 1190,
		"H5": 21000, "I5": 21500, "J5": 20100,
		"K5": "2.540,5", "L5": 2280, "M5": 2100,
	}
}

// TouchWorkbooks creates empty placeholder files under dir, for tests that
// only care about file names and timestamps.
func TouchWorkbooks(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating %s: %v", dir, err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
	}
}
