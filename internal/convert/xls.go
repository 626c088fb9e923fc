package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"github.com/yamitzky/xlrd-go/xlrd"
)

// XLSConverter rewrites a legacy BIFF .xls workbook as a temporary .xlsx
// file carrying cell values only. Formulas, merges and formatting are not
// carried over; the legacy corpus predates the layouts that rely on them.
type XLSConverter struct {
	tempDir string
	logger  *slog.Logger
}

// NewXLSConverter builds a converter writing its temporary files under
// tempDir, or the system temp directory when tempDir is "".
func NewXLSConverter(tempDir string, logger *slog.Logger) *XLSConverter {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSConverter{tempDir: tempDir, logger: logger}
}

// Convert reads every sheet of the legacy workbook and writes the values
// into a fresh .xlsx file named carichi-<uuid>.xlsx under the temp
// directory. The returned path is owned by the caller.
func (c *XLSConverter) Convert(ctx context.Context, path string) (string, error) {
	book, err := xlrd.OpenWorkbook(path, &xlrd.OpenWorkbookOptions{Logfile: io.Discard})
	if err != nil {
		return "", fmt.Errorf("opening legacy workbook %s: %w", path, err)
	}

	out := excelize.NewFile()
	defer out.Close()

	for i, name := range book.SheetNames() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		sheet, err := book.SheetByIndex(i)
		if err != nil {
			return "", fmt.Errorf("reading sheet %d of %s: %w", i, path, err)
		}
		if i == 0 {
			err = out.SetSheetName(out.GetSheetName(0), name)
		} else {
			_, err = out.NewSheet(name)
		}
		if err != nil {
			return "", fmt.Errorf("creating sheet %q: %w", name, err)
		}
		if err := copySheet(out, name, sheet, book.Datemode); err != nil {
			return "", fmt.Errorf("copying sheet %q: %w", name, err)
		}
	}

	target := filepath.Join(c.tempDir, fmt.Sprintf("carichi-%s.xlsx", uuid.NewString()))
	if err := out.SaveAs(target); err != nil {
		return "", fmt.Errorf("writing converted workbook: %w", err)
	}
	c.logger.Debug("converted legacy workbook",
		slog.String("source", path),
		slog.String("target", target))
	return target, nil
}

func copySheet(out *excelize.File, name string, sheet *xlrd.Sheet, datemode int) error {
	for rowx := 0; rowx < sheet.NRows; rowx++ {
		for colx := 0; colx < sheet.NCols; colx++ {
			value, ok := cellValue(sheet, rowx, colx, datemode)
			if !ok {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(colx+1, rowx+1)
			if err != nil {
				return err
			}
			if err := out.SetCellValue(name, axis, value); err != nil {
				return fmt.Errorf("cell %s: %w", axis, err)
			}
		}
	}
	return nil
}

// cellValue maps one legacy cell to a value excelize can write. Empty and
// blank cells are skipped, date serials become time values and error cells
// carry their Excel error text.
func cellValue(sheet *xlrd.Sheet, rowx, colx, datemode int) (interface{}, bool) {
	switch sheet.CellType(rowx, colx) {
	case xlrd.XL_CELL_TEXT:
		s, _ := sheet.CellValue(rowx, colx).(string)
		if s == "" {
			return nil, false
		}
		return s, true
	case xlrd.XL_CELL_NUMBER:
		f, ok := sheet.CellValue(rowx, colx).(float64)
		if !ok {
			return nil, false
		}
		return f, true
	case xlrd.XL_CELL_DATE:
		f, ok := sheet.CellValue(rowx, colx).(float64)
		if !ok {
			return nil, false
		}
		if t, err := xlrd.XldateAsDatetime(f, datemode); err == nil {
			return t, true
		}
		return f, true
	case xlrd.XL_CELL_BOOLEAN:
		switch v := sheet.CellValue(rowx, colx).(type) {
		case bool:
			return v, true
		case int:
			return v != 0, true
		case float64:
			return v != 0, true
		}
		return nil, false
	case xlrd.XL_CELL_ERROR:
		switch v := sheet.CellValue(rowx, colx).(type) {
		case byte:
			if text, ok := xlrd.ErrorTextFromCode[v]; ok {
				return text, true
			}
		case int:
			if text, ok := xlrd.ErrorTextFromCode[byte(v)]; ok {
				return text, true
			}
		}
		return nil, false
	}
	return nil, false
}
