package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	// lastIDName is the sheet-scoped defined name holding Sheet.LastID.
	lastIDName      = "LastID"
	headerFillColor = "366092"
	headerFontColor = "FFFFFF"
	maxColumnWidth  = 50
)

// WorkbookFile persists the table image as an .xlsx workbook, one
// worksheet per table with the header in row 1.
type WorkbookFile struct {
	path string
}

// NewWorkbookFile returns a backend writing to path, creating the parent
// directory if needed. The workbook itself is created on first Save.
func NewWorkbookFile(path string) (*WorkbookFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &WorkbookFile{path: path}, nil
}

// Path returns the workbook location.
func (w *WorkbookFile) Path() string {
	return w.path
}

// Describe implements Backend.
func (w *WorkbookFile) Describe() string {
	return "xlsx:" + w.path
}

// Load reads every worksheet. Cell values are returned raw so numbers
// written by Save come back without display formatting.
func (w *WorkbookFile) Load(ctx context.Context) ([]Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(w.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("failed to stat workbook %s: %w", w.path, err)
	}

	f, err := excelize.OpenFile(w.path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", w.path, err)
	}
	defer func() { _ = f.Close() }()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}

		sheet := Sheet{Name: name}
		if len(rows) > 0 {
			sheet.Header = rows[0]
			sheet.Rows = rows[1:]
		}
		sheets = append(sheets, sheet)
	}

	// Restore each sheet's ID high-water mark
	for _, dn := range f.GetDefinedName() {
		if dn.Name != lastIDName {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(dn.RefersTo), "="), 10, 64)
		if err != nil {
			continue
		}
		for i := range sheets {
			if sheets[i].Name == dn.Scope {
				sheets[i].LastID = id
			}
		}
	}

	return sheets, nil
}

// Save writes a fresh workbook to a temporary file in the same directory
// and renames it over the previous one, so a failed write never leaves a
// truncated workbook behind.
func (w *WorkbookFile) Save(ctx context.Context, sheets []Sheet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(sheets) == 0 {
		return fmt.Errorf("refusing to save a workbook with no sheets")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: headerFontColor},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return err
		}

		if sheet.LastID > 0 {
			if err := f.SetDefinedName(&excelize.DefinedName{
				Name:     lastIDName,
				RefersTo: strconv.FormatInt(sheet.LastID, 10),
				Scope:    sheet.Name,
			}); err != nil {
				return fmt.Errorf("failed to record last ID of %s: %w", sheet.Name, err)
			}
		}
	}
	f.SetActiveSheet(0)

	tmp, err := os.CreateTemp(filepath.Dir(w.path), ".community-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temporary workbook: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close workbook: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("failed to replace workbook %s: %w", w.path, err)
	}

	return nil
}

// Ping checks that the data directory still exists.
func (w *WorkbookFile) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(w.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", dir)
	}
	return nil
}

// Close is a no-op; the workbook is not held open between saves.
func (w *WorkbookFile) Close() error {
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	numeric := make(map[int]bool, len(sheet.Numeric))
	for i, h := range sheet.Header {
		for _, n := range sheet.Numeric {
			if h == n {
				numeric[i] = true
			}
		}
	}

	widths := make([]int, len(sheet.Header))
	track := func(col int, value string) {
		if col < len(widths) {
			if n := utf8.RuneCountInString(value); n > widths[col] {
				widths[col] = n
			}
		}
	}

	header := make([]interface{}, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
		track(i, h)
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet.Name, err)
	}

	for r, row := range sheet.Rows {
		values := make([]interface{}, len(row))
		for c, cell := range row {
			values[c] = cellValue(cell, numeric[c])
			track(c, cell)
		}

		addr, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.Name, addr, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+2, sheet.Name, err)
		}
	}

	if len(sheet.Header) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(sheet.Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet.Name, err)
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, col, col, float64(min(width+2, maxColumnWidth))); err != nil {
			return fmt.Errorf("failed to size column %s of %s: %w", col, sheet.Name, err)
		}
	}

	return nil
}

// cellValue converts a stored string to the value written to the cell.
// Numeric columns become numbers when the text parses; blanks stay empty.
func cellValue(cell string, numeric bool) interface{} {
	if cell == "" {
		return nil
	}
	if numeric {
		if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			return f
		}
	}
	return cell
}
