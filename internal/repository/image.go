package repository

import (
	"strconv"
	"strings"

	"github.com/ramrodpineapple01/autoexel/internal/database"
	"github.com/ramrodpineapple01/autoexel/internal/models"
)

// table is one schema-backed table held in memory. header starts with the
// schema columns in order; columns found on disk that the schema does not
// know are kept after them so no data is dropped on rewrite.
type table struct {
	schema models.TableSchema
	header []string
	rows   [][]string
	// lastID is the highest ID ever issued, persisted with the image, so
	// deleting the newest row does not hand its ID out again.
	lastID int64
}

// image is the full in-memory copy of the persisted tables.
type image struct {
	tables []*table
	// foreign holds sheets that are not community tables. They are written
	// back untouched.
	foreign []database.Sheet
}

// buildImage maps loaded sheets onto the known schemas. It reports whether
// anything had to be created or repaired, in which case the caller should
// persist the result.
func buildImage(sheets []database.Sheet) (*image, bool) {
	byName := make(map[string]database.Sheet, len(sheets))
	for _, s := range sheets {
		byName[s.Name] = s
	}

	img := &image{}
	repaired := false

	for _, schema := range models.Schemas() {
		sheet, ok := byName[schema.Name]
		if !ok {
			img.tables = append(img.tables, newTable(schema))
			repaired = true
			continue
		}
		delete(byName, schema.Name)

		t, fixed := tableFromSheet(schema, sheet)
		img.tables = append(img.tables, t)
		repaired = repaired || fixed
	}

	for _, s := range sheets {
		if _, ok := byName[s.Name]; ok {
			img.foreign = append(img.foreign, s)
		}
	}

	return img, repaired
}

func newTable(schema models.TableSchema) *table {
	header := make([]string, len(schema.Columns))
	copy(header, schema.Columns)
	return &table{schema: schema, header: header}
}

// tableFromSheet reorders the sheet's cells into schema column order. A
// header that names none of the schema columns is treated as corrupted:
// it is rebuilt and the data rows are read positionally.
func tableFromSheet(schema models.TableSchema, sheet database.Sheet) (*table, bool) {
	t := newTable(schema)

	source := make(map[string]int, len(sheet.Header))
	for i, h := range sheet.Header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, seen := source[h]; !seen {
			source[h] = i
		}
	}

	known := 0
	for _, col := range schema.Columns {
		if _, ok := source[col]; ok {
			known++
		}
	}

	if sheet.LastID > 0 && schema.AutoID != "" {
		t.lastID = sheet.LastID
	}

	if known == 0 {
		for _, cells := range sheet.Rows {
			row := make([]string, len(t.header))
			copy(row, cells)
			t.rows = append(t.rows, row)
		}
		return t, true
	}

	repaired := known != len(schema.Columns)

	// Unknown columns keep their on-disk order after the schema columns.
	for i, h := range sheet.Header {
		h = strings.TrimSpace(h)
		if h == "" || schema.HasColumn(h) || source[h] != i {
			continue
		}
		t.header = append(t.header, h)
	}

	for i, h := range t.header {
		if j, ok := source[h]; !ok || j != i {
			repaired = true
			break
		}
	}

	for _, cells := range sheet.Rows {
		row := make([]string, len(t.header))
		for i, h := range t.header {
			if j, ok := source[h]; ok && j < len(cells) {
				row[i] = cells[j]
			}
		}
		t.rows = append(t.rows, row)
	}

	return t, repaired
}

func (img *image) table(name string) (*table, bool) {
	for _, t := range img.tables {
		if t.schema.Name == name {
			return t, true
		}
	}
	return nil, false
}

func (img *image) clone() *image {
	out := &image{
		tables:  make([]*table, len(img.tables)),
		foreign: img.foreign,
	}
	for i, t := range img.tables {
		c := &table{
			schema: t.schema,
			header: append([]string(nil), t.header...),
			rows:   make([][]string, len(t.rows)),
			lastID: t.lastID,
		}
		for j, row := range t.rows {
			c.rows[j] = append([]string(nil), row...)
		}
		out.tables[i] = c
	}
	return out
}

func (img *image) sheets() []database.Sheet {
	out := make([]database.Sheet, 0, len(img.tables)+len(img.foreign))
	for _, t := range img.tables {
		sheet := database.Sheet{
			Name:    t.schema.Name,
			Header:  t.header,
			Rows:    t.rows,
			Numeric: t.schema.Numeric,
		}
		if t.schema.AutoID != "" {
			sheet.LastID = t.nextID() - 1
		}
		out = append(out, sheet)
	}
	return append(out, img.foreign...)
}

func (t *table) index(col string) int {
	for i, h := range t.header {
		if h == col {
			return i
		}
	}
	return -1
}

func (t *table) toRow(cells []string) models.Row {
	row := make(models.Row, len(t.header))
	for i, h := range t.header {
		row[h] = cells[i]
	}
	return row
}

// fromRow lays fields out in header order. Keys that are not headers are
// ignored and missing ones default to "".
func (t *table) fromRow(fields models.Row) []string {
	cells := make([]string, len(t.header))
	for i, h := range t.header {
		cells[i] = fields[h]
	}
	return cells
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// nextID returns one more than the largest integer in the auto-ID column,
// or than the last ID issued if that is higher. Cells that are not
// integers are ignored.
func (t *table) nextID() int64 {
	col := t.index(t.schema.AutoID)
	max := t.lastID
	for _, row := range t.rows {
		if id, ok := parseID(row[col]); ok && id > max {
			max = id
		}
	}
	return max + 1
}

func parseID(cell string) (int64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return id, true
	}
	// Spreadsheet tools sometimes store whole numbers as 3.0.
	if f, err := strconv.ParseFloat(cell, 64); err == nil && f == float64(int64(f)) {
		return int64(f), true
	}
	return 0, false
}
