package repository

import (
	"fmt"
	"strconv"

	"github.com/ramrodpineapple01/autoexel/internal/models"
)

// Tx is a working copy of the table image handed to Store.Batch.
// Changes made through it are persisted together when the batch returns.
// A Tx must not be used after its batch function returns.
type Tx struct {
	img *image
}

func (tx *Tx) table(name string) (*table, error) {
	t, ok := tx.img.table(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return t, nil
}

// Rows returns all non-empty rows of the table as seen by this batch.
func (tx *Tx) Rows(name string) ([]models.Row, error) {
	t, err := tx.table(name)
	if err != nil {
		return nil, err
	}

	rows := make([]models.Row, 0, len(t.rows))
	for _, cells := range t.rows {
		if isBlank(cells) {
			continue
		}
		rows = append(rows, t.toRow(cells))
	}
	return rows, nil
}

// AddRow appends a row, assigning the next ID on auto-ID tables.
func (tx *Tx) AddRow(name string, fields models.Row) (models.Row, error) {
	t, err := tx.table(name)
	if err != nil {
		return nil, err
	}

	cells := t.fromRow(fields)
	if t.schema.AutoID != "" {
		id := t.nextID()
		cells[t.index(t.schema.AutoID)] = strconv.FormatInt(id, 10)
		t.lastID = id
	}
	t.rows = append(t.rows, cells)

	return t.toRow(cells), nil
}

// UpdateRow overwrites the known fields of the row whose ID equals id.
// The ID cell itself is never changed.
func (tx *Tx) UpdateRow(name, id string, fields models.Row) (bool, error) {
	t, col, err := tx.idTable(name)
	if err != nil {
		return false, err
	}

	for _, cells := range t.rows {
		if cells[col] != id {
			continue
		}
		for key, value := range fields {
			if i := t.index(key); i >= 0 && i != col {
				cells[i] = value
			}
		}
		return true, nil
	}
	return false, nil
}

// DeleteRow removes the first row whose ID equals id.
func (tx *Tx) DeleteRow(name, id string) (bool, error) {
	t, col, err := tx.idTable(name)
	if err != nil {
		return false, err
	}

	for i, cells := range t.rows {
		if cells[col] == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (tx *Tx) idTable(name string) (*table, int, error) {
	t, err := tx.table(name)
	if err != nil {
		return nil, 0, err
	}
	if t.schema.AutoID == "" {
		return nil, 0, fmt.Errorf("%w: %s", ErrNoRowID, name)
	}
	return t, t.index(t.schema.AutoID), nil
}

// Upsert updates the first non-empty row accepted by match with the known
// keys of fields, or appends fields as a new row.
func (tx *Tx) Upsert(name string, match func(models.Row) bool, fields models.Row) (bool, error) {
	t, err := tx.table(name)
	if err != nil {
		return false, err
	}

	for _, cells := range t.rows {
		if isBlank(cells) || !match(t.toRow(cells)) {
			continue
		}
		for key, value := range fields {
			if i := t.index(key); i >= 0 {
				cells[i] = value
			}
		}
		return false, nil
	}

	if _, err := tx.AddRow(name, fields); err != nil {
		return false, err
	}
	return true, nil
}

// ReplaceGroup deletes every row whose column cell equals key, then
// appends rows.
func (tx *Tx) ReplaceGroup(name, column, key string, rows []models.Row) error {
	t, err := tx.table(name)
	if err != nil {
		return err
	}
	col := t.index(column)
	if col < 0 {
		return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, name, column)
	}

	kept := t.rows[:0]
	for _, cells := range t.rows {
		if cells[col] != key {
			kept = append(kept, cells)
		}
	}
	t.rows = kept

	for _, row := range rows {
		if _, err := tx.AddRow(name, row); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceAll clears the table, restoring its schema header, and appends rows.
func (tx *Tx) ReplaceAll(name string, rows []models.Row) error {
	t, err := tx.table(name)
	if err != nil {
		return err
	}

	fresh := newTable(t.schema)
	fresh.lastID = t.lastID
	*t = *fresh

	for _, row := range rows {
		if _, err := tx.AddRow(name, row); err != nil {
			return err
		}
	}
	return nil
}
