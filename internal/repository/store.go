// Package repository holds the tabular store: every community table kept
// in memory and written through a database.Backend after each mutation.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ramrodpineapple01/autoexel/internal/database"
	"github.com/ramrodpineapple01/autoexel/internal/models"
)

// Store-level errors
var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
	ErrNoRowID       = errors.New("table has no row ID column")
)

// StorageError reports a failure of the persistence backend.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store defines the table operations used by the services.
// Every mutating call persists the full image before returning; if the
// write fails the in-memory image is left as it was.
type Store interface {
	// Rows returns all non-empty rows of a table in row order.
	Rows(ctx context.Context, table string) ([]models.Row, error)

	// Search returns rows where any cell contains query, ignoring case.
	// An empty query matches nothing.
	Search(ctx context.Context, table, query string) ([]models.Row, error)

	// AddRow appends a row and returns it as stored. Tables with an
	// auto-ID column get a fresh ID, replacing any supplied one.
	AddRow(ctx context.Context, table string, fields models.Row) (models.Row, error)

	// UpdateRow overwrites the known fields of the row whose ID cell equals
	// id exactly. Returns false if no row matches.
	UpdateRow(ctx context.Context, table, id string, fields models.Row) (bool, error)

	// DeleteRow removes the first row whose ID cell equals id.
	// Returns false if no row matches.
	DeleteRow(ctx context.Context, table, id string) (bool, error)

	// Upsert updates the first row accepted by match, or appends fields as
	// a new row. Returns true when a row was inserted.
	Upsert(ctx context.Context, table string, match func(models.Row) bool, fields models.Row) (bool, error)

	// ReplaceGroup deletes every row whose column equals key and appends
	// rows, persisting once.
	ReplaceGroup(ctx context.Context, table, column, key string, rows []models.Row) error

	// ReplaceAll clears a table and appends rows.
	ReplaceAll(ctx context.Context, table string, rows []models.Row) error

	// Batch runs fn against a working copy and persists once. The copy
	// becomes the live image only if fn and the write both succeed.
	Batch(ctx context.Context, fn func(tx *Tx) error) error
}

// tableStore is the concrete implementation of Store.
type tableStore struct {
	mu      sync.RWMutex
	backend database.Backend
	img     *image
}

// NewStore loads the persisted image from backend. Missing tables are
// created and corrupted headers rebuilt; if anything changed the repaired
// image is written back before returning.
func NewStore(ctx context.Context, backend database.Backend) (Store, error) {
	sheets, err := backend.Load(ctx)
	if err != nil && !errors.Is(err, database.ErrNoData) {
		return nil, &StorageError{Op: "load", Err: err}
	}

	img, repaired := buildImage(sheets)
	if repaired {
		if err := backend.Save(ctx, img.sheets()); err != nil {
			return nil, &StorageError{Op: "save", Err: err}
		}
	}

	return &tableStore{backend: backend, img: img}, nil
}

// Rows returns all non-empty rows of table.
func (s *tableStore) Rows(ctx context.Context, table string) ([]models.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return (&Tx{img: s.img}).Rows(table)
}

// Search performs a case-insensitive substring match over every cell.
func (s *tableStore) Search(ctx context.Context, table, query string) ([]models.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.img.table(table)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	results := []models.Row{}
	if query == "" {
		return results, nil
	}

	needle := strings.ToLower(query)
	for _, cells := range t.rows {
		if isBlank(cells) {
			continue
		}
		for _, c := range cells {
			if strings.Contains(strings.ToLower(c), needle) {
				results = append(results, t.toRow(cells))
				break
			}
		}
	}
	return results, nil
}

func (s *tableStore) AddRow(ctx context.Context, table string, fields models.Row) (models.Row, error) {
	var added models.Row
	err := s.Batch(ctx, func(tx *Tx) error {
		var err error
		added, err = tx.AddRow(table, fields)
		return err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *tableStore) UpdateRow(ctx context.Context, table, id string, fields models.Row) (bool, error) {
	var found bool
	err := s.Batch(ctx, func(tx *Tx) error {
		var err error
		found, err = tx.UpdateRow(table, id, fields)
		if err == nil && !found {
			return errNothingChanged
		}
		return err
	})
	if errors.Is(err, errNothingChanged) {
		return false, nil
	}
	return found, err
}

func (s *tableStore) DeleteRow(ctx context.Context, table, id string) (bool, error) {
	var found bool
	err := s.Batch(ctx, func(tx *Tx) error {
		var err error
		found, err = tx.DeleteRow(table, id)
		if err == nil && !found {
			return errNothingChanged
		}
		return err
	})
	if errors.Is(err, errNothingChanged) {
		return false, nil
	}
	return found, err
}

func (s *tableStore) Upsert(ctx context.Context, table string, match func(models.Row) bool, fields models.Row) (bool, error) {
	var inserted bool
	err := s.Batch(ctx, func(tx *Tx) error {
		var err error
		inserted, err = tx.Upsert(table, match, fields)
		return err
	})
	return inserted, err
}

func (s *tableStore) ReplaceGroup(ctx context.Context, table, column, key string, rows []models.Row) error {
	return s.Batch(ctx, func(tx *Tx) error {
		return tx.ReplaceGroup(table, column, key, rows)
	})
}

func (s *tableStore) ReplaceAll(ctx context.Context, table string, rows []models.Row) error {
	return s.Batch(ctx, func(tx *Tx) error {
		return tx.ReplaceAll(table, rows)
	})
}

// Batch holds the write lock for the whole of fn and the persist.
func (s *tableStore) Batch(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := s.img.clone()
	if err := fn(&Tx{img: working}); err != nil {
		return err
	}

	if err := s.backend.Save(ctx, working.sheets()); err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	s.img = working
	return nil
}

// errNothingChanged aborts a single-step batch that matched no row so the
// image is not rewritten.
var errNothingChanged = errors.New("no matching row")
