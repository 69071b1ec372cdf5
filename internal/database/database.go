// Package database persists the community table image.
//
// The store keeps every table in memory and hands the whole image to a
// Backend after each mutation. Two backends exist: an .xlsx workbook on
// local disk and a PostgreSQL table holding one JSON row per sheet row.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/ramrodpineapple01/autoexel/internal/config"
)

// ErrNoData is returned by Load when nothing has been persisted yet.
var ErrNoData = errors.New("no persisted tables")

// Sheet is one table of the persisted image.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
	// Numeric lists header names whose cells are written as numbers when
	// they parse as one. Backends without typed cells ignore it.
	Numeric []string
	// LastID is the highest ID ever issued for the sheet's auto-ID column,
	// including IDs of rows deleted since. Zero when the sheet has none.
	LastID int64
}

// Backend loads and saves the full table image.
type Backend interface {
	// Load returns every persisted sheet in order.
	// Returns ErrNoData if nothing has been written yet.
	Load(ctx context.Context) ([]Sheet, error)

	// Save replaces the persisted image with sheets.
	Save(ctx context.Context, sheets []Sheet) error

	// Ping reports whether the backend is reachable and writable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error

	// Describe names the backend for logs, e.g. "xlsx:data/community.xlsx".
	Describe() string
}

// Open creates the backend selected by the store configuration.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	case config.BackendXLSX:
		return NewWorkbookFile(cfg.Store.DataFile)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

var (
	_ Backend = (*WorkbookFile)(nil)
	_ Backend = (*Database)(nil)
)
