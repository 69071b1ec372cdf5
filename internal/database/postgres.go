package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ramrodpineapple01/autoexel/internal/config"
)

// Database wraps the pgx connection pool and stores the table image in a
// single workbook_rows table. Row 0 of each sheet holds its header and
// row -1, when present, its ID high-water mark.
type Database struct {
	Pool *pgxpool.Pool
}

// metaPosition is the position of a sheet's bookkeeping row.
const metaPosition = -1

const createWorkbookRows = `
CREATE TABLE IF NOT EXISTS workbook_rows (
	sheet       TEXT    NOT NULL,
	sheet_order INTEGER NOT NULL,
	position    INTEGER NOT NULL,
	cells       JSONB   NOT NULL,
	PRIMARY KEY (sheet, position)
)`

// NewPostgresPool creates a new PostgreSQL connection pool using pgx.
// It configures the pool based on the provided database configuration,
// tests the connection, and returns a Database instance.
func NewPostgresPool(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MinConns = int32(cfg.PoolMin)
	poolConfig.MaxConns = int32(cfg.PoolMax)

	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Second
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{Pool: pool}, nil
}

// EnsureSchema creates the workbook_rows table if it does not exist.
func (db *Database) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, createWorkbookRows); err != nil {
		return fmt.Errorf("failed to create workbook_rows: %w", err)
	}
	return nil
}

// Describe implements Backend.
func (db *Database) Describe() string {
	if db.Pool == nil {
		return "postgres"
	}
	cc := db.Pool.Config().ConnConfig
	return fmt.Sprintf("postgres:%s:%d/%s", cc.Host, cc.Port, cc.Database)
}

// Load reads every sheet ordered as it was saved.
func (db *Database) Load(ctx context.Context) ([]Sheet, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT sheet, position, cells
		FROM workbook_rows
		ORDER BY sheet_order, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workbook rows: %w", err)
	}
	defer rows.Close()

	var sheets []Sheet
	for rows.Next() {
		var (
			name     string
			position int
			raw      []byte
		)
		if err := rows.Scan(&name, &position, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan workbook row: %w", err)
		}

		var cells []string
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, fmt.Errorf("failed to decode cells of %s row %d: %w", name, position, err)
		}

		if len(sheets) == 0 || sheets[len(sheets)-1].Name != name {
			sheets = append(sheets, Sheet{Name: name})
		}
		current := &sheets[len(sheets)-1]
		switch {
		case position == metaPosition:
			if len(cells) > 0 {
				current.LastID, _ = strconv.ParseInt(cells[0], 10, 64)
			}
		case position == 0:
			current.Header = cells
		default:
			current.Rows = append(current.Rows, cells)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workbook rows: %w", err)
	}

	if len(sheets) == 0 {
		return nil, ErrNoData
	}
	return sheets, nil
}

// Save replaces the stored image inside one transaction.
func (db *Database) Save(ctx context.Context, sheets []Sheet) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback after Commit returns ErrTxClosed and is ignored.
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM workbook_rows`); err != nil {
		return fmt.Errorf("failed to clear workbook rows: %w", err)
	}

	batch := &pgx.Batch{}
	for order, sheet := range sheets {
		if sheet.LastID > 0 {
			batch.Queue(
				`INSERT INTO workbook_rows (sheet, sheet_order, position, cells) VALUES ($1, $2, $3, $4::jsonb)`,
				sheet.Name, order, metaPosition, fmt.Sprintf(`[%q]`, strconv.FormatInt(sheet.LastID, 10)),
			)
		}
		lines := append([][]string{sheet.Header}, sheet.Rows...)
		for position, cells := range lines {
			if cells == nil {
				cells = []string{}
			}
			encoded, err := json.Marshal(cells)
			if err != nil {
				return fmt.Errorf("failed to encode %s row %d: %w", sheet.Name, position, err)
			}
			batch.Queue(
				`INSERT INTO workbook_rows (sheet, sheet_order, position, cells) VALUES ($1, $2, $3, $4::jsonb)`,
				sheet.Name, order, position, string(encoded),
			)
		}
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert workbook rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit workbook rows: %w", err)
	}
	return nil
}

// Ping checks if the database connection is alive.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close gracefully closes the database connection pool.
// It waits for all connections to be returned to the pool before closing.
func (db *Database) Close() error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	return nil
}
