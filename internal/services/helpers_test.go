package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ramrodpineapple01/autoexel/internal/database"
	"github.com/ramrodpineapple01/autoexel/internal/logger"
	"github.com/ramrodpineapple01/autoexel/internal/models"
	"github.com/ramrodpineapple01/autoexel/internal/repository"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryBackend is an in-memory database.Backend that can fail on save.
type memoryBackend struct {
	mu      sync.Mutex
	sheets  []database.Sheet
	saves   int
	saveErr error
}

func (m *memoryBackend) Load(ctx context.Context) ([]database.Sheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sheets == nil {
		return nil, database.ErrNoData
	}
	return m.sheets, nil
}

func (m *memoryBackend) Save(ctx context.Context, sheets []database.Sheet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.sheets = sheets
	return nil
}

func (m *memoryBackend) Ping(ctx context.Context) error { return nil }
func (m *memoryBackend) Close() error                   { return nil }
func (m *memoryBackend) Describe() string               { return "memory" }

func (m *memoryBackend) failSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func (m *memoryBackend) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func newTestStore(t *testing.T) (repository.Store, *memoryBackend) {
	t.Helper()
	backend := &memoryBackend{}
	store, err := repository.NewStore(context.Background(), backend)
	require.NoError(t, err)
	return store, backend
}

func testLogger() *logger.Logger {
	return logger.New("test")
}

// MockStore is a mock implementation of repository.Store for testing
// failure paths.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Rows(ctx context.Context, table string) ([]models.Row, error) {
	args := m.Called(ctx, table)
	rows, _ := args.Get(0).([]models.Row)
	return rows, args.Error(1)
}

func (m *MockStore) Search(ctx context.Context, table, query string) ([]models.Row, error) {
	args := m.Called(ctx, table, query)
	rows, _ := args.Get(0).([]models.Row)
	return rows, args.Error(1)
}

func (m *MockStore) AddRow(ctx context.Context, table string, fields models.Row) (models.Row, error) {
	args := m.Called(ctx, table, fields)
	row, _ := args.Get(0).(models.Row)
	return row, args.Error(1)
}

func (m *MockStore) UpdateRow(ctx context.Context, table, id string, fields models.Row) (bool, error) {
	args := m.Called(ctx, table, id, fields)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) DeleteRow(ctx context.Context, table, id string) (bool, error) {
	args := m.Called(ctx, table, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Upsert(ctx context.Context, table string, match func(models.Row) bool, fields models.Row) (bool, error) {
	args := m.Called(ctx, table, fields)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ReplaceGroup(ctx context.Context, table, column, key string, rows []models.Row) error {
	args := m.Called(ctx, table, column, key, rows)
	return args.Error(0)
}

func (m *MockStore) ReplaceAll(ctx context.Context, table string, rows []models.Row) error {
	args := m.Called(ctx, table, rows)
	return args.Error(0)
}

func (m *MockStore) Batch(ctx context.Context, fn func(tx *repository.Tx) error) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var errDiskFull = errors.New("disk full")
