package database

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ramrodpineapple01/autoexel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		Name:     getEnvOrDefault("DB_NAME", "community_test"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		PoolMin:  1,
		PoolMax:  3,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// openTestDatabase connects to the test database with an empty
// workbook_rows table, skipping when PostgreSQL is not reachable.
func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewPostgresPool(ctx, getTestConfig())
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx, `DELETE FROM workbook_rows`)
	require.NoError(t, err)
	return db
}

func TestNewPostgresPool_InvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cfg := getTestConfig()
	cfg.Host = "invalid-host-that-does-not-exist"

	_, err := NewPostgresPool(ctx, cfg)
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "postgres", (&Database{}).Describe())

	db := openTestDatabase(t)
	assert.True(t, strings.HasPrefix(db.Describe(), "postgres:"), db.Describe())
	assert.True(t, strings.HasSuffix(db.Describe(), "/"+getTestConfig().Name), db.Describe())
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := openTestDatabase(t)
	assert.NoError(t, db.EnsureSchema(context.Background()))
}

func TestLoad_EmptyTable(t *testing.T) {
	db := openTestDatabase(t)

	_, err := db.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()

	sheets := []Sheet{
		{Name: "Directory", Header: []string{"ID", "Owner"}, Rows: [][]string{{"1", "Jane"}, {"2", "Bob"}}, LastID: 5},
		{Name: "Lot_Owners", Header: []string{"Surname", "FirstName", "Lot_Numbers"}},
	}
	require.NoError(t, db.Save(ctx, sheets))

	loaded, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Directory", loaded[0].Name)
	assert.Equal(t, []string{"ID", "Owner"}, loaded[0].Header)
	assert.Equal(t, [][]string{{"1", "Jane"}, {"2", "Bob"}}, loaded[0].Rows)
	assert.Equal(t, int64(5), loaded[0].LastID)
	assert.Equal(t, "Lot_Owners", loaded[1].Name)
	assert.Zero(t, loaded[1].LastID)
	assert.Len(t, loaded[1].Header, 3)
	assert.Empty(t, loaded[1].Rows)

	// A second save replaces the image rather than appending to it.
	require.NoError(t, db.Save(ctx, sheets[:1]))
	loaded, err = db.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestSave_CanceledContextKeepsImage(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, db.Save(ctx, []Sheet{{Name: "Directory", Header: []string{"ID"}, Rows: [][]string{{"1"}}}}))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, db.Save(canceled, []Sheet{{Name: "Other"}}))

	loaded, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Directory", loaded[0].Name)
}

func TestPing_AfterClose(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, db.Ping(ctx))

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(ctx))
	assert.NoError(t, db.Close(), "closing twice is safe")
}
