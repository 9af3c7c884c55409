package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/countries-explorer/explorer/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// MigrationPath returns the path of a migration file by name.
func MigrationPath(name string) (string, error) {
	root, err := ProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "internal", "repository", "migrations", name), nil
}

// ResetFavouritesSchema drops and recreates the favourites schema for tests.
func ResetFavouritesSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, step := range []struct{ file, label string }{
		{"000001_favourites.down.sql", "down"},
		{"000001_favourites.up.sql", "up"},
	} {
		path, err := MigrationPath(step.file)
		if err != nil {
			return err
		}
		sql, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read favourites %s migration: %w", step.label, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply favourites %s migration: %w", step.label, err)
		}
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestCountry creates a catalog record with sensible defaults.
func NewTestCountry(common, cca3, region string) model.Country {
	return model.Country{
		Name:       model.CountryName{Common: common, Official: common},
		CCA3:       cca3,
		Region:     region,
		Population: 1_000_000,
		Area:       model.Float64(10_000),
		Capital:    []string{common + " City"},
		Languages:  map[string]string{"eng": "English"},
		Currencies: map[string]model.Currency{"USD": {Name: "United States dollar", Symbol: "$"}},
	}
}

// NewTestFavourite creates a favourite for userID carrying country.
func NewTestFavourite(t testing.TB, userID string, country model.Country) *model.Favourite {
	t.Helper()
	c := country
	return &model.Favourite{
		UserID:      userID,
		CountryName: country.Name.Common,
		CountryCode: country.CCA3,
		Country:     &c,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
