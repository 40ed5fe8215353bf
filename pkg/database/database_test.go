package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_MAX_CONNS", "")

	cfg := ConfigFromEnv()
	assert.Contains(t, cfg.DSN, "postgres://")
	assert.Equal(t, 10, cfg.MaxConns)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("DATABASE_MAX_CONNS", "3")
	t.Setenv("DATABASE_TIMEZONE", "UTC")

	cfg := ConfigFromEnv()
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DSN)
	assert.Equal(t, 3, cfg.MaxConns)
	assert.Equal(t, "UTC", cfg.TimeZone)
}

func TestWithSessionOptions(t *testing.T) {
	assert.Equal(t, "postgres://h/db", withSessionOptions(Config{DSN: "postgres://h/db"}))

	got := withSessionOptions(Config{DSN: "postgres://h/db?sslmode=disable", TimeZone: "UTC"})
	assert.Equal(t, "postgres://h/db?sslmode=disable&options=-c%20TimeZone%3DUTC", got)

	got = withSessionOptions(Config{DSN: "postgres://h/db", TimeZone: "UTC", ClientEncoding: "UTF8"})
	assert.Equal(t, "postgres://h/db?options=-c%20TimeZone%3DUTC%20-c%20client_encoding%3DUTF8", got)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestForeignKeyViolation(t *testing.T) {
	name, ok := ForeignKeyViolation(&pq.Error{Code: "23503", Constraint: "fk_issues_project"})
	assert.True(t, ok)
	assert.Equal(t, "fk_issues_project", name)

	_, ok = ForeignKeyViolation(&pq.Error{Code: "23505"})
	assert.False(t, ok)
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	body, err := fs.ReadFile(migrations, "migrations/00001_init.sql")
	require.NoError(t, err)
	sqlText := string(body)
	assert.True(t, strings.Contains(sqlText, "-- +goose Up"))
	assert.True(t, strings.Contains(sqlText, "-- +goose Down"))
	assert.Contains(t, sqlText, "CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email)")
	assert.Contains(t, sqlText, "fk_issues_project")
}

func TestMigrate_UsesEmbeddedDir(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, Migrate(context.Background(), nil))
	assert.Equal(t, "migrations", gotDir)
}

func TestMigrate_WrapsError(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	boom := errors.New("boom")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return boom
	}
	err := Migrate(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}
