package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/token"
)

func TestApp_Commands(t *testing.T) {
	app := newApp()
	names := map[string]bool{}
	for _, c := range app.Commands {
		names[c.Name] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.Equal(t, "serve", app.DefaultCommand)
}

func TestServeCommand_Flags(t *testing.T) {
	cmd := serveCommand()
	flags := map[string]bool{}
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			flags[n] = true
		}
	}
	assert.True(t, flags["addr"])
	assert.True(t, flags["auto-migrate"])
}

func TestLoadEnv_ExplicitFileMustExist(t *testing.T) {
	app := newApp()
	app.Commands = nil
	app.DefaultCommand = ""
	app.Action = func(*cli.Context) error { return nil }

	err := app.Run([]string{"tracker-api", "--env-file", filepath.Join(t.TempDir(), "missing.env")})
	assert.Error(t, err)
}

func TestLoadEnv_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TRACKER_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("TRACKER_TEST_VALUE", "")
	os.Unsetenv("TRACKER_TEST_VALUE")

	app := newApp()
	app.Commands = nil
	app.DefaultCommand = ""
	var got string
	app.Action = func(*cli.Context) error {
		got = os.Getenv("TRACKER_TEST_VALUE")
		return nil
	}
	require.NoError(t, app.Run([]string{"tracker-api", "--env-file", path}))
	assert.Equal(t, "from-file", got)
}

func TestBuildHandler(t *testing.T) {
	t.Setenv("PASSWORD_BCRYPT_COST", "4")
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()

	h, err := buildHandler(zap.NewNop().Sugar(), sqlx.NewDb(raw, "postgres"), token.Config{
		SigningKey: []byte("0123456789abcdef0123456789abcdef"),
		Issuer:     "tracker",
		Audience:   "tracker-clients",
		TTL:        time.Hour,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildHandler_RejectsIncompleteTokenConfig(t *testing.T) {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()

	_, err = buildHandler(zap.NewNop().Sugar(), sqlx.NewDb(raw, "postgres"), token.Config{})
	assert.Error(t, err)
}
