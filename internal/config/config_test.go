package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr)
	assert.Equal(t, "data/database.sqlite", cfg.Database.Path)
	assert.Equal(t, 120, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Storage.Bucket)
	assert.True(t, cfg.UsesInsecureSecret())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ISRS_AUTH_JWTSECRET", "production-grade-secret")
	t.Setenv("ISRS_AUTH_TOKENTTLMINUTES", "30")
	t.Setenv("ISRS_STORAGE_BUCKET", "audit-archive")
	t.Setenv("ISRS_SERVER_ADDR", "127.0.0.1:9999")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production-grade-secret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.UsesInsecureSecret())
	assert.Equal(t, 30, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, "audit-archive", cfg.Storage.Bucket)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("# local\nISRS_AUTH_BCRYPTCOST='12'\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("ISRS_AUTH_BCRYPTCOST") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoad_EnvironmentWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ISRS_LOG_LEVEL", "debug")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ISRS_LOG_LEVEL=warn\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_RejectsInvalidAuthSettings(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ISRS_AUTH_TOKENTTLMINUTES", "0")

	_, err := Load()
	require.Error(t, err)
}
