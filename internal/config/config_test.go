package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noEnvFile points Load at a path that does not exist so a developer's .env cannot leak in.
func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load(noEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, "3005", cfg.Port)
	assert.Equal(t, ":3005", cfg.Addr())
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.AuthRequired)
	assert.True(t, cfg.DBSchemaApply)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load(noEnvFile(t))

	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "8080")
	t.Setenv("AUTH_REQUIRED", "false")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load(noEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoad_EnvFile(t *testing.T) {
	// t.Setenv registers the restore; the unset lets godotenv fill the variable.
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("BCRYPT_COST", "")
	os.Unsetenv("BCRYPT_COST")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nBCRYPT_COST=4\n"), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("BCRYPT_COST", "99")

	_, err := Load(noEnvFile(t))

	assert.Error(t, err)
}
