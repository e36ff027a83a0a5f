package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setTestEnv sets the minimal required environment for Load
func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "eventlane")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "eventlane_auth")
	t.Setenv("JWT_SECRET", "test-secret-key")
}

func TestLoad(t *testing.T) {
	setTestEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "test-secret-key", cfg.JWT.Secret)
	assert.Equal(t, 168*time.Hour, cfg.JWT.TokenExpiry)
	assert.Empty(t, cfg.Bootstrap.Email)
}

func TestLoad_MissingDatabase(t *testing.T) {
	t.Setenv("DB_HOST", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	setTestEnv(t)
	t.Setenv("JWT_SECRET", "abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 6 characters")
}

func TestLoad_CustomTokenExpiry(t *testing.T) {
	setTestEnv(t)
	t.Setenv("JWT_TOKEN_EXPIRY", "24h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenExpiry)
}

func TestLoad_BootstrapRequiresPassword(t *testing.T) {
	setTestEnv(t)
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "root@eventlane.io")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_CORSOrigins(t *testing.T) {
	setTestEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://eventlane.io, https://admin.eventlane.io")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://eventlane.io", "https://admin.eventlane.io"}, cfg.CORS.AllowedOrigins)
}

func TestDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db"
	cfg.Database.Port = 3306
	cfg.Database.User = "user"
	cfg.Database.Password = "pass"
	cfg.Database.DBName = "auth"

	assert.Equal(t, "user:pass@tcp(db:3306)/auth?parseTime=true&charset=utf8mb4", cfg.DSN())
}
