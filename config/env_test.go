package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFiles_Precedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{"app_port": "9000", "db_driver": "postgres", "auto_migrate": true}`)
	envPath := writeFile(t, dir, ".env", "APP_PORT=9100\nSEED_DIR=\"fixtures\"\n# comment\n")

	t.Setenv("RATE_LIMIT_PER_MINUTE", "15")
	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "9100", get("APP_PORT", ""), ".env overrides app.json")
	assert.Equal(t, "postgres", get("DB_DRIVER", ""))
	assert.Equal(t, "true", get("AUTO_MIGRATE", ""))
	assert.Equal(t, "fixtures", get("SEED_DIR", ""))
	assert.Equal(t, "15", get("RATE_LIMIT_PER_MINUTE", ""), "environment overrides files")
}

func TestLoadFromFiles_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".env")))

	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
	assert.Equal(t, defaultDatabaseDriver, get("DB_DRIVER", ""))
}

func TestLoadFromFiles_BadJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{not json`)

	assert.Error(t, loadFromFiles(jsonPath, filepath.Join(dir, ".env")))
}

func TestTypedGetters(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "DB_DRIVER=oracle\nSHUTDOWN_TIMEOUT=nonsense\nMAX_BODY_BYTES=-1\nRATE_LIMIT_PER_MINUTE=abc\n")
	require.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), envPath))
	loadOnce.Do(func() {})

	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())
	assert.Equal(t, 30*time.Second, ShutdownTimeout())
	assert.Equal(t, int64(defaultMaxBodyBytes), MaxBodyBytes())
	assert.Equal(t, defaultRateLimit, RateLimitPerMinute())
	assert.False(t, AutoMigrate())
}
