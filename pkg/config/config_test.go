package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory so Load cannot pick up
// a stray .env from the repo root.
func chdirTemp(t *testing.T) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestLoadWithoutEnvFile(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "colegio_licencias", cfg.Database.Name)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	assert.True(t, cfg.Exports.Enabled)
}

func TestLoadReadsProcessEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "licencias_test")
	t.Setenv("ADMIN_INITIAL_PASSWORD", "clave-inicial")
	t.Setenv("ENABLE_DASHBOARD_CACHE", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://colegio.example, https://admin.colegio.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "licencias_test", cfg.Database.Name)
	assert.Equal(t, "clave-inicial", cfg.Admin.InitialPassword)
	assert.True(t, cfg.Dashboard.CacheEnabled)
	assert.Equal(t, []string{"https://colegio.example", "https://admin.colegio.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadReadsEnvFile(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile(".env", []byte("PORT=7070\nJWT_SECRET=archivo\n"), 0o600))
	// godotenv exports the file into the process env; undo that so later
	// tests in the package see a clean environment.
	t.Cleanup(func() {
		_ = os.Unsetenv("PORT")
		_ = os.Unsetenv("JWT_SECRET")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "archivo", cfg.JWT.Secret)
}
