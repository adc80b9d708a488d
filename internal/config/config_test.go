package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("AUDIT_DB_PATH", "/tmp/audit.sqlite")
	t.Setenv("POLICY_PATH", "/etc/sqlgate/policy.yaml")
	t.Setenv("REAL_DB_PATH", "/var/lib/sqlgate/real.duckdb")
	t.Setenv("SANDBOX_SEED_ROWS", "50")
	t.Setenv("EXEC_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_RPS", "10")
	t.Setenv("RATE_LIMIT_BURST", "20")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/audit.sqlite", cfg.AuditDBPath)
	assert.Equal(t, "/etc/sqlgate/policy.yaml", cfg.PolicyPath)
	assert.Equal(t, "/var/lib/sqlgate/real.duckdb", cfg.RealDBPath)
	assert.Equal(t, 50, cfg.SandboxSeedRows)
	assert.Equal(t, 5*time.Second, cfg.ExecTimeout)
	assert.Equal(t, float64(10), cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"LISTEN_ADDR", "AUDIT_DB_PATH", "POLICY_PATH", "REAL_DB_PATH",
		"SANDBOX_SEED_ROWS", "EXEC_TIMEOUT", "RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "ENV",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "sqlgate_audit.sqlite", cfg.AuditDBPath)
	assert.Equal(t, 20, cfg.SandboxSeedRows)
	assert.Equal(t, 30*time.Second, cfg.ExecTimeout)
	assert.Equal(t, float64(100), cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.NotEmpty(t, cfg.Warnings, "missing policy path warns")
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("SANDBOX_SEED_ROWS", "zero")
	_, err := LoadFromEnv()
	require.Error(t, err)

	t.Setenv("SANDBOX_SEED_ROWS", "-5")
	_, err = LoadFromEnv()
	require.Error(t, err)

	t.Setenv("SANDBOX_SEED_ROWS", "")
	t.Setenv("EXEC_TIMEOUT", "soon")
	_, err = LoadFromEnv()
	require.Error(t, err)
}

func TestLoadFromEnv_ProductionRequiresPolicy(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("POLICY_PATH", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLICY_PATH")
}

func TestLoadFromEnv_ProductionRejectsCORSWildcard(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("POLICY_PATH", "/etc/sqlgate/policy.yaml")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS")
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		assert.Equal(t, tt.want, cfg.SlogLevel(), "level %q", tt.level)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nDOTENV_TEST_A=hello\nDOTENV_TEST_B=\"quoted\"\nDOTENV_TEST_C=fromfile\n\nnot-a-pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DOTENV_TEST_A", "")
	t.Setenv("DOTENV_TEST_B", "")
	// Pre-set values win over the file.
	t.Setenv("DOTENV_TEST_C", "preset")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "hello", os.Getenv("DOTENV_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("DOTENV_TEST_B"))
	assert.Equal(t, "preset", os.Getenv("DOTENV_TEST_C"))
}

func TestLoadDotEnv_MissingFileIsOK(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
