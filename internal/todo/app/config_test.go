package app

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/todosdk"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"TODO_CONFIG_FILE", "ENV", "LOG_LEVEL", "LOG_FORMAT", "PORT", "DATABASE_FILE",
	"JWT_SECRET", "JWT_REFRESH_SECRET", "JWT_ISSUER", "PASSWORD_HASH_COST",
	"ADMIN_EMAIL", "ADMIN_PASSWORD", "TRASH_RETENTION", "HOUSEKEEPING_INTERVAL",
	"SHUTDOWN_GRACE_PERIOD", "TRUST_PROXY_HEADERS",
}

// clearConfigEnv blanks every key LoadConfig reads; empty counts as unset.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func validConfig() Config {
	cfg := defaultConfig()
	cfg.Env = "prod"
	cfg.JWTSecret = "access-secret-0123456789abcdef0123"
	cfg.JWTRefreshSecret = "refresh-secret-0123456789abcdef012"
	return cfg
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 4000, cfg.Port)
	require.Equal(t, "todo.db", cfg.DatabaseFile)
	require.Equal(t, 10, cfg.PasswordHashCost)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Zero(t, cfg.TrashRetention)
}

func TestLoadConfigLayers(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "todo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
env = "staging"
port = 5000
database_file = "/data/from-file.db"
trash_retention = "720h"
`), 0o600))

	t.Setenv("TODO_CONFIG_FILE", path)
	t.Setenv("PORT", "6000")
	t.Setenv("HOUSEKEEPING_INTERVAL", "15")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "staging", cfg.Env)
	require.Equal(t, "/data/from-file.db", cfg.DatabaseFile)
	require.Equal(t, 720*time.Hour, cfg.TrashRetention)
	require.Equal(t, 6000, cfg.Port, "environment beats the file")
	require.Equal(t, 15*time.Minute, cfg.HousekeepingInterval, "bare integers are minutes")
}

func TestLoadConfigBadFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = ="), 0o600))
	t.Setenv("TODO_CONFIG_FILE", path)

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigMalformedEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ENV", "prod")
	t.Setenv("JWT_SECRET", "access-secret-0123456789abcdef0123")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret-0123456789abcdef012")
	t.Setenv("PORT", "80o0")
	t.Setenv("PASSWORD_HASH_COST", "twelve")
	t.Setenv("TRASH_RETENTION", "30 days")
	t.Setenv("TRUST_PROXY_HEADERS", "sometimes")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 4000, cfg.Port, "bad values keep the previous layer")

	err = cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"PORT", "PASSWORD_HASH_COST", "TRASH_RETENTION", "TRUST_PROXY_HEADERS"} {
		require.ErrorContains(t, err, key)
	}
}

func TestLoadConfigTrustProxyHeaders(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.False(t, cfg.TrustProxyHeaders)

	t.Setenv("TRUST_PROXY_HEADERS", "true")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.TrustProxyHeaders)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := map[string]func(*Config){
		"missing access secret":  func(c *Config) { c.JWTSecret = "" },
		"missing refresh secret": func(c *Config) { c.JWTRefreshSecret = "" },
		"equal secrets":          func(c *Config) { c.JWTRefreshSecret = c.JWTSecret },
		"unknown env":            func(c *Config) { c.Env = "qa" },
		"bad port":               func(c *Config) { c.Port = 0 },
		"cheap bcrypt":           func(c *Config) { c.PasswordHashCost = 4 },
		"half admin":             func(c *Config) { c.AdminEmail = "root@example.com" },
		"negative retention":     func(c *Config) { c.TrashRetention = -time.Hour },
		"no grace period":        func(c *Config) { c.ShutdownGracePeriod = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	t.Run("cheap bcrypt allowed in test", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "test"
		cfg.PasswordHashCost = 4
		require.NoError(t, cfg.Validate())
	})
}

func TestFillEphemeralSecrets(t *testing.T) {
	cfg := defaultConfig()
	filled, err := cfg.fillEphemeralSecrets()
	require.NoError(t, err)
	require.True(t, filled)
	require.NotEmpty(t, cfg.JWTSecret)
	require.NotEqual(t, cfg.JWTSecret, cfg.JWTRefreshSecret)
	require.NoError(t, cfg.Validate())

	prod := defaultConfig()
	prod.Env = "prod"
	filled, err = prod.fillEphemeralSecrets()
	require.NoError(t, err)
	require.False(t, filled)
	require.Error(t, prod.Validate())
}

func TestNewSeedsAdmin(t *testing.T) {
	cfg := defaultConfig()
	cfg.Env = "test"
	cfg.LogLevel = "error"
	cfg.DatabaseFile = ":memory:"
	cfg.PasswordHashCost = 4
	cfg.AdminEmail = "root@example.com"
	cfg.AdminPassword = "admin-pass-123"

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	client := todosdk.NewSDKClient(srv.URL)
	sess, err := client.Authenticate(context.Background(), cfg.AdminEmail, cfg.AdminPassword)
	require.NoError(t, err)
	require.Equal(t, "admin", sess.User().Role)

	_, err = sess.CreateHoliday(context.Background(), todosdk.CreateHolidayRequest{Title: "New Year", Date: "2026-01-01"})
	require.NoError(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	require.Equal(t, ":memory:", sqliteDSN(":memory:"))
	require.Contains(t, sqliteDSN("/data/todo.db"), "file:/data/todo.db?")
	require.Contains(t, sqliteDSN("/data/todo.db"), "_pragma=foreign_keys(1)")
}
