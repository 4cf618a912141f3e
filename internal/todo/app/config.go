package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config is loaded in layers: defaults, then the optional TOML file named by
// TODO_CONFIG_FILE, then the process environment (which a .env file may
// seed without overriding).
type Config struct {
	Env       string `toml:"env"`        // dev, test, staging, prod (default: dev)
	LogLevel  string `toml:"log_level"`  // debug, info, warn, error (default: info)
	LogFormat string `toml:"log_format"` // json, text (default: json)
	Port      int    `toml:"port"`       // HTTP port (default: 4000)

	DatabaseFile string `toml:"database_file"` // SQLite path, ":memory:" allowed (default: todo.db)

	JWTSecret        string `toml:"jwt_secret"`         // Required outside dev/test
	JWTRefreshSecret string `toml:"jwt_refresh_secret"` // Required outside dev/test, must differ from JWTSecret
	Issuer           string `toml:"issuer"`             // iss claim (default: taskboard)

	PasswordHashCost int `toml:"password_hash_cost"` // bcrypt cost (default: 10)

	AdminEmail    string `toml:"admin_email"`    // Optional: bootstrap admin
	AdminPassword string `toml:"admin_password"` // Optional: bootstrap admin

	TrashRetention       time.Duration `toml:"trash_retention"`       // 0 keeps trash forever
	HousekeepingInterval time.Duration `toml:"housekeeping_interval"` // default: 1h
	ShutdownGracePeriod  time.Duration `toml:"shutdown_grace_period"` // default: 10s

	TrustProxyHeaders bool `toml:"trust_proxy_headers"` // key rate limits on X-Forwarded-For (default: false)

	// parseErrs holds environment values that did not parse. Validate
	// reports them with everything else.
	parseErrs []error
}

func defaultConfig() Config {
	return Config{
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 4000,
		DatabaseFile:         "todo.db",
		Issuer:               "taskboard",
		PasswordHashCost:     cryptox.DefaultPasswordCost,
		HousekeepingInterval: time.Hour,
		ShutdownGracePeriod:  10 * time.Second,
	}
}

// LoadConfig builds the configuration. Only an unreadable or malformed
// config file is an error here; bad environment values and semantic checks
// surface in Validate.
func LoadConfig() (Config, error) {
	// A missing .env is normal in containers.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv("TODO_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	env := &envReader{}
	cfg.Env = env.getString("ENV", cfg.Env)
	cfg.LogLevel = env.getString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = env.getString("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = env.getInt("PORT", cfg.Port)
	cfg.DatabaseFile = env.getString("DATABASE_FILE", cfg.DatabaseFile)
	cfg.JWTSecret = env.getString("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTRefreshSecret = env.getString("JWT_REFRESH_SECRET", cfg.JWTRefreshSecret)
	cfg.Issuer = env.getString("JWT_ISSUER", cfg.Issuer)
	cfg.PasswordHashCost = env.getInt("PASSWORD_HASH_COST", cfg.PasswordHashCost)
	cfg.AdminEmail = env.getString("ADMIN_EMAIL", cfg.AdminEmail)
	cfg.AdminPassword = env.getString("ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.TrashRetention = env.getDuration("TRASH_RETENTION", cfg.TrashRetention)
	cfg.HousekeepingInterval = env.getDuration("HOUSEKEEPING_INTERVAL", cfg.HousekeepingInterval)
	cfg.ShutdownGracePeriod = env.getDuration("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)
	cfg.TrustProxyHeaders = env.getBool("TRUST_PROXY_HEADERS", cfg.TrustProxyHeaders)
	cfg.parseErrs = env.errs

	return cfg, nil
}

// IsLocal reports whether the config is for a developer machine or a test
// run, where missing secrets may be generated.
func (c Config) IsLocal() bool {
	return c.Env == "dev" || c.Env == "test"
}

// fillEphemeralSecrets generates any missing JWT secret in dev/test and
// reports whether it did. Tokens signed with them die with the process.
func (c *Config) fillEphemeralSecrets() (bool, error) {
	if !c.IsLocal() {
		return false, nil
	}

	filled := false
	for _, secret := range []*string{&c.JWTSecret, &c.JWTRefreshSecret} {
		if *secret != "" {
			continue
		}
		token, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return false, err
		}
		*secret = token
		filled = true
	}
	return filled, nil
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)

	switch c.Env {
	case "dev", "test", "staging", "prod":
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of dev, test, staging, prod, got %q", c.Env))
	}

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if strings.TrimSpace(c.DatabaseFile) == "" {
		errs = append(errs, errors.New("DATABASE_FILE is required"))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTRefreshSecret == "" {
		errs = append(errs, errors.New("JWT_REFRESH_SECRET is required"))
	}
	if c.JWTSecret != "" && c.JWTSecret == c.JWTRefreshSecret {
		errs = append(errs, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ"))
	}

	minCost := cryptox.DefaultPasswordCost
	if c.Env == "test" {
		minCost = bcrypt.MinCost
	}
	if c.PasswordHashCost < minCost || c.PasswordHashCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("PASSWORD_HASH_COST must be between %d and %d, got %d",
			minCost, bcrypt.MaxCost, c.PasswordHashCost))
	}

	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}

	if c.TrashRetention < 0 {
		errs = append(errs, errors.New("TRASH_RETENTION must not be negative"))
	}
	if c.TrashRetention > 0 && c.HousekeepingInterval <= 0 {
		errs = append(errs, errors.New("HOUSEKEEPING_INTERVAL must be positive when TRASH_RETENTION is set"))
	}
	if c.ShutdownGracePeriod <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_GRACE_PERIOD must be positive"))
	}

	return errors.Join(errs...)
}

// envReader overlays environment variables on config values. Values that
// are set but do not parse keep the current value and are collected in errs.
type envReader struct {
	errs []error
}

func (e *envReader) getString(key, current string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return current
}

func (e *envReader) getInt(key string, current int) int {
	value := os.Getenv(key)
	if value == "" {
		return current
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be an integer, got %q", key, value))
		return current
	}
	return n
}

func (e *envReader) getBool(key string, current bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return current
	}

	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be true or false, got %q", key, value))
		return current
	}
	return b
}

// getDuration accepts Go durations ("90s", "1h") and bare integers as minutes.
func (e *envReader) getDuration(key string, current time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return current
	}

	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	e.errs = append(e.errs, fmt.Errorf("%s must be a duration like 30m or a number of minutes, got %q", key, value))
	return current
}
