package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment profiles.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// DevSecret signs sessions when no secret is configured outside production.
const DevSecret = "dev-secret-key-change-in-production"

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	App struct {
		Env string
	}
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Auth struct {
		Secret       string
		SessionTTL   time.Duration
		CookieName   string
		CookieSecure bool
	}
	Export struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", EnvDevelopment)
	v.SetDefault("server.addr", "0.0.0.0:5000")
	v.SetDefault("database.path", "data/todos.db")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.sessionttl", 7*24*time.Hour)
	v.SetDefault("auth.cookiename", "todo_session")
	v.SetDefault("auth.cookiesecure", false)
	v.SetDefault("export.bucket", "")
	v.SetDefault("export.keyprefix", "dashboard-snapshots")
	v.SetDefault("export.region", "us-east-1")
	v.SetDefault("export.endpoint", "")
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// normalize applies the per-environment rules on top of the raw values.
func (c *Config) normalize() error {
	c.App.Env = strings.ToLower(strings.TrimSpace(c.App.Env))
	switch c.App.Env {
	case EnvDevelopment, EnvProduction:
	case EnvTesting:
		c.Database.Path = ":memory:"
	default:
		return fmt.Errorf("unknown app env %q", c.App.Env)
	}

	c.Auth.Secret = strings.TrimSpace(c.Auth.Secret)
	if c.Auth.Secret == "" {
		if c.App.Env == EnvProduction {
			return fmt.Errorf("auth secret is required in production")
		}
		c.Auth.Secret = DevSecret
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth session ttl must be positive, got %s", c.Auth.SessionTTL)
	}
	if strings.TrimSpace(c.Auth.CookieName) == "" {
		return fmt.Errorf("auth cookie name is required")
	}
	return nil
}

// UsesDevSecret reports whether sessions are signed with the built-in secret.
func (c Config) UsesDevSecret() bool {
	return c.Auth.Secret == DevSecret
}

// loadDotEnv copies KEY=VALUE lines from path into the environment without
// overriding variables that are already set.
func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
