package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Engine    EngineConfig    `yaml:"engine"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type EngineConfig struct {
	// BodyWeightKg feeds the calorie estimator; 0 means the 70 kg default.
	BodyWeightKg float64 `yaml:"body_weight_kg"`
	// DefaultRestSeconds applies when a rest request carries no duration.
	DefaultRestSeconds int `yaml:"default_rest_seconds"`
	// DesktopNotify enables the D-Bus notification surface.
	DesktopNotify bool `yaml:"desktop_notify"`
	// NotifyEverySeconds coalesces countdown updates to the desktop
	// surface; 0 means the 5-second default.
	NotifyEverySeconds int `yaml:"notify_every_seconds"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix REPCLOCK_ and underscore-separated
// paths:
//
//	REPCLOCK_SERVER_HOST, REPCLOCK_SERVER_PORT,
//	REPCLOCK_DB_HOST, REPCLOCK_DB_PORT, REPCLOCK_DB_NAME,
//	REPCLOCK_DB_USER, REPCLOCK_DB_PASSWORD, REPCLOCK_DB_SSLMODE,
//	REPCLOCK_AUTH_API_KEY, REPCLOCK_BODY_WEIGHT_KG,
//	REPCLOCK_DEFAULT_REST_SECONDS
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPCLOCK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPCLOCK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPCLOCK_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("REPCLOCK_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("REPCLOCK_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REPCLOCK_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("REPCLOCK_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REPCLOCK_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("REPCLOCK_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("REPCLOCK_BODY_WEIGHT_KG"); v != "" {
		if kg, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.BodyWeightKg = kg
		}
	}
	if v := os.Getenv("REPCLOCK_DEFAULT_REST_SECONDS"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			cfg.Engine.DefaultRestSeconds = sec
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Engine.BodyWeightKg == 0 {
		cfg.Engine.BodyWeightKg = 70.0
	}
	if cfg.Engine.DefaultRestSeconds == 0 {
		cfg.Engine.DefaultRestSeconds = 90
	}
	if cfg.Engine.NotifyEverySeconds == 0 {
		cfg.Engine.NotifyEverySeconds = 5
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Engine.BodyWeightKg < 0 {
		return fmt.Errorf("engine.body_weight_kg must not be negative")
	}
	if c.Engine.DefaultRestSeconds < 0 {
		return fmt.Errorf("engine.default_rest_seconds must not be negative")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
