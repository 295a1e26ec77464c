package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, the whois lookup client, the TLD
// registry, the watch loop, notifications and the optional metrics listener.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// Lookup configures how whois queries are performed
	Lookup struct {
		// Client selects the lookup backend: "system" runs the whois binary,
		// "net" queries the whois server directly over TCP
		Client string `env:"LOOKUP_CLIENT" env-default:"system" yaml:"client"`
		// Timeout bounds a single lookup
		Timeout time.Duration `env:"LOOKUP_TIMEOUT" env-default:"30s" yaml:"timeout"`
		// Binary is the whois executable used by the system client
		Binary string `env:"LOOKUP_BINARY" env-default:"whois" yaml:"binary"`
	} `yaml:"lookup"`

	// Registry configures the TLD registry
	Registry struct {
		// UserStore is the path of the user TLD store file. Empty selects
		// the per-user default under os.UserConfigDir
		UserStore string `env:"REGISTRY_USER_STORE" env-default:"" yaml:"userStore"`
	} `yaml:"registry"`

	// Watch configures the polling loop
	Watch struct {
		// Interval is the base polling interval in seconds, used while no
		// phase schedule applies
		Interval int64 `env:"WATCH_INTERVAL" env-default:"60" yaml:"interval"`
		// CountdownTick is how often the between-check countdown redraws
		CountdownTick time.Duration `env:"WATCH_COUNTDOWN_TICK" env-default:"1s" yaml:"countdownTick"`
	} `yaml:"watch"`

	// Notify configures mail notifications. Dispatch is enabled only when
	// every field is set
	Notify struct {
		// To is the recipient address
		To string `env:"NOTIFY_TO" env-default:"" yaml:"to"`
		// From is the sender address
		From string `env:"NOTIFY_FROM" env-default:"" yaml:"from"`
		// Host is the SMTP server hostname
		Host string `env:"NOTIFY_HOST" env-default:"" yaml:"host"`
		// Port is the SMTP server port
		Port int `env:"NOTIFY_PORT" env-default:"0" yaml:"port"`
		// Username for SMTP authentication
		Username string `env:"NOTIFY_USERNAME" env-default:"" yaml:"username"`
		// Password for SMTP authentication
		Password string `env:"NOTIFY_PASSWORD" env-default:"" yaml:"password"`
	} `yaml:"notify"`

	// Metrics configures the optional prometheus/pprof listener
	Metrics struct {
		// Addr is the address the listener binds to; empty keeps it off
		Addr string `env:"METRICS_ADDR" env-default:"" yaml:"addr"`
		// Path defines the URL path where metrics are exposed
		Path string `env:"METRICS_PATH" env-default:"/metrics" yaml:"path"`
	} `yaml:"metrics"`
}

// Load receives the path for yaml config file and returns a filled Config
// struct. A missing file is not an error: configuration then comes from the
// environment and defaults alone.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read environment: %w", err)
	}

	return &cfg, nil
}

// UserStorePath resolves the user TLD store location: the configured path
// when set, otherwise dropwatch/tlds under the per-user config directory.
func (c *Config) UserStorePath() (string, error) {
	if c.Registry.UserStore != "" {
		return c.Registry.UserStore, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve user config dir: %w", err)
	}

	return filepath.Join(dir, "dropwatch", "tlds"), nil
}
