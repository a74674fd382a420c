package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Backend names selectable via the "backend" key.
const (
	BackendLirc  = "lirc"
	BackendFiles = "files"
)

// Config represents the bridge configuration
type Config struct {
	// Backend selects the IR back-end: "lirc" or "files"
	Backend string `mapstructure:"backend"`

	// Lirc daemon configuration (lirc backend)
	LircSocket string `mapstructure:"lirc_socket"`

	// Remote definition configuration (files backend)
	RemotesDir string `mapstructure:"remotes_dir"`

	// Transmitter device for the files backend
	TransmitDevice string `mapstructure:"transmit_device"`

	// Icon directory for command icons
	IconsDir string `mapstructure:"icons_dir"`

	// Execution history configuration
	HistoryEnabled bool   `mapstructure:"history_enabled"`
	HistoryPath    string `mapstructure:"history_path"`

	// Local API server configuration
	APIHost         string `mapstructure:"api_host"`
	APIPort         int    `mapstructure:"api_port"`
	APIReadTimeout  int    `mapstructure:"api_read_timeout"`  // seconds
	APIWriteTimeout int    `mapstructure:"api_write_timeout"` // seconds

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Backend:         BackendLirc,
		LircSocket:      "/var/run/lirc/lircd",
		RemotesDir:      "/etc/ir-hub-bridge/remotes",
		TransmitDevice:  "/dev/lirc0",
		IconsDir:        "/usr/share/ir-hub-bridge/icons",
		HistoryEnabled:  true,
		HistoryPath:     "./ir-bridge.db",
		APIHost:         "127.0.0.1",
		APIPort:         8082,
		APIReadTimeout:  30,
		APIWriteTimeout: 30,
		LogLevel:        "info",
	}
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/ir-hub-bridge")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".ir-hub-bridge"))
		}
	}

	v.SetEnvPrefix("IRBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values with viper
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("backend", cfg.Backend)
	v.SetDefault("lirc_socket", cfg.LircSocket)
	v.SetDefault("remotes_dir", cfg.RemotesDir)
	v.SetDefault("transmit_device", cfg.TransmitDevice)
	v.SetDefault("icons_dir", cfg.IconsDir)
	v.SetDefault("history_enabled", cfg.HistoryEnabled)
	v.SetDefault("history_path", cfg.HistoryPath)
	v.SetDefault("api_host", cfg.APIHost)
	v.SetDefault("api_port", cfg.APIPort)
	v.SetDefault("api_read_timeout", cfg.APIReadTimeout)
	v.SetDefault("api_write_timeout", cfg.APIWriteTimeout)
	v.SetDefault("log_level", cfg.LogLevel)
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLirc, BackendFiles:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendLirc, BackendFiles, c.Backend)
	}

	if c.Backend == BackendLirc && c.LircSocket == "" {
		return fmt.Errorf("lirc_socket is required for the lirc backend")
	}
	if c.Backend == BackendFiles && c.RemotesDir == "" {
		return fmt.Errorf("remotes_dir is required for the files backend")
	}
	if c.Backend == BackendFiles && c.TransmitDevice == "" {
		return fmt.Errorf("transmit_device is required for the files backend")
	}

	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("api_port must be between 1 and 65535, got %d", c.APIPort)
	}
	if c.APIReadTimeout <= 0 {
		return fmt.Errorf("api_read_timeout must be positive")
	}
	if c.APIWriteTimeout <= 0 {
		return fmt.Errorf("api_write_timeout must be positive")
	}

	if c.HistoryEnabled && c.HistoryPath == "" {
		return fmt.Errorf("history_path is required when history is enabled")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	return nil
}
