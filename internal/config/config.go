// Package config provides configuration management for the trading journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"trade-journal/internal/logging"
)

// FileName is the base name of the configuration file.
const FileName = "config"

// Config holds all application configuration.
type Config struct {
	Account AccountConfig `mapstructure:"account"`
	Journal JournalConfig `mapstructure:"journal"`
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`

	// Dir is the directory the configuration was loaded from.
	Dir string `mapstructure:"-"`
}

// AccountConfig holds the defaults applied to new accounts and trades.
type AccountConfig struct {
	DefaultName     string  `mapstructure:"default_name"`
	DefaultBalance  float64 `mapstructure:"default_balance"`
	DefaultCurrency string  `mapstructure:"default_currency"`
	DefaultLeverage int     `mapstructure:"default_leverage"`
	RiskPerTrade    float64 `mapstructure:"risk_per_trade"` // percent of balance
}

// JournalConfig holds storage and session configuration.
type JournalConfig struct {
	OwnerID   string `mapstructure:"owner_id"`
	DBPath    string `mapstructure:"db_path"`
	BatchSize int    `mapstructure:"batch_size"`
	Workers   int    `mapstructure:"workers"`
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	DevMode        bool     `mapstructure:"dev_mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trade-journal"
	}
	return filepath.Join(home, ".config", "trade-journal")
}

// Path returns the configuration file path inside configDir.
func Path(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, FileName+".toml")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config file is replaced by the commented template.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	// .env files never override variables already set in the environment
	_ = godotenv.Load(filepath.Join(configDir, ".env"))
	_ = godotenv.Load()

	cfg := &Config{Dir: configDir}
	if err := loadConfigFile(configDir, FileName, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Journal.DBPath == "" {
		cfg.Journal.DBPath = filepath.Join(configDir, "journal.db")
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = filepath.Join(configDir, "logs", "journal.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("account.default_name", "Main Account")
	v.SetDefault("account.default_balance", 10000.0)
	v.SetDefault("account.default_currency", "USD")
	v.SetDefault("account.default_leverage", 50)
	v.SetDefault("account.risk_per_trade", 1.0)

	v.SetDefault("journal.owner_id", "local")
	v.SetDefault("journal.db_path", "")
	v.SetDefault("journal.batch_size", 50)
	v.SetDefault("journal.workers", 4)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
	v.SetDefault("ui.time_format", "15:04")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", "")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Config file not found, create template and read it back
		if err := createTemplateConfig(configDir, name); err != nil {
			return err
		}
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("JOURNAL_OWNER_ID"); v != "" {
		cfg.Journal.OwnerID = v
	}
	if v := os.Getenv("JOURNAL_DB_PATH"); v != "" {
		cfg.Journal.DBPath = v
	}
	if v := os.Getenv("JOURNAL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("JOURNAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Journal.OwnerID) == "" {
		return fmt.Errorf("owner_id must not be empty")
	}
	if c.Account.DefaultBalance < 0 {
		return fmt.Errorf("default_balance must be non-negative")
	}
	if len(c.Account.DefaultCurrency) != 3 {
		return fmt.Errorf("default_currency must be a three-letter code: %q", c.Account.DefaultCurrency)
	}
	if c.Account.DefaultLeverage < 1 {
		return fmt.Errorf("default_leverage must be at least 1")
	}
	if c.Account.RiskPerTrade <= 0 || c.Account.RiskPerTrade > 100 {
		return fmt.Errorf("risk_per_trade must be between 0 and 100")
	}
	if c.Journal.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	if c.Journal.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", c.Logging.Level)
	}
	return nil
}

// LogConfig converts the logging section for the logging package.
func (c *Config) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      c.Logging.Level,
		Console:    c.Logging.Console,
		File:       c.Logging.File,
		FilePath:   c.Logging.FilePath,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
	}
}

// SessionPath returns the path of the local session state file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, "session.yaml")
}
