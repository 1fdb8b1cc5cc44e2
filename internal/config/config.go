// Package config provides configuration management for the advisor.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Selection SelectionConfig `mapstructure:"selection"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	UI        UIConfig        `mapstructure:"ui"`
}

// SelectionConfig holds strike-selection thresholds.
type SelectionConfig struct {
	IVHighThreshold   float64 `mapstructure:"iv_high_threshold"`
	IVLowThreshold    float64 `mapstructure:"iv_low_threshold"`
	ATMThresholdPct   float64 `mapstructure:"atm_threshold_pct"`
	MinOpenInterest   int64   `mapstructure:"min_open_interest"`
	MinVolume         int64   `mapstructure:"min_volume"`
	MinMarkPrice      float64 `mapstructure:"min_mark_price"`
	MinCreditPct      float64 `mapstructure:"min_credit_pct"`
	WidthLowPriceMax  int     `mapstructure:"width_low_price_max"`
	WidthMidPrice     int     `mapstructure:"width_mid_price"`
	WidthHighPriceMax int     `mapstructure:"width_high_price_max"`
	WidthTolerancePct float64 `mapstructure:"width_tolerance_pct"`
	DTETolerance      int     `mapstructure:"dte_tolerance"`
}

// ScoringConfig holds composite scoring weights.
type ScoringConfig struct {
	POPWeight             float64 `mapstructure:"pop_weight"`
	RiskRewardWeight      float64 `mapstructure:"rr_weight"`
	CreditWeight          float64 `mapstructure:"credit_weight"`
	LiquidityWeight       float64 `mapstructure:"liquidity_weight"`
	WidthEfficiencyWeight float64 `mapstructure:"width_efficiency_weight"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds SQLite storage configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// UIConfig holds CLI output configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/options-advisor"
	}
	return filepath.Join(home, ".config", "options-advisor")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	// A .env in the working directory overlays the process environment;
	// missing files are fine.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("selection.iv_high_threshold", 50.0)
	v.SetDefault("selection.iv_low_threshold", 25.0)
	v.SetDefault("selection.atm_threshold_pct", 2.0)
	v.SetDefault("selection.min_open_interest", 10)
	v.SetDefault("selection.min_volume", 5)
	v.SetDefault("selection.min_mark_price", 0.01)
	v.SetDefault("selection.min_credit_pct", 25.0)
	v.SetDefault("selection.width_low_price_max", 5)
	v.SetDefault("selection.width_mid_price", 5)
	v.SetDefault("selection.width_high_price_max", 10)
	v.SetDefault("selection.width_tolerance_pct", 0.20)
	v.SetDefault("selection.dte_tolerance", 3)

	v.SetDefault("scoring.pop_weight", 0.30)
	v.SetDefault("scoring.rr_weight", 0.30)
	v.SetDefault("scoring.credit_weight", 0.25)
	v.SetDefault("scoring.liquidity_weight", 0.10)
	v.SetDefault("scoring.width_efficiency_weight", 0.05)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.path", filepath.Join(DefaultConfigDir(), "advisor.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(DefaultConfigDir(), "logs", "advisor.log"))
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age_days", 30)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ADVISOR_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("ADVISOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ADVISOR_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("ADVISOR_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Selection.IVHighThreshold < 0 || c.Selection.IVHighThreshold > 100 {
		return fmt.Errorf("iv_high_threshold must be between 0 and 100")
	}
	if c.Selection.IVLowThreshold < 0 || c.Selection.IVLowThreshold > 100 {
		return fmt.Errorf("iv_low_threshold must be between 0 and 100")
	}
	if c.Selection.IVLowThreshold > c.Selection.IVHighThreshold {
		return fmt.Errorf("iv_low_threshold must not exceed iv_high_threshold")
	}
	if c.Selection.ATMThresholdPct <= 0 || c.Selection.ATMThresholdPct > 10 {
		return fmt.Errorf("atm_threshold_pct must be between 0 and 10")
	}
	if c.Selection.MinCreditPct < 0 || c.Selection.MinCreditPct > 100 {
		return fmt.Errorf("min_credit_pct must be between 0 and 100")
	}
	if c.Selection.WidthLowPriceMax < 1 || c.Selection.WidthHighPriceMax < 1 {
		return fmt.Errorf("spread width ceilings must be at least 1")
	}
	if c.Selection.WidthTolerancePct < 0 || c.Selection.WidthTolerancePct > 1 {
		return fmt.Errorf("width_tolerance_pct must be between 0 and 1")
	}

	weights := []float64{
		c.Scoring.POPWeight,
		c.Scoring.RiskRewardWeight,
		c.Scoring.CreditWeight,
		c.Scoring.LiquidityWeight,
		c.Scoring.WidthEfficiencyWeight,
	}
	for _, w := range weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("scoring weights must be between 0 and 1")
		}
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	return nil
}
