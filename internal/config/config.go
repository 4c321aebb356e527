package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Config represents the entire application configuration
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Scan       ScanConfig       `mapstructure:"scan"`
	Probes     ProbeConfig      `mapstructure:"probes"`
	Thresholds ThresholdConfig  `mapstructure:"thresholds"`
	History    HistoryConfig    `mapstructure:"history"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// DatabaseConfig contains history database settings
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ScanConfig contains default scan parameters
type ScanConfig struct {
	Depth       int    `mapstructure:"depth"`
	TopDirs     int    `mapstructure:"top_dirs"`
	LargeFiles  int    `mapstructure:"large_files"`
	MinFileSize string `mapstructure:"min_file_size"`
}

// ProbeConfig contains per-probe bounded waits
type ProbeConfig struct {
	VolumeTimeout    string `mapstructure:"volume_timeout"`
	DirSizeTimeout   string `mapstructure:"dir_size_timeout"`
	LargeFileTimeout string `mapstructure:"large_file_timeout"`
}

// ThresholdConfig contains the usage classification thresholds. These
// are policy defaults, not hard contracts.
type ThresholdConfig struct {
	WarnPercent float64 `mapstructure:"warn_percent"`
	CritPercent float64 `mapstructure:"crit_percent"`
}

// HistoryConfig contains retention settings
type HistoryConfig struct {
	KeepPerPath int `mapstructure:"keep_per_path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from the given file path, or from
// ~/.dusk/config.yaml when path is empty. A missing config file is not
// an error; defaults apply. DUSK_* environment variables override.
func Load(configPath string) (*Config, error) {
	explicit := configPath != ""
	if explicit {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(filepath.Join(defaultHome(), ".dusk"))
	}

	// Set defaults
	viper.SetDefault("database.path", filepath.Join(defaultHome(), ".dusk", "dusk.db"))
	viper.SetDefault("scan.depth", 1)
	viper.SetDefault("scan.top_dirs", 20)
	viper.SetDefault("scan.large_files", 10)
	viper.SetDefault("scan.min_file_size", "100MB")
	viper.SetDefault("probes.volume_timeout", "10s")
	viper.SetDefault("probes.dir_size_timeout", "5m")
	viper.SetDefault("probes.large_file_timeout", "30s")
	viper.SetDefault("thresholds.warn_percent", 70)
	viper.SetDefault("thresholds.crit_percent", 90)
	viper.SetDefault("history.keep_per_path", 10)
	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.format", "console")

	viper.SetEnvPrefix("DUSK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || (!errors.As(err, &notFound) && !os.IsNotExist(err)) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Scan.Depth < 1 {
		return fmt.Errorf("scan.depth must be at least 1")
	}
	if c.Scan.TopDirs < 1 {
		return fmt.Errorf("scan.top_dirs must be positive")
	}
	if c.Scan.LargeFiles < 1 {
		return fmt.Errorf("scan.large_files must be positive")
	}
	if _, err := humanize.ParseBytes(c.Scan.MinFileSize); err != nil {
		return fmt.Errorf("invalid scan.min_file_size: %w", err)
	}

	for key, val := range map[string]string{
		"probes.volume_timeout":     c.Probes.VolumeTimeout,
		"probes.dir_size_timeout":   c.Probes.DirSizeTimeout,
		"probes.large_file_timeout": c.Probes.LargeFileTimeout,
	} {
		if _, err := time.ParseDuration(val); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	if c.Thresholds.WarnPercent <= 0 || c.Thresholds.WarnPercent > 100 {
		return fmt.Errorf("thresholds.warn_percent must be between 1 and 100")
	}
	if c.Thresholds.CritPercent <= 0 || c.Thresholds.CritPercent > 100 {
		return fmt.Errorf("thresholds.crit_percent must be between 1 and 100")
	}
	if c.Thresholds.WarnPercent >= c.Thresholds.CritPercent {
		return fmt.Errorf("thresholds.warn_percent must be below thresholds.crit_percent")
	}

	if c.History.KeepPerPath < 1 {
		return fmt.Errorf("history.keep_per_path must be positive")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// MinFileSizeBytes returns the default large-file threshold in bytes.
func (c *ScanConfig) MinFileSizeBytes() int64 {
	size, err := humanize.ParseBytes(c.MinFileSize)
	if err != nil {
		return 100 * 1024 * 1024
	}
	return int64(size)
}

// GetVolumeTimeout returns the volume probe timeout as time.Duration
func (c *ProbeConfig) GetVolumeTimeout() time.Duration {
	d, _ := time.ParseDuration(c.VolumeTimeout)
	if d == 0 {
		return 10 * time.Second
	}
	return d
}

// GetDirSizeTimeout returns the directory sizing timeout as time.Duration
func (c *ProbeConfig) GetDirSizeTimeout() time.Duration {
	d, _ := time.ParseDuration(c.DirSizeTimeout)
	if d == 0 {
		return 5 * time.Minute
	}
	return d
}

// GetLargeFileTimeout returns the large file search timeout as time.Duration
func (c *ProbeConfig) GetLargeFileTimeout() time.Duration {
	d, _ := time.ParseDuration(c.LargeFileTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
