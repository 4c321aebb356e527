package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadDefaults(t *testing.T) *Config {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadDefaults(t)

	if cfg.Scan.Depth != 1 || cfg.Scan.TopDirs != 20 || cfg.Scan.LargeFiles != 10 {
		t.Errorf("scan defaults = %+v", cfg.Scan)
	}
	if got := cfg.Scan.MinFileSizeBytes(); got != 100*1000*1000 {
		t.Errorf("MinFileSizeBytes() = %d, want 100MB", got)
	}
	if cfg.Thresholds.WarnPercent != 70 || cfg.Thresholds.CritPercent != 90 {
		t.Errorf("threshold defaults = %+v", cfg.Thresholds)
	}
	if cfg.History.KeepPerPath != 10 {
		t.Errorf("keep_per_path default = %d", cfg.History.KeepPerPath)
	}
	if cfg.Database.Path == "" || !strings.Contains(cfg.Database.Path, ".dusk") {
		t.Errorf("database path default = %q", cfg.Database.Path)
	}
	if cfg.Probes.GetVolumeTimeout() != 10*time.Second {
		t.Errorf("volume timeout = %v", cfg.Probes.GetVolumeTimeout())
	}
	if cfg.Probes.GetDirSizeTimeout() != 5*time.Minute {
		t.Errorf("dir size timeout = %v", cfg.Probes.GetDirSizeTimeout())
	}
	if cfg.Probes.GetLargeFileTimeout() != 30*time.Second {
		t.Errorf("large file timeout = %v", cfg.Probes.GetLargeFileTimeout())
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := loadDefaults(t)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "zero depth",
			mutate:  func(c *Config) { c.Scan.Depth = 0 },
			wantErr: "scan.depth",
		},
		{
			name:    "bad min file size",
			mutate:  func(c *Config) { c.Scan.MinFileSize = "lots" },
			wantErr: "min_file_size",
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Probes.VolumeTimeout = "soon" },
			wantErr: "volume_timeout",
		},
		{
			name:    "warn above crit",
			mutate:  func(c *Config) { c.Thresholds.WarnPercent = 95 },
			wantErr: "warn_percent",
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *Config) { c.Thresholds.CritPercent = 150 },
			wantErr: "crit_percent",
		},
		{
			name:    "zero keep",
			mutate:  func(c *Config) { c.History.KeepPerPath = 0 },
			wantErr: "keep_per_path",
		},
		{
			name:    "bad level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
