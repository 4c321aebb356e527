package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/duskscan/dusk/internal/config"
	"github.com/duskscan/dusk/internal/domain"
)

func init() {
	color.NoColor = true
}

func testThresholds() config.ThresholdConfig {
	return config.ThresholdConfig{WarnPercent: 70, CritPercent: 90}
}

func TestRenderScan(t *testing.T) {
	result := &domain.ScanResult{
		ID:        4,
		RootPath:  "/data",
		ScannedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Depth:     1,
		Volume: domain.VolumeInfo{
			TotalBytes: 1024 * 1024 * 1024,
			UsedBytes:  512 * 1024 * 1024,
			FreeBytes:  512 * 1024 * 1024,
			Filesystem: "apfs",
			MountPath:  "/",
		},
		TopDirs: []domain.SizedEntry{
			{Path: "/data/logs", SizeBytes: 300 * 1024 * 1024},
		},
		MinFileSizeBytes: 100 * 1024 * 1024,
		Warnings:         []string{"large files unavailable: index disabled"},
	}

	var b strings.Builder
	renderScan(&b, result, testThresholds())
	out := b.String()

	for _, want := range []string{
		"Disk usage for /data (scan #4)",
		"Volume / (apfs)",
		"50.0%",
		"/data/logs",
		"(none found)",
		"Warning: large files unavailable: index disabled",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderScan_EmptySections(t *testing.T) {
	result := &domain.ScanResult{
		RootPath:  "/data",
		ScannedAt: time.Now(),
		Volume:    domain.VolumeInfo{TotalBytes: 100, UsedBytes: 50, FreeBytes: 50},
	}

	var b strings.Builder
	renderScan(&b, result, testThresholds())
	out := b.String()

	if !strings.Contains(out, "(none measured)") {
		t.Errorf("empty dir section not marked:\n%s", out)
	}
	if strings.Contains(out, "scan #") {
		t.Errorf("unsaved scan should not show an id:\n%s", out)
	}
}

func TestRenderTrend(t *testing.T) {
	older := &domain.ScanResult{
		RootPath:  "/data",
		ScannedAt: time.Date(2026, 8, 19, 12, 0, 0, 0, time.UTC),
		TopDirs: []domain.SizedEntry{
			{Path: "/data/logs", SizeBytes: 500 * 1024 * 1024},
		},
	}
	newer := &domain.ScanResult{
		RootPath:  "/data",
		ScannedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		TopDirs: []domain.SizedEntry{
			{Path: "/data/logs", SizeBytes: 100 * 1024 * 1024},
			{Path: "/data/tmp", SizeBytes: 50 * 1024 * 1024},
		},
	}

	trend, err := domain.Compare(older, newer)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	var b strings.Builder
	renderTrend(&b, trend)
	out := b.String()

	for _, want := range []string{
		"Trend since",
		"-400 MiB",
		"/data/logs",
		"+50 MiB",
		"new",
		"Total: -350 MiB",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHistory_Empty(t *testing.T) {
	var b strings.Builder
	renderHistory(&b, nil)
	if !strings.Contains(b.String(), "No scans recorded yet") {
		t.Errorf("empty history not reported: %s", b.String())
	}
}

func TestSignedBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{1024, "+1.0 KiB"},
		{-1024, "-1.0 KiB"},
		{0, "±0 B"},
	}
	for _, tt := range tests {
		if got := signedBytes(tt.n); got != tt.want {
			t.Errorf("signedBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
