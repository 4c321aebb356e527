package domain

import (
	"reflect"
	"testing"
)

func TestVolumeInfo_Classify(t *testing.T) {
	const warn, crit = 70.0, 90.0

	tests := []struct {
		name string
		used int64
		want UsageLevel
	}{
		{name: "empty volume", used: 0, want: UsageGreen},
		{name: "just under warn", used: 699, want: UsageGreen},
		{name: "at warn", used: 700, want: UsageYellow},
		{name: "between warn and crit", used: 850, want: UsageYellow},
		{name: "at crit", used: 900, want: UsageRed},
		{name: "full", used: 1000, want: UsageRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := VolumeInfo{
				TotalBytes: 1000,
				UsedBytes:  tt.used,
				FreeBytes:  1000 - tt.used,
			}
			if got := v.Classify(warn, crit); got != tt.want {
				t.Errorf("Classify(%d used) = %v, want %v", tt.used, got, tt.want)
			}
		})
	}
}

func TestVolumeInfo_UsedPercent_ZeroTotal(t *testing.T) {
	v := VolumeInfo{}
	if got := v.UsedPercent(); got != 0 {
		t.Errorf("UsedPercent() on zero-total volume = %v, want 0", got)
	}
}

func TestSortEntries(t *testing.T) {
	entries := []SizedEntry{
		{Path: "/data/b", SizeBytes: 100},
		{Path: "/data/c", SizeBytes: 500},
		{Path: "/data/a", SizeBytes: 100},
		{Path: "/data/d", SizeBytes: 200},
	}

	SortEntries(entries)

	want := []SizedEntry{
		{Path: "/data/c", SizeBytes: 500},
		{Path: "/data/d", SizeBytes: 200},
		{Path: "/data/a", SizeBytes: 100},
		{Path: "/data/b", SizeBytes: 100},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("SortEntries() = %v, want %v", entries, want)
	}
}

func TestScanResult_TotalScannedBytes(t *testing.T) {
	r := &ScanResult{
		TopDirs: []SizedEntry{
			{Path: "/data/logs", SizeBytes: 300},
			{Path: "/data/cache", SizeBytes: 200},
		},
		LargeFiles: []SizedEntry{
			{Path: "/data/logs/big.log", SizeBytes: 9999},
		},
	}
	if got := r.TotalScannedBytes(); got != 500 {
		t.Errorf("TotalScannedBytes() = %d, want 500", got)
	}
}

func TestScanResult_Degraded(t *testing.T) {
	r := &ScanResult{}
	if r.Degraded() {
		t.Error("fresh result should not be degraded")
	}
	r.LargeFilesDegraded = true
	if !r.Degraded() {
		t.Error("result with a degraded section should report Degraded()")
	}
}
