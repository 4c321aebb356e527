package docker

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/duskscan/dusk/internal/domain"
)

// fakeRunner implements port.Runner for testing
type fakeRunner struct {
	out     []byte
	err     error
	missing bool
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f.out, f.err
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/local/bin/" + name, nil
}

const sampleDF = `{
	"Images": [
		{"Repository": "postgres", "Tag": "16", "ID": "sha256:0123456789abcdef0123", "Size": "432MB", "UniqueSize": "400MB", "SharedSize": "32MB", "CreatedSince": "3 weeks ago", "Containers": "1"},
		{"Repository": "", "Tag": "", "ID": "sha256:feedfacecafebeef0000", "Size": "1.2GB", "UniqueSize": "1.2GB", "SharedSize": "0B", "CreatedSince": "5 months ago", "Containers": "0"}
	],
	"Containers": [
		{"Names": "db", "Image": "postgres:16", "ID": "aabbccddeeff00112233", "Size": "12MB (virtual 444MB)", "State": "running", "Status": "Up 2 days", "RunningFor": "2 days"}
	],
	"Volumes": [
		{"Name": "pgdata", "Size": "2.88GB", "Driver": "local", "Mountpoint": "/var/lib/docker/volumes/pgdata"}
	],
	"BuildCache": [
		{"CacheType": "regular", "Size": "150MB", "InUse": false},
		{"CacheType": "regular", "Size": "50MB", "InUse": true}
	]
}`

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{in: "0B", want: 0},
		{in: "", want: 0},
		{in: "512B", want: 512},
		{in: "5.2kB", want: 5200},
		{in: "178.3MB", want: 178300000},
		{in: "2.88GB", want: 2880000000},
		{in: "1TB", want: 1000000000000},
		{in: "garbage", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseSize(tt.in); got != tt.want {
				t.Errorf("parseSize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestClient_DiskUsage(t *testing.T) {
	c := NewClient(&fakeRunner{out: []byte(sampleDF)}, time.Second, zap.NewNop())

	report, err := c.DiskUsage(context.Background())
	if err != nil {
		t.Fatalf("DiskUsage() error: %v", err)
	}

	if len(report.Images) != 2 {
		t.Fatalf("images = %d, want 2", len(report.Images))
	}
	// Sorted by size descending: the dangling 1.2GB image first.
	if report.Images[0].Repository != "<none>" || report.Images[0].SizeBytes != 1200000000 {
		t.Errorf("Images[0] = %+v", report.Images[0])
	}
	if report.Images[1].ID != "sha256:0123456789ab" {
		t.Errorf("image id not truncated: %q", report.Images[1].ID)
	}

	if len(report.Containers) != 1 {
		t.Fatalf("containers = %d, want 1", len(report.Containers))
	}
	// Only the writable layer, not the virtual size.
	if report.Containers[0].SizeBytes != 12000000 {
		t.Errorf("container size = %d, want 12MB", report.Containers[0].SizeBytes)
	}

	o := report.Overview
	if o.ImagesTotal != 2 || o.ImagesActive != 1 {
		t.Errorf("image overview = %+v", o)
	}
	if o.ImagesReclaimable != 1200000000 {
		t.Errorf("reclaimable images = %d", o.ImagesReclaimable)
	}
	if o.ContainersActive != 1 {
		t.Errorf("active containers = %d", o.ContainersActive)
	}
	if o.VolumesSizeBytes != 2880000000 {
		t.Errorf("volumes size = %d", o.VolumesSizeBytes)
	}
	if o.BuildCacheTotal != 2 || o.BuildCacheSizeBytes != 200000000 {
		t.Errorf("build cache overview = %+v", o)
	}
	if o.BuildCacheReclaimable != 150000000 {
		t.Errorf("build cache reclaimable = %d", o.BuildCacheReclaimable)
	}
	if report.BuildCacheByType["regular"] != 200000000 {
		t.Errorf("build cache by type = %v", report.BuildCacheByType)
	}
}

func TestClient_DaemonDown(t *testing.T) {
	c := NewClient(&fakeRunner{err: errors.New("Cannot connect to the Docker daemon")}, time.Second, zap.NewNop())

	_, err := c.DiskUsage(context.Background())
	if !domain.IsProbeUnavailable(err) {
		t.Errorf("DiskUsage() error = %v, want ProbeUnavailable", err)
	}
}

func TestClient_Available(t *testing.T) {
	if !(&Client{runner: &fakeRunner{}}).Available() {
		t.Error("Available() = false with docker on PATH")
	}
	if (&Client{runner: &fakeRunner{missing: true}}).Available() {
		t.Error("Available() = true with docker missing")
	}
}
