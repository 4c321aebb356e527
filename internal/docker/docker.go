// Package docker reports Docker's own disk consumption through
// `docker system df`. It is a standalone surface next to the filesystem
// scan; a missing or stopped daemon never affects scan results.
package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/duskscan/dusk/internal/domain"
	"github.com/duskscan/dusk/internal/port"
)

const probeName = "docker"

// Image is one image row of the disk usage report.
type Image struct {
	Repository  string
	Tag         string
	ID          string
	SizeBytes   int64
	UniqueBytes int64
	SharedBytes int64
	Created     string
	Containers  int
}

// Container is one container row of the disk usage report.
type Container struct {
	Name      string
	Image     string
	ID        string
	SizeBytes int64
	State     string
	Status    string
	Created   string
}

// Volume is one volume row of the disk usage report.
type Volume struct {
	Name       string
	SizeBytes  int64
	Driver     string
	Mountpoint string
}

// Overview aggregates the report sections.
type Overview struct {
	ImagesTotal           int
	ImagesActive          int
	ImagesSizeBytes       int64
	ImagesReclaimable     int64
	ContainersTotal       int
	ContainersActive      int
	ContainersSizeBytes   int64
	VolumesTotal          int
	VolumesSizeBytes      int64
	BuildCacheTotal       int
	BuildCacheSizeBytes   int64
	BuildCacheReclaimable int64
}

// Report is the full Docker disk usage breakdown.
type Report struct {
	Overview         Overview
	Images           []Image
	Containers       []Container
	Volumes          []Volume
	BuildCacheByType map[string]int64
}

// Client wraps the docker CLI.
type Client struct {
	runner  port.Runner
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a docker disk usage client.
func NewClient(runner port.Runner, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{runner: runner, timeout: timeout, logger: logger}
}

// Available reports whether the docker CLI is on PATH.
func (c *Client) Available() bool {
	_, err := c.runner.LookPath("docker")
	return err == nil
}

// DiskUsage runs `docker system df -v` and aggregates the result.
func (c *Client) DiskUsage(ctx context.Context) (*Report, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runner.Run(ctx, "docker", "system", "df", "-v", "--format", "{{json .}}")
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, domain.NewProbeTimeout(probeName, err)
		}
		return nil, domain.NewProbeUnavailable(probeName, err)
	}

	var raw rawUsage
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, domain.NewProbeUnavailable(probeName, fmt.Errorf("parsing docker output: %w", err))
	}

	return buildReport(&raw), nil
}

type rawUsage struct {
	Images []struct {
		Repository string `json:"Repository"`
		Tag        string `json:"Tag"`
		ID         string `json:"ID"`
		Size       string `json:"Size"`
		UniqueSize string `json:"UniqueSize"`
		SharedSize string `json:"SharedSize"`
		Created    string `json:"CreatedSince"`
		Containers string `json:"Containers"`
	} `json:"Images"`
	Containers []struct {
		Names   string `json:"Names"`
		Image   string `json:"Image"`
		ID      string `json:"ID"`
		Size    string `json:"Size"`
		State   string `json:"State"`
		Status  string `json:"Status"`
		Running string `json:"RunningFor"`
	} `json:"Containers"`
	Volumes []struct {
		Name       string `json:"Name"`
		Size       string `json:"Size"`
		Driver     string `json:"Driver"`
		Mountpoint string `json:"Mountpoint"`
	} `json:"Volumes"`
	BuildCache []struct {
		CacheType string `json:"CacheType"`
		Size      string `json:"Size"`
		InUse     bool   `json:"InUse"`
	} `json:"BuildCache"`
}

func buildReport(raw *rawUsage) *Report {
	report := &Report{BuildCacheByType: map[string]int64{}}

	for _, img := range raw.Images {
		containers, _ := strconv.Atoi(img.Containers)
		report.Images = append(report.Images, Image{
			Repository:  orNone(img.Repository),
			Tag:         orNone(img.Tag),
			ID:          truncateID(img.ID, 19),
			SizeBytes:   parseSize(img.Size),
			UniqueBytes: parseSize(img.UniqueSize),
			SharedBytes: parseSize(img.SharedSize),
			Created:     img.Created,
			Containers:  containers,
		})
	}
	sort.SliceStable(report.Images, func(i, j int) bool {
		return report.Images[i].SizeBytes > report.Images[j].SizeBytes
	})

	for _, ctr := range raw.Containers {
		// Container size reads "1.2MB (virtual 3.4GB)"; the first part
		// is the writable layer.
		sizePart, _, _ := strings.Cut(ctr.Size, "(")
		report.Containers = append(report.Containers, Container{
			Name:      ctr.Names,
			Image:     ctr.Image,
			ID:        truncateID(ctr.ID, 12),
			SizeBytes: parseSize(strings.TrimSpace(sizePart)),
			State:     ctr.State,
			Status:    ctr.Status,
			Created:   ctr.Running,
		})
	}
	sort.SliceStable(report.Containers, func(i, j int) bool {
		return report.Containers[i].SizeBytes > report.Containers[j].SizeBytes
	})

	for _, vol := range raw.Volumes {
		report.Volumes = append(report.Volumes, Volume{
			Name:       vol.Name,
			SizeBytes:  parseSize(vol.Size),
			Driver:     vol.Driver,
			Mountpoint: vol.Mountpoint,
		})
	}
	sort.SliceStable(report.Volumes, func(i, j int) bool {
		return report.Volumes[i].SizeBytes > report.Volumes[j].SizeBytes
	})

	o := &report.Overview
	for _, img := range report.Images {
		o.ImagesSizeBytes += img.SizeBytes
		if img.Containers > 0 {
			o.ImagesActive++
		} else {
			o.ImagesReclaimable += img.SizeBytes
		}
	}
	o.ImagesTotal = len(report.Images)

	for _, ctr := range report.Containers {
		o.ContainersSizeBytes += ctr.SizeBytes
		if ctr.State == "running" {
			o.ContainersActive++
		}
	}
	o.ContainersTotal = len(report.Containers)

	for _, vol := range report.Volumes {
		o.VolumesSizeBytes += vol.SizeBytes
	}
	o.VolumesTotal = len(report.Volumes)

	for _, bc := range raw.BuildCache {
		size := parseSize(bc.Size)
		cacheType := bc.CacheType
		if cacheType == "" {
			cacheType = "unknown"
		}
		report.BuildCacheByType[cacheType] += size
		o.BuildCacheTotal++
		o.BuildCacheSizeBytes += size
		if !bc.InUse {
			o.BuildCacheReclaimable += size
		}
	}

	return report
}

var sizeRe = regexp.MustCompile(`^([\d.]+)\s*(B|kB|KB|MB|GB|TB)`)

// parseSize converts Docker size strings like "2.88GB" or "178.3MB"
// to bytes. Docker prints decimal units.
func parseSize(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "0B" {
		return 0
	}
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	multipliers := map[string]float64{
		"B": 1, "kB": 1000, "KB": 1024, "MB": 1e6, "GB": 1e9, "TB": 1e12,
	}
	return int64(val * multipliers[m[2]])
}

func truncateID(id string, n int) string {
	if len(id) > n {
		return id[:n]
	}
	return id
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}
