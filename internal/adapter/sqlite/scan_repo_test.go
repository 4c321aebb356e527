package sqlite

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/duskscan/dusk/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "dusk.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleScan(root string, at time.Time) *domain.ScanResult {
	return &domain.ScanResult{
		RootPath:  root,
		ScannedAt: at,
		Depth:     2,
		Volume: domain.VolumeInfo{
			TotalBytes: 1000,
			UsedBytes:  400,
			FreeBytes:  600,
			Filesystem: "apfs",
			MountPath:  "/",
		},
		TopDirs: []domain.SizedEntry{
			{Path: root + "/logs", SizeBytes: 500},
			{Path: root + "/cache", SizeBytes: 200},
		},
		LargeFiles: []domain.SizedEntry{
			{Path: root + "/logs/huge.log", SizeBytes: 450},
		},
		MinFileSizeBytes: 100,
	}
}

func TestStore_SaveGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	saved := sampleScan("/data", time.Now())
	id, err := store.Save(saved)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if id == 0 {
		t.Fatal("Save() assigned id 0")
	}
	if saved.ID != id {
		t.Errorf("Save() did not write the id back: %d vs %d", saved.ID, id)
	}

	got, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if got.ID != id || got.RootPath != saved.RootPath || got.Depth != saved.Depth ||
		got.MinFileSizeBytes != saved.MinFileSizeBytes {
		t.Errorf("Get() = %+v, want %+v", got, saved)
	}
	if got.Volume != saved.Volume {
		t.Errorf("Volume = %+v, want %+v", got.Volume, saved.Volume)
	}
	if !got.ScannedAt.Equal(saved.ScannedAt) {
		t.Errorf("ScannedAt = %v, want %v", got.ScannedAt, saved.ScannedAt)
	}
	if !reflect.DeepEqual(got.TopDirs, saved.TopDirs) {
		t.Errorf("TopDirs = %v, want %v", got.TopDirs, saved.TopDirs)
	}
	if !reflect.DeepEqual(got.LargeFiles, saved.LargeFiles) {
		t.Errorf("LargeFiles = %v, want %v", got.LargeFiles, saved.LargeFiles)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(42) error = %v, want ErrNotFound", err)
	}
}

func TestStore_AssignsTimestampWhenAbsent(t *testing.T) {
	store := openTestStore(t)

	scan := sampleScan("/data", time.Time{})
	if _, err := store.Save(scan); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if scan.ScannedAt.IsZero() {
		t.Error("Save() left ScannedAt zero")
	}
}

func TestStore_ListFiltersAndOrders(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().Add(-3 * time.Hour)
	for i, root := range []string{"/data", "/data", "/home"} {
		if _, err := store.Save(sampleScan(root, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	all, err := store.List("", 10)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(all) len = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ScannedAt.After(all[i-1].ScannedAt) {
			t.Errorf("List() not most-recent-first: %v after %v",
				all[i].ScannedAt, all[i-1].ScannedAt)
		}
	}

	data, err := store.List("/data", 10)
	if err != nil {
		t.Fatalf("List(/data) error: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("List(/data) len = %d, want 2", len(data))
	}
	for _, r := range data {
		if r.RootPath != "/data" {
			t.Errorf("List(/data) returned %s", r.RootPath)
		}
	}

	limited, err := store.List("", 1)
	if err != nil {
		t.Fatalf("List(limit=1) error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("List(limit=1) len = %d, want 1", len(limited))
	}
}

func TestStore_LatestTwo(t *testing.T) {
	store := openTestStore(t)

	older := sampleScan("/data", time.Now().Add(-time.Hour))
	newer := sampleScan("/data", time.Now())
	if _, err := store.Save(older); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(newer); err != nil {
		t.Fatal(err)
	}
	// A scan of another path must not leak into the pair.
	if _, err := store.Save(sampleScan("/home", time.Now())); err != nil {
		t.Fatal(err)
	}

	gotOlder, gotNewer, err := store.LatestTwo("/data")
	if err != nil {
		t.Fatalf("LatestTwo() error: %v", err)
	}
	if gotOlder.ID != older.ID || gotNewer.ID != newer.ID {
		t.Errorf("LatestTwo() = (%d, %d), want (%d, %d)",
			gotOlder.ID, gotNewer.ID, older.ID, newer.ID)
	}
	if gotNewer.ScannedAt.Before(gotOlder.ScannedAt) {
		t.Error("LatestTwo() pair not ordered older then newer")
	}
}

func TestStore_LatestTwoInsufficientHistory(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Save(sampleScan("/data", time.Now())); err != nil {
		t.Fatal(err)
	}

	_, _, err := store.LatestTwo("/data")
	if !errors.Is(err, domain.ErrInsufficientHistory) {
		t.Errorf("LatestTwo() error = %v, want ErrInsufficientHistory", err)
	}

	_, _, err = store.LatestTwo("/never-scanned")
	if !errors.Is(err, domain.ErrInsufficientHistory) {
		t.Errorf("LatestTwo(no scans) error = %v, want ErrInsufficientHistory", err)
	}
}

func TestStore_Prune(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().Add(-10 * time.Hour)
	var dataIDs []int64
	for i := 0; i < 5; i++ {
		scan := sampleScan("/data", base.Add(time.Duration(i)*time.Hour))
		id, err := store.Save(scan)
		if err != nil {
			t.Fatal(err)
		}
		dataIDs = append(dataIDs, id)
	}
	homeID, err := store.Save(sampleScan("/home", base))
	if err != nil {
		t.Fatal(err)
	}

	deleted, err := store.Prune(2)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Prune() deleted = %d, want 3", deleted)
	}

	remaining, err := store.List("/data", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 2 {
		t.Fatalf("scans left for /data = %d, want 2", len(remaining))
	}
	// The two most recent survive.
	if remaining[0].ID != dataIDs[4] || remaining[1].ID != dataIDs[3] {
		t.Errorf("wrong survivors: %d, %d", remaining[0].ID, remaining[1].ID)
	}

	// A path with fewer scans than the keep count is untouched.
	if _, err := store.Get(homeID); err != nil {
		t.Errorf("scan for /home was pruned: %v", err)
	}

	// Cascade removed the pruned scans' entries.
	var orphans int
	if err := store.db.QueryRow(
		`SELECT COUNT(*) FROM scan_entries WHERE scan_id NOT IN (SELECT id FROM scans)`,
	).Scan(&orphans); err != nil {
		t.Fatal(err)
	}
	if orphans != 0 {
		t.Errorf("orphaned entries after prune: %d", orphans)
	}
}

func TestStore_PruneNothingToDo(t *testing.T) {
	store := openTestStore(t)

	deleted, err := store.Prune(10)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() on empty store deleted %d", deleted)
	}
}
