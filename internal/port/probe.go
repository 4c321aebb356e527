package port

import (
	"context"

	"github.com/duskscan/dusk/internal/domain"
)

// VolumeProbe reports metadata for the volume containing a path.
type VolumeProbe interface {
	VolumeInfo(ctx context.Context, path string) (*domain.VolumeInfo, error)
}

// DirSizeProbe measures recursive directory sizes below a root,
// depth-limited and restricted to the root's filesystem. partial is
// true when the measurement was cut short but some entries survived;
// callers may still use them as a best-effort section.
type DirSizeProbe interface {
	DirSizes(ctx context.Context, root string, depth int) (entries []domain.SizedEntry, partial bool, err error)
}

// LargeFileProbe finds files at or above minSizeBytes under root using
// a pre-built search index, so results may miss files created since the
// index was last updated.
type LargeFileProbe interface {
	LargeFiles(ctx context.Context, root string, minSizeBytes int64) ([]domain.SizedEntry, error)
}
