package audio

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/avillegas/care-assistant/internal/logger"
)

// Janitor periodically purges transient response-audio files so playback
// leftovers never accumulate.
type Janitor struct {
	// dir is the directory being purged.
	dir string
	// interval is the purge cadence.
	interval time.Duration
}

// NewJanitor returns a janitor purging dir every interval.
func NewJanitor(dir string, interval time.Duration) *Janitor {
	return &Janitor{dir: dir, interval: interval}
}

// Run purges the directory on the configured cadence until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	ctx = logger.WithName(ctx, "janitor")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Purge(ctx)
		}
	}
}

// Purge removes every regular file in the directory. Removal errors are
// logged and skipped; the next cycle retries.
func (j *Janitor) Purge(ctx context.Context) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		logger.WarnKV(ctx, "Could not read responses dir", "dir", j.dir, "error", err)

		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.WarnKV(ctx, "Could not remove transient audio file", "path", path, "error", err)

			continue
		}

		logger.DebugKV(ctx, "Transient audio file removed", "path", path)
	}
}
