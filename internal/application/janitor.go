package application

import (
	"context"
	"log/slog"
	"time"

	"thirdcoast.systems/mediagrab/internal/media"
)

// RunJanitor sweeps stale artifacts once immediately and then every interval
// until ctx is done. Sweep errors are logged and do not stop the loop.
func RunJanitor(ctx context.Context, store *media.ArtifactStore, interval, maxAge time.Duration) error {
	sweep := func() {
		n, err := store.SweepStale(time.Now(), maxAge)
		if err != nil {
			slog.Error("stale artifact sweep failed", "dir", store.Dir(), "error", err)
			return
		}
		if n > 0 {
			slog.Info("stale artifact sweep", "dir", store.Dir(), "removed", n)
		}
	}

	sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sweep()
		}
	}
}
