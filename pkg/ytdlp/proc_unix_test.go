//go:build unix

package ytdlp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// forkingEngine mimics yt-dlp handing work to a child process: the child
// keeps the output pipes open and writes a merge file a moment later.
const forkingEngine = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
	if [ "$1" = "--output" ]; then out="$2"; fi
	shift
done
(sleep 1; echo merged > "${out%.mp4}.temp.mp4") &
exec sleep 30
`

func TestDownload_CancelKillsChildProcesses(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping process test in short mode")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fake-yt-dlp")
	require.NoError(t, os.WriteFile(script, []byte(forkingEngine), 0o755))

	outDir := t.TempDir()
	c := &Client{Path: script}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Download(ctx, "https://example.com/v", DownloadOptions{
		OutputTemplate: filepath.Join(outDir, "artifact.mp4"),
	})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 10*time.Second)

	// The child would have written its file after one second.
	time.Sleep(1500 * time.Millisecond)
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
