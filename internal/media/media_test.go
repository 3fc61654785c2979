package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubExtractor stands in for yt-dlp. onDownload decides what lands on disk.
type stubExtractor struct {
	mu            sync.Mutex
	metaCalls     int
	downloadCalls int
	lastOpts      DownloadOptions

	meta       *Metadata
	metaErr    error
	onDownload func(ctx context.Context, opts DownloadOptions) (*Metadata, error)
}

func (s *stubExtractor) FetchMetadata(ctx context.Context, url string) (*Metadata, error) {
	s.mu.Lock()
	s.metaCalls++
	s.mu.Unlock()
	return s.meta, s.metaErr
}

func (s *stubExtractor) FetchAndDownload(ctx context.Context, url string, opts DownloadOptions) (*Metadata, error) {
	s.mu.Lock()
	s.downloadCalls++
	s.lastOpts = opts
	s.mu.Unlock()
	return s.onDownload(ctx, opts)
}

func (s *stubExtractor) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metaCalls, s.downloadCalls
}

func newTestService(t *testing.T, ex Extractor, opts ...Option) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewArtifactStore(dir)
	require.NoError(t, err)
	svc, err := NewService(ex, store, opts...)
	require.NoError(t, err)
	return svc, store.Dir()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// engineWrite simulates the engine writing an output file. It runs inside
// extractor callbacks, where no *testing.T is at hand.
func engineWrite(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		panic(err)
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func audioPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mp3"
}

func strptr(s string) *string { return &s }
