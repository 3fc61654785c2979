package media

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const (
	extVideo = "mp4"
	extAudio = "mp3"
)

// ArtifactStore hands out uniquely named temporary files inside a single
// shared directory. Names come from random UUIDs, so concurrent requests never
// share a path and no locking is needed.
type ArtifactStore struct {
	dir   string
	newID func() string
}

// NewArtifactStore returns a store rooted at dir, which must already exist.
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve temp dir: %w", err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat temp dir: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("temp dir %s is not a directory", abs)
	}
	return &ArtifactStore{dir: abs, newID: uuid.NewString}, nil
}

// Dir returns the absolute directory artifacts are created in.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// New allocates a fresh artifact with the "mp4" extension. Nothing is written
// to disk; the engine creates the file.
func (s *ArtifactStore) New() *Artifact {
	return &Artifact{dir: s.dir, id: s.newID(), ext: extVideo}
}

// SweepStale removes artifact files in the store directory whose modification
// time is older than maxAge. These are leftovers from a process that died
// before its cleanup ran. Files not named by the store are never touched. It
// returns the number of files removed.
func (s *ArtifactStore) SweepStale(now time.Time, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read temp dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !isArtifactName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		p := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Error("failed to remove stale artifact", "path", p, "error", err)
			continue
		}
		slog.Info("removed stale artifact", "path", p, "size", humanize.Bytes(uint64(info.Size())), "modified", humanize.RelTime(info.ModTime(), now, "ago", "from now"))
		removed++
	}
	return removed, nil
}

// isArtifactName reports whether name looks like "<uuid>.<ext...>", the shape
// of every file the store or the engine creates for an artifact.
func isArtifactName(name string) bool {
	stem, _, ok := strings.Cut(name, ".")
	if !ok || len(stem) != 36 {
		return false
	}
	_, err := uuid.Parse(stem)
	return err == nil
}

// Artifact is the temporary file backing one download. Release deletes it and
// every engine partial that shares its id; only the first call does any work.
type Artifact struct {
	dir string
	id  string

	mu  sync.Mutex
	ext string

	once sync.Once
}

// ID returns the unique name stem of the artifact.
func (a *Artifact) ID() string {
	return a.id
}

// Path returns the path the artifact is currently expected at.
func (a *Artifact) Path() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pathWithExt(a.ext)
}

// Ext returns the current expected extension, without the dot.
func (a *Artifact) Ext() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ext
}

func (a *Artifact) pathWithExt(ext string) string {
	return filepath.Join(a.dir, a.id+"."+ext)
}

// setExt records that post-processing moved the file to a new extension.
func (a *Artifact) setExt(ext string) {
	a.mu.Lock()
	a.ext = ext
	a.mu.Unlock()
}

// Open opens the artifact for reading.
func (a *Artifact) Open() (*os.File, error) {
	return os.Open(a.Path())
}

// Release deletes the artifact. It is safe to call any number of times from
// any goroutine; failures are logged and never returned.
func (a *Artifact) Release() {
	a.once.Do(a.remove)
}

// candidates lists every path the engine may have written for this artifact:
// the mp4 and mp3 outputs plus partial and per-stream files such as
// "<id>.mp4.part" or "<id>.f137.mp4".
func (a *Artifact) candidates() []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	add(a.pathWithExt(extVideo))
	add(a.pathWithExt(extAudio))
	if matches, err := filepath.Glob(filepath.Join(a.dir, a.id+".*")); err == nil {
		for _, m := range matches {
			add(m)
		}
	}
	return out
}

func (a *Artifact) remove() {
	for _, p := range a.candidates() {
		err := os.Remove(p)
		switch {
		case err == nil:
			slog.Info("deleted temp artifact", "path", p)
		case errors.Is(err, fs.ErrNotExist):
		default:
			slog.Error("failed to delete temp artifact", "path", p, "error", err)
		}
	}
}
