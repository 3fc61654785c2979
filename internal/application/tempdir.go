package application

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// InitTempDir creates the artifact directory if needed and returns its
// absolute path.
func InitTempDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve temp dir %q: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir %q: %w", abs, err)
	}
	slog.Info("Temp directory ready", "path", abs)
	return abs, nil
}
