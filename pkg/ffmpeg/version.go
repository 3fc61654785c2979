// Package ffmpeg checks for the ffmpeg binary that yt-dlp needs to merge
// video and audio streams and to transcode audio.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultPath is used when no explicit path is configured.
const DefaultPath = "ffmpeg"

// Version runs `ffmpeg -version` and returns the version token from the
// first line, e.g. "6.1.1" or "n7.0-static".
func Version(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}

	cmd := exec.CommandContext(ctx, path, "-hide_banner", "-version")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg -version failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}
	return parseVersion(stdout.String())
}

func parseVersion(out string) (string, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != "ffmpeg" || fields[1] != "version" {
		return "", fmt.Errorf("unexpected ffmpeg version output: %q", line)
	}
	return fields[2], nil
}
