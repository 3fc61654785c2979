package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// streamWriter wraps an io.Writer and calls a callback for each line.
type streamWriter struct {
	stream   string
	callback func(stream string, line string)
	buffer   *bytes.Buffer
	pending  []byte
}

func (w *streamWriter) Write(p []byte) (n int, err error) {
	if w.buffer != nil {
		w.buffer.Write(p)
	}

	w.pending = append(w.pending, p...)

	// yt-dlp progress output uses carriage returns to redraw the same console
	// line, so both \r and \n count as line boundaries.
	for {
		idx := bytes.IndexAny(w.pending, "\r\n")
		if idx < 0 {
			break
		}

		line := string(w.pending[:idx])

		consume := 1
		if w.pending[idx] == '\r' && idx+1 < len(w.pending) && w.pending[idx+1] == '\n' {
			consume = 2
		}
		w.pending = w.pending[idx+consume:]

		if w.callback != nil {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				w.callback(w.stream, trimmed)
			}
		}
	}

	return len(p), nil
}

type ExecError struct {
	Cmd      string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Cause    error
}

func (e *ExecError) Error() string {
	cmdline := strings.TrimSpace(e.Cmd + " " + strings.Join(e.Args, " "))
	if e.ExitCode != 0 {
		return fmt.Sprintf("ytdlp: command failed (exit %d): %s", e.ExitCode, cmdline)
	}
	return fmt.Sprintf("ytdlp: command failed: %s", cmdline)
}

func (e *ExecError) Unwrap() error { return e.Cause }

// Message returns the most useful human-readable reason for the failure.
// yt-dlp prints its fatal reason on stderr prefixed with "ERROR:"; the last
// such line wins. Falls back to the last stderr line, then to the cause.
func (e *ExecError) Message() string {
	lines := strings.Split(strings.ReplaceAll(e.Stderr, "\r\n", "\n"), "\n")
	last := ""
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
		if last == "" {
			last = line
		}
	}
	if last != "" {
		return last
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Error()
}

// Client runs the yt-dlp executable. A Client holds no per-call state, so one
// instance may be shared by concurrent requests.
type Client struct {
	// Path to yt-dlp executable. Defaults to "yt-dlp" (PATH lookup).
	Path string

	// CookiesFile is passed as --cookies when set. It takes precedence over
	// CookiesFromBrowser.
	CookiesFile string

	// CookiesFromBrowser is passed as --cookies-from-browser when set and
	// CookiesFile is empty.
	CookiesFromBrowser string

	// UserAgent overrides yt-dlp's default user agent when set.
	UserAgent string

	// Headers are sent with every request yt-dlp makes (--add-header).
	Headers map[string]string

	// ExtraArgs are always appended before per-call args.
	ExtraArgs []string

	// LogCallback is called for each line of stdout/stderr output.
	// If nil, output is buffered in memory.
	LogCallback func(stream string, line string)

	execFn func(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// waitDelay bounds how long Run waits for the output pipes to close after the
// process tree was killed.
const waitDelay = 2 * time.Second

func New() *Client {
	return &Client{Path: "yt-dlp"}
}

// commonArgs returns the flags shared by every extraction command.
func (c *Client) commonArgs() []string {
	args := make([]string, 0, 8+2*len(c.Headers))
	args = append(args, c.ExtraArgs...)

	if ua := strings.TrimSpace(c.UserAgent); ua != "" {
		args = append(args, "--user-agent", ua)
	}
	for _, k := range sortedKeys(c.Headers) {
		args = append(args, "--add-header", k+":"+c.Headers[k])
	}

	switch {
	case strings.TrimSpace(c.CookiesFile) != "":
		args = append(args, "--cookies", c.CookiesFile)
	case strings.TrimSpace(c.CookiesFromBrowser) != "":
		args = append(args, "--cookies-from-browser", c.CookiesFromBrowser)
	}
	return args
}

func (c *Client) exec(ctx context.Context, args ...string) (stdout []byte, stderr []byte, err error) {
	name := c.PathOrDefault()

	fullArgs := make([]string, 0, len(args)+1)
	if c.LogCallback != nil {
		// Newline progress output keeps the log readable.
		fullArgs = append(fullArgs, "--newline")
	}
	fullArgs = append(fullArgs, args...)

	if c.execFn != nil {
		return c.execFn(ctx, name, fullArgs...)
	}

	slog.Info("ytdlp: Executing command", "cmd", name, "args", redactArgs(fullArgs))
	cmd := exec.CommandContext(ctx, name, fullArgs...)
	// yt-dlp runs ffmpeg as a child for merging and transcoding. Cancellation
	// must stop the whole tree, or a surviving child keeps writing files and
	// holding the output pipes.
	killProcessGroupOnCancel(cmd)
	cmd.WaitDelay = waitDelay
	var outBuf, errBuf bytes.Buffer

	if c.LogCallback != nil {
		// stdout carries the JSON document, so only stderr is streamed.
		cmd.Stdout = &outBuf
		cmd.Stderr = &streamWriter{stream: "stderr", callback: c.LogCallback, buffer: &errBuf}
	} else {
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return outBuf.Bytes(), errBuf.Bytes(), err
	}
	return outBuf.Bytes(), errBuf.Bytes(), nil
}

// Version returns `yt-dlp --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	args := []string{"--version"}
	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return "", wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}
	return strings.TrimSpace(string(stdout)), nil
}

// PathOrDefault returns the configured path or "yt-dlp" if unset.
func (c *Client) PathOrDefault() string {
	if strings.TrimSpace(c.Path) == "" {
		return "yt-dlp"
	}
	return c.Path
}

// Update runs `yt-dlp -U` to update to the latest version.
func (c *Client) Update(ctx context.Context, extraArgs ...string) error {
	args := []string{"-U"}
	args = append(args, extraArgs...)

	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}
	return nil
}

func wrapExecError(cmd string, args []string, stdout []byte, stderr []byte, cause error) error {
	exitCode := 0
	var ee *exec.ExitError
	if errors.As(cause, &ee) {
		exitCode = ee.ExitCode()
	}

	return &ExecError{
		Cmd:      cmd,
		Args:     redactArgs(args),
		ExitCode: exitCode,
		Stdout:   strings.TrimSpace(string(stdout)),
		Stderr:   strings.TrimSpace(string(stderr)),
		Cause:    cause,
	}
}

// redactArgs hides header values, which may carry credentials, from logs and
// error messages.
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i++ {
		if out[i] == "--add-header" {
			if k, _, ok := strings.Cut(out[i+1], ":"); ok {
				out[i+1] = k + ":***"
			}
			i++
		}
	}
	return out
}
