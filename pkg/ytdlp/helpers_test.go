package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamWriter_SplitsOnCRAndLF(t *testing.T) {
	var buf bytes.Buffer
	var lines []string
	w := &streamWriter{
		stream: "stdout",
		callback: func(stream string, line string) {
			lines = append(lines, stream+":"+line)
		},
		buffer: &buf,
	}

	_, err := w.Write([]byte("a\rb\nc\r\nd"))
	require.NoError(t, err)

	// No delimiter after trailing "d" yet.
	require.Equal(t, []string{"stdout:a", "stdout:b", "stdout:c"}, lines)

	_, err = w.Write([]byte("\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"stdout:a", "stdout:b", "stdout:c", "stdout:d"}, lines)

	require.Equal(t, "a\rb\nc\r\nd\n", buf.String())
}

func TestWrapExecError_TrimsOutput(t *testing.T) {
	err := wrapExecError("yt-dlp", []string{"--version"}, []byte(" out \n"), []byte(" err \n"), errors.New("boom"))
	var ee *ExecError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, "yt-dlp", ee.Cmd)
	require.Equal(t, []string{"--version"}, ee.Args)
	require.Equal(t, 0, ee.ExitCode)
	require.Equal(t, "out", ee.Stdout)
	require.Equal(t, "err", ee.Stderr)
	require.Equal(t, "boom", ee.Cause.Error())
	require.Contains(t, ee.Error(), "yt-dlp")
}

func TestExecError_Message(t *testing.T) {
	t.Run("last ERROR line wins", func(t *testing.T) {
		ee := &ExecError{Stderr: "WARNING: slow\nERROR: [youtube] abc: Private video\nERROR: [youtube] abc: Sign in to confirm you're not a bot\n[info] done"}
		require.Equal(t, "[youtube] abc: Sign in to confirm you're not a bot", ee.Message())
	})

	t.Run("falls back to last stderr line", func(t *testing.T) {
		ee := &ExecError{Stderr: "first\nsecond\n"}
		require.Equal(t, "second", ee.Message())
	})

	t.Run("falls back to cause", func(t *testing.T) {
		ee := &ExecError{Cause: errors.New("exec: \"yt-dlp\": executable file not found in $PATH")}
		require.Contains(t, ee.Message(), "executable file not found")
	})
}

func TestClient_Update_UsesExec(t *testing.T) {
	c := New()
	c.Path = ""

	called := false
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		called = true
		require.Equal(t, "yt-dlp", name)
		require.True(t, len(args) >= 1)
		require.True(t, strings.Contains(strings.Join(args, " "), "-U"))
		return nil, nil, nil
	}

	err := c.Update(context.Background())
	require.NoError(t, err)
	require.True(t, called)
}

func TestClient_PathOrDefault(t *testing.T) {
	c := &Client{Path: "   "}
	require.Equal(t, "yt-dlp", c.PathOrDefault())

	c.Path = "/usr/local/bin/yt-dlp"
	require.Equal(t, "/usr/local/bin/yt-dlp", c.PathOrDefault())
}

func TestClient_CommonArgs_CookiePrecedence(t *testing.T) {
	c := &Client{CookiesFile: "/secrets/cookies.txt", CookiesFromBrowser: "chrome"}
	args := c.commonArgs()
	require.Contains(t, args, "/secrets/cookies.txt")
	require.NotContains(t, args, "--cookies-from-browser")

	c.CookiesFile = ""
	args = c.commonArgs()
	require.Equal(t, []string{"--cookies-from-browser", "chrome"}, args)
}

func TestClient_CommonArgs_HeadersSorted(t *testing.T) {
	c := &Client{
		UserAgent: "UA/1.0",
		Headers:   map[string]string{"Sec-Fetch-Mode": "navigate", "Accept": "*/*"},
	}
	require.Equal(t, []string{
		"--user-agent", "UA/1.0",
		"--add-header", "Accept:*/*",
		"--add-header", "Sec-Fetch-Mode:navigate",
	}, c.commonArgs())
}

func TestRedactArgs_HidesHeaderValues(t *testing.T) {
	in := []string{"--add-header", "Authorization:Bearer x", "--format", "best"}
	out := redactArgs(in)
	require.Equal(t, []string{"--add-header", "Authorization:***", "--format", "best"}, out)
	require.Equal(t, "Authorization:Bearer x", in[1])
}
