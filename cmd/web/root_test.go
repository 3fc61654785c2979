package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_ToolsUnavailable(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Setenv("YTDLP_PATH", "/nonexistent/yt-dlp")
	t.Setenv("FFMPEG_PATH", "/nonexistent/ffmpeg")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "mediagrab dev")
	require.Contains(t, out.String(), "yt-dlp    unavailable")
	require.Contains(t, out.String(), "ffmpeg    unavailable")
}

func TestRootCmd_InvalidPortFlag(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := newRootCmd()
	root.SetArgs([]string{"serve", "--port", "0"})
	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "load config")
}

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	setupLogging("debug")
	require.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	setupLogging("bogus")
	require.False(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
	require.True(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
}
