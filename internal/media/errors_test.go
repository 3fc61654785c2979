package media

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"thirdcoast.systems/mediagrab/pkg/ytdlp"
)

func TestEnrichAuthHint(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Private video", EnrichAuthHint("Private video"))

	got := EnrichAuthHint("Sign in to confirm you're not a BOT")
	require.Contains(t, got, "COOKIE_BROWSER")
	require.Contains(t, got, "YOUTUBE_COOKIES_PATH")
	require.Contains(t, got, "Original error: Sign in to confirm you're not a BOT")
}

func TestNewProcessingError_UsesEngineMessage(t *testing.T) {
	t.Parallel()

	cause := &ytdlp.ExecError{
		Cmd:    "yt-dlp",
		Stderr: "ERROR: [generic] Unsupported URL: https://example.com",
		Cause:  errors.New("exit status 1"),
	}
	pe := newProcessingError("download", MsgDownloadFailed, fmt.Errorf("wrapped: %w", cause))

	require.Equal(t, "[generic] Unsupported URL: https://example.com", pe.Details)
	require.ErrorIs(t, pe, cause)
	require.Contains(t, pe.Error(), MsgDownloadFailed)
}

func TestNewProcessingError_PlainError(t *testing.T) {
	t.Parallel()

	pe := newProcessingError("info", MsgInfoFailed, errors.New("network unreachable"))
	require.Equal(t, "network unreachable", pe.Details)
	require.Equal(t, "info: "+MsgInfoFailed+": network unreachable", pe.Error())
}
