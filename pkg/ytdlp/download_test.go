package ytdlp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDownloadOptions_Args(t *testing.T) {
	t.Parallel()

	t.Run("video", func(t *testing.T) {
		t.Parallel()
		opts := DownloadOptions{
			Format:            "bestvideo+bestaudio/best",
			OutputTemplate:    "/tmp/x.mp4",
			MergeOutputFormat: "mp4",
		}
		require.Equal(t, []string{
			"--format", "bestvideo+bestaudio/best",
			"--output", "/tmp/x.mp4",
			"--merge-output-format", "mp4",
		}, opts.Args())
	})

	t.Run("audio", func(t *testing.T) {
		t.Parallel()
		opts := DownloadOptions{
			Format:         "bestaudio/best",
			OutputTemplate: "/tmp/x.mp4",
			ExtractAudio:   &AudioExtraction{Codec: "mp3", Quality: "192"},
			ExtractorArgs:  []string{"youtube:player_client=android,web"},
		}
		require.Equal(t, []string{
			"--format", "bestaudio/best",
			"--output", "/tmp/x.mp4",
			"--extract-audio", "--audio-format", "mp3", "--audio-quality", "192K",
			"--extractor-args", "youtube:player_client=android,web",
		}, opts.Args())
	})
}

func TestAudioQualityArg(t *testing.T) {
	require.Equal(t, "192K", audioQualityArg("192"))
	require.Equal(t, "128K", audioQualityArg("128K"))
	require.Equal(t, "5", audioQualityArg("5"))
	require.Equal(t, "", audioQualityArg(" "))
}

func TestDownload_BuildsCommandAndParsesInfo(t *testing.T) {
	c := New()
	c.CookiesFile = "/cookies.txt"

	var gotArgs []string
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		gotArgs = args
		return []byte("[download] 100%\n{\"id\":\"abc\",\"title\":\"Song\"}\n"), nil, nil
	}

	info, err := c.Download(context.Background(), "https://example.com/v", DownloadOptions{
		Format:         "bestaudio/best",
		OutputTemplate: "/tmp/abc.mp4",
		ExtractAudio:   &AudioExtraction{Codec: "mp3", Quality: "192"},
	})
	require.NoError(t, err)
	require.Equal(t, "Song", *info.Title)

	joined := strings.Join(gotArgs, " ")
	require.Contains(t, joined, "--dump-single-json --no-simulate")
	require.Contains(t, joined, "--cookies /cookies.txt")
	require.Contains(t, joined, "--output /tmp/abc.mp4")
	require.Equal(t, "https://example.com/v", gotArgs[len(gotArgs)-1])
	require.Equal(t, "--", gotArgs[len(gotArgs)-2])
}

func TestDownload_Validation(t *testing.T) {
	c := New()
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		t.Fatalf("exec must not run")
		return nil, nil, nil
	}

	_, err := c.Download(context.Background(), "", DownloadOptions{OutputTemplate: "/tmp/x.mp4"})
	require.Error(t, err)

	_, err = c.Download(context.Background(), "https://example.com", DownloadOptions{})
	require.Error(t, err)
}

func TestDownload_WrapsExecError(t *testing.T) {
	c := New()
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return nil, []byte("ERROR: Unsupported URL: https://example.com"), errors.New("exit status 1")
	}

	_, err := c.Download(context.Background(), "https://example.com", DownloadOptions{OutputTemplate: "/tmp/x.mp4"})
	var ee *ExecError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, "Unsupported URL: https://example.com", ee.Message())
}
