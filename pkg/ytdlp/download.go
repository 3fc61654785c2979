package ytdlp

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// AudioExtraction asks yt-dlp to transcode the download to an audio-only
// file after it completes (-x).
type AudioExtraction struct {
	// Codec is the target audio format, e.g. "mp3".
	Codec string
	// Quality is a bitrate in kbps, e.g. "192".
	Quality string
}

// DownloadOptions control a single Download call.
type DownloadOptions struct {
	// Format is the -f selector expression.
	Format string
	// OutputTemplate is the -o path. A literal path (no %(...)s fields) makes
	// the produced file predictable.
	OutputTemplate string
	// MergeOutputFormat is the container used when separate video and audio
	// streams are merged.
	MergeOutputFormat string
	// ExtractAudio, when set, adds the audio post-processing step. yt-dlp then
	// replaces the output extension with the codec's.
	ExtractAudio *AudioExtraction
	// ExtractorArgs are passed verbatim as --extractor-args values.
	ExtractorArgs []string
}

// Args renders the options as yt-dlp flags.
func (o DownloadOptions) Args() []string {
	args := []string{}
	if o.Format != "" {
		args = append(args, "--format", o.Format)
	}
	if o.OutputTemplate != "" {
		args = append(args, "--output", o.OutputTemplate)
	}
	if o.MergeOutputFormat != "" {
		args = append(args, "--merge-output-format", o.MergeOutputFormat)
	}
	if a := o.ExtractAudio; a != nil {
		args = append(args, "--extract-audio")
		if a.Codec != "" {
			args = append(args, "--audio-format", a.Codec)
		}
		if a.Quality != "" {
			args = append(args, "--audio-quality", audioQualityArg(a.Quality))
		}
	}
	for _, ea := range o.ExtractorArgs {
		args = append(args, "--extractor-args", ea)
	}
	return args
}

// audioQualityArg turns a bare bitrate into yt-dlp's CLI form. The CLI reads
// a bare number as a 0-10 VBR level, so "192" must become "192K".
func audioQualityArg(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return q
	}
	last := q[len(q)-1]
	if last >= '0' && last <= '9' && len(q) > 2 {
		return q + "K"
	}
	return q
}

// Download fetches url, runs any post-processing, and returns the metadata
// yt-dlp reports for the finished download.
// It uses: --dump-single-json --no-simulate
func (c *Client) Download(ctx context.Context, url string, opts DownloadOptions, extraArgs ...string) (*Info, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("ytdlp: url is required")
	}
	if strings.TrimSpace(opts.OutputTemplate) == "" {
		return nil, fmt.Errorf("ytdlp: output template is required")
	}

	args := []string{
		"--dump-single-json",
		"--no-simulate",
		"--no-playlist",
		"--no-warnings",
		"--no-colors",
		"--no-part",
	}
	args = append(args, c.commonArgs()...)
	args = append(args, opts.Args()...)
	args = append(args, extraArgs...)
	args = append(args, "--", url)

	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return nil, wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}

	return parseInfo(stdout)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
