package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Info is a light wrapper over yt-dlp JSON output. It intentionally models only common fields.
// The full JSON is preserved in Raw.
type Info struct {
	ID           string          `json:"id"`
	Title        *string         `json:"title"`
	Thumbnail    *string         `json:"thumbnail"`
	WebpageURL   string          `json:"webpage_url"`
	Extractor    string          `json:"extractor"`
	ExtractorKey string          `json:"extractor_key"`
	Duration     float64         `json:"duration"`
	Filename     string          `json:"filename"`
	Formats      []Format        `json:"formats"`
	Raw          json.RawMessage `json:"-"`
}

// Format is one entry of the "formats" array. yt-dlp emits null or omits
// any of these fields depending on the extractor, hence the pointers.
type Format struct {
	FormatID   *string `json:"format_id"`
	Ext        *string `json:"ext"`
	Resolution *string `json:"resolution"`
	FormatNote *string `json:"format_note"`
	Filesize   *int64  `json:"filesize"`
}

// GetInfo runs yt-dlp in "metadata only" mode and parses its JSON output.
// It uses: --dump-single-json --skip-download
func (c *Client) GetInfo(ctx context.Context, url string, extraArgs ...string) (*Info, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("ytdlp: url is required")
	}

	args := []string{"--dump-single-json", "--skip-download", "--no-playlist", "--no-warnings"}
	args = append(args, c.commonArgs()...)
	args = append(args, extraArgs...)
	args = append(args, "--", url)

	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return nil, wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}

	return parseInfo(stdout)
}

func parseInfo(stdout []byte) (*Info, error) {
	raw := bytes.TrimSpace(stdout)
	// With --no-simulate some extractors still print progress lines on
	// stdout ahead of the document; the JSON is always the last line.
	if idx := bytes.LastIndexByte(raw, '\n'); idx >= 0 {
		raw = bytes.TrimSpace(raw[idx+1:])
	}

	info := &Info{Raw: append([]byte(nil), raw...)}
	if err := json.Unmarshal(raw, info); err != nil {
		return nil, fmt.Errorf("ytdlp: parse json: %w", err)
	}
	return info, nil
}
