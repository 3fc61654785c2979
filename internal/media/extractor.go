package media

import "context"

// Extractor is the media engine: it resolves metadata and performs the
// download, merge and transcode work. Calls may block for minutes and must
// honor ctx cancellation where the engine allows it.
type Extractor interface {
	FetchMetadata(ctx context.Context, url string) (*Metadata, error)
	FetchAndDownload(ctx context.Context, url string, opts DownloadOptions) (*Metadata, error)
}

// DownloadOptions is the engine option set for one download.
type DownloadOptions struct {
	Format       string
	OutputPath   string
	MergeFormat  string
	ExtractAudio *AudioExtraction
}

// AudioExtraction is the post-processing directive that turns the download
// into an audio-only file.
type AudioExtraction struct {
	Codec   string
	Quality string
}

// Metadata is what the engine reports about a URL.
type Metadata struct {
	Title     *string
	Thumbnail *string
	Formats   []FormatEntry
}

// FormatEntry is one available rendition. Every field is nullable and passed
// through as the engine reported it.
type FormatEntry struct {
	FormatID   *string `json:"format_id"`
	Ext        *string `json:"ext"`
	Resolution *string `json:"resolution"`
	Note       *string `json:"note"`
	Filesize   *int64  `json:"filesize"`
}
