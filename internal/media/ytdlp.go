package media

import (
	"context"

	"thirdcoast.systems/mediagrab/pkg/ytdlp"
)

// YtdlpExtractor adapts a yt-dlp client to the Extractor interface. Cookie,
// user agent and header settings live on the client.
type YtdlpExtractor struct {
	client        *ytdlp.Client
	extractorArgs []string
}

// NewYtdlpExtractor wraps client. extractorArgs are added to every call, e.g.
// "youtube:player_client=android,web,ios".
func NewYtdlpExtractor(client *ytdlp.Client, extractorArgs ...string) *YtdlpExtractor {
	return &YtdlpExtractor{client: client, extractorArgs: extractorArgs}
}

var _ Extractor = (*YtdlpExtractor)(nil)

func (e *YtdlpExtractor) FetchMetadata(ctx context.Context, url string) (*Metadata, error) {
	var extra []string
	for _, ea := range e.extractorArgs {
		extra = append(extra, "--extractor-args", ea)
	}
	info, err := e.client.GetInfo(ctx, url, extra...)
	if err != nil {
		return nil, err
	}
	return metadataFromInfo(info), nil
}

func (e *YtdlpExtractor) FetchAndDownload(ctx context.Context, url string, opts DownloadOptions) (*Metadata, error) {
	dl := ytdlp.DownloadOptions{
		Format:            opts.Format,
		OutputTemplate:    opts.OutputPath,
		MergeOutputFormat: opts.MergeFormat,
		ExtractorArgs:     e.extractorArgs,
	}
	if a := opts.ExtractAudio; a != nil {
		dl.ExtractAudio = &ytdlp.AudioExtraction{Codec: a.Codec, Quality: a.Quality}
	}

	info, err := e.client.Download(ctx, url, dl)
	if err != nil {
		return nil, err
	}
	return metadataFromInfo(info), nil
}

func metadataFromInfo(info *ytdlp.Info) *Metadata {
	meta := &Metadata{
		Title:     info.Title,
		Thumbnail: info.Thumbnail,
		Formats:   make([]FormatEntry, 0, len(info.Formats)),
	}
	for _, f := range info.Formats {
		meta.Formats = append(meta.Formats, FormatEntry{
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			Resolution: f.Resolution,
			Note:       f.FormatNote,
			Filesize:   f.Filesize,
		})
	}
	return meta
}
