package media

import (
	"context"
	"log/slog"
	"strings"
)

// VideoInfo is the public metadata document returned by the info endpoint.
type VideoInfo struct {
	Title     *string       `json:"title"`
	Thumbnail *string       `json:"thumbnail"`
	Formats   []FormatEntry `json:"formats"`
}

// Info looks up metadata for url without downloading anything.
func (s *Service) Info(ctx context.Context, url string) (*VideoInfo, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &ValidationError{Message: MsgNoURL}
	}

	slog.Info("fetching info", "url", url)

	ctx, cancel := withOptionalTimeout(ctx, s.infoTimeout)
	defer cancel()

	meta, err := s.extractor.FetchMetadata(ctx, url)
	if err != nil {
		slog.Error("failed to fetch info", "url", url, "error", err)
		return nil, newProcessingError("info", MsgInfoFailed, err)
	}
	if meta == nil {
		meta = &Metadata{}
	}

	info := &VideoInfo{
		Title:     meta.Title,
		Thumbnail: meta.Thumbnail,
		Formats:   PublicFormats(meta.Formats),
	}
	slog.Info("fetched info", "url", url, "formats", len(info.Formats), "total_formats", len(meta.Formats))
	return info, nil
}

// PublicFormats keeps the formats worth offering to a user: those with a
// resolution, and audio-only streams. Order is preserved.
func PublicFormats(formats []FormatEntry) []FormatEntry {
	out := make([]FormatEntry, 0, len(formats))
	for _, f := range formats {
		hasResolution := f.Resolution != nil && *f.Resolution != ""
		audioOnly := f.Note != nil && strings.HasPrefix(*f.Note, "audio only")
		if hasResolution || audioOnly {
			out = append(out, f)
		}
	}
	return out
}
