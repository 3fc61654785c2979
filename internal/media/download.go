package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

// FileResult is a finished download ready to be streamed. The receiver owns
// the artifact and must call Release once the response is done, whether it
// completed or not.
type FileResult struct {
	*Artifact

	// Filename is the suggested download name, e.g. "Title.mp4".
	Filename    string
	ContentType string
	Size        int64
}

// Download fetches url at the requested quality into a fresh temporary
// artifact. On any failure the artifact and its partials are already deleted
// when Download returns.
func (s *Service) Download(ctx context.Context, url, quality string) (*FileResult, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &ValidationError{Message: MsgNoURL}
	}

	audio := quality == QualityAudio
	artifact := s.store.New()
	opts := DownloadOptions{
		Format:      SelectFormat(quality),
		OutputPath:  artifact.Path(),
		MergeFormat: extVideo,
	}
	if audio {
		opts.ExtractAudio = &AudioExtraction{Codec: extAudio, Quality: "192"}
	}

	slog.Info("starting download", "url", url, "quality", quality, "format", opts.Format, "artifact", artifact.ID())

	result, err := s.download(ctx, url, artifact, opts, audio)
	if err != nil {
		artifact.Release()
		slog.Error("download failed", "url", url, "artifact", artifact.ID(), "error", err)
		return nil, err
	}

	slog.Info("download ready", "url", url, "path", artifact.Path(), "filename", result.Filename, "size", humanize.Bytes(uint64(result.Size)))
	return result, nil
}

func (s *Service) download(ctx context.Context, url string, artifact *Artifact, opts DownloadOptions, audio bool) (*FileResult, error) {
	ctx, cancel := withOptionalTimeout(ctx, s.downloadTimeout)
	defer cancel()

	meta, err := s.extractor.FetchAndDownload(ctx, url, opts)
	if err != nil {
		return nil, newProcessingError("download", MsgDownloadFailed, err)
	}

	// The audio post-processor writes <id>.mp3 next to the template path.
	if audio {
		artifact.setExt(extAudio)
	}

	st, err := os.Stat(artifact.Path())
	if err != nil {
		return nil, newProcessingError("download", MsgDownloadFailed, fmt.Errorf("engine produced no output file: %w", err))
	}

	var title *string
	if meta != nil {
		title = meta.Title
	}

	return &FileResult{
		Artifact:    artifact,
		Filename:    FinalFilename(title, audio),
		ContentType: "application/octet-stream",
		Size:        st.Size(),
	}, nil
}

// FinalFilename builds the suggested download name from the media title.
// Path separators are replaced so the name cannot escape a directory; the
// extension follows the requested rendition, not the produced file.
func FinalFilename(title *string, audio bool) string {
	name := "media"
	if title != nil && *title != "" {
		name = *title
	}
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)

	if audio {
		return name + "." + extAudio
	}
	return name + "." + extVideo
}
