package media_api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/mediagrab/cmd/web/handlers/common"
	"thirdcoast.systems/mediagrab/internal/media"
)

// DownloadService produces a downloaded file for a URL and quality.
type DownloadService interface {
	Download(ctx context.Context, url, quality string) (*media.FileResult, error)
}

// HandleDownload downloads the requested rendition and streams it as an
// attachment. The temporary artifact is released once the response is
// written, including when the client disconnects mid-stream.
func HandleDownload(svc DownloadService) echo.HandlerFunc {
	return func(c echo.Context) error {
		url := c.QueryParam("url")
		quality := c.QueryParam("quality")

		slog.Info("download request", "url", url, "quality", quality)
		result, err := svc.Download(c.Request().Context(), url, quality)
		if err != nil {
			return err
		}
		defer result.Release()

		f, err := result.Open()
		if err != nil {
			return &media.ProcessingError{Op: "download", Message: media.MsgDownloadFailed, Details: err.Error(), Err: err}
		}
		defer f.Close()

		st, err := f.Stat()
		if err != nil {
			return &media.ProcessingError{Op: "download", Message: media.MsgDownloadFailed, Details: err.Error(), Err: err}
		}

		h := c.Response().Header()
		h.Set(echo.HeaderContentDisposition, common.AttachmentDisposition(result.Filename))
		h.Set(echo.HeaderContentType, result.ContentType)
		h.Set(echo.HeaderCacheControl, "no-store")

		// http.ServeContent handles Range requests and sets Content-Length.
		http.ServeContent(c.Response(), c.Request(), "", st.ModTime(), f)
		return nil
	}
}
