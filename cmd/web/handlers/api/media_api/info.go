// Package media_api provides the media info and download API handlers.
package media_api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/mediagrab/cmd/web/handlers/common"
	"thirdcoast.systems/mediagrab/internal/media"
)

// InfoService fetches media metadata.
type InfoService interface {
	Info(ctx context.Context, url string) (*media.VideoInfo, error)
}

type infoRequest struct {
	URL string `json:"url"`
}

// HandleInfo returns the title, thumbnail and user-facing formats of a URL.
func HandleInfo(svc InfoService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req infoRequest
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest(common.MsgInvalidBody)
		}

		slog.Info("info request", "url", req.URL)
		info, err := svc.Info(c.Request().Context(), req.URL)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, info)
	}
}
