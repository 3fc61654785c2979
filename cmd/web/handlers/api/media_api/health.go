package media_api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "mediagrab"

// HealthResponse describes the runtime setup of the service.
type HealthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	CookieAuth string `json:"cookie_auth"`
	TempDir    string `json:"temp_dir"`
}

// HandleHealth reports the active cookie source and the temp directory.
func HandleHealth(cookieAuth, tempDir string) echo.HandlerFunc {
	resp := HealthResponse{
		Status:     "healthy",
		Service:    ServiceName,
		CookieAuth: cookieAuth,
		TempDir:    tempDir,
	}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, resp)
	}
}
