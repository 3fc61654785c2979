package web

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"thirdcoast.systems/mediagrab/cmd/web/handlers/api/media_api"
	"thirdcoast.systems/mediagrab/cmd/web/handlers/common"
	"thirdcoast.systems/mediagrab/internal/media"
)

// Webserver is the HTTP front of the media service.
type Webserver struct {
	*echo.Echo
	service        *media.Service
	allowedOrigins []string
	cookieAuth     string

	// Request contexts derive from baseCtx so a stalled shutdown can cancel
	// engine calls that are still running.
	baseCtx        context.Context
	cancelRequests context.CancelFunc
	inflight       atomic.Int64
}

// NewWebserver wires the media API onto a fresh echo instance. cookieAuth is
// the human-readable cookie source shown by /health.
func NewWebserver(service *media.Service, allowedOrigins []string, cookieAuth string) (*Webserver, error) {
	baseCtx, cancel := context.WithCancel(context.Background())
	webserver := &Webserver{
		Echo:           echo.New(),
		service:        service,
		allowedOrigins: allowedOrigins,
		cookieAuth:     cookieAuth,
		baseCtx:        baseCtx,
		cancelRequests: cancel,
	}
	webserver.HTTPErrorHandler = common.HTTPErrorHandler
	webserver.Server.BaseContext = func(net.Listener) context.Context { return webserver.baseCtx }

	if err := webserver.setupMiddleware(); err != nil {
		return nil, err
	}

	if err := webserver.registerRoutes(); err != nil {
		return nil, err
	}

	return webserver, nil
}

func (s *Webserver) setupMiddleware() error {
	s.HideBanner = true
	s.HidePort = true
	s.Use(s.trackInflight)
	s.Use(middleware.BodyLimit("2M"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  s.allowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "Range"},
		ExposeHeaders: []string{echo.HeaderContentDisposition, echo.HeaderContentLength, "Content-Range"},
	}))
	s.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		// Media is already compressed and must keep Range support.
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/download"
		},
		Level: 5,
	}))
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/healthz"
		},
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))

	return nil
}

func (s *Webserver) registerRoutes() error {
	s.POST("/info", media_api.HandleInfo(s.service))
	s.GET("/download", media_api.HandleDownload(s.service))
	s.GET("/health", media_api.HandleHealth(s.cookieAuth, s.service.Store().Dir()))

	// Liveness probe
	s.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	return nil
}

func (s *Webserver) trackInflight(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.inflight.Add(1)
		defer s.inflight.Add(-1)
		return next(c)
	}
}

// Inflight returns the number of requests currently being handled.
func (s *Webserver) Inflight() int64 {
	return s.inflight.Load()
}

// GracefulShutdown stops accepting connections and waits for in-flight
// requests until ctx is done. Requests still running then are cancelled and
// their connections closed, which stops engine calls and streams so their
// artifacts get released; GracefulShutdown waits up to drain for that.
func (s *Webserver) GracefulShutdown(ctx context.Context, drain time.Duration) error {
	err := s.Shutdown(ctx)
	if err == nil {
		s.cancelRequests()
		return nil
	}

	slog.Warn("graceful shutdown timed out; cancelling in-flight requests", "inflight", s.Inflight(), "error", err)
	s.cancelRequests()
	if cerr := s.Close(); cerr != nil {
		slog.Warn("failed to close connections", "error", cerr)
	}

	deadline := time.Now().Add(drain)
	for s.Inflight() > 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if n := s.Inflight(); n > 0 {
		slog.Error("abandoned in-flight requests", "count", n)
		return fmt.Errorf("shutdown: %d requests still running after drain", n)
	}
	slog.Info("in-flight requests cancelled and drained")
	return nil
}
