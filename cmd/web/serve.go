package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"thirdcoast.systems/mediagrab/cmd/web/internal/web"
	"thirdcoast.systems/mediagrab/internal/application"
	"thirdcoast.systems/mediagrab/internal/config"
	"thirdcoast.systems/mediagrab/internal/media"
	"thirdcoast.systems/mediagrab/pkg/ffmpeg"
	"thirdcoast.systems/mediagrab/pkg/ytdlp"
)

const (
	// shutdownTimeout is how long in-flight requests may finish on their own.
	shutdownTimeout = 30 * time.Second
	// drainTimeout is how long cancelled requests get to release artifacts.
	drainTimeout = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	slog.Info("Starting web service", "version", version)

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogging(conf.LogLevel)

	tempDir, err := application.InitTempDir(conf.TempDir)
	if err != nil {
		return err
	}

	auth := application.ResolveCookieAuth(conf.CookiesPath, conf.CookieBrowser)
	client := application.NewYtdlpClient(*conf, auth)

	if conf.YtdlpUpdateOnStart {
		slog.Info("Updating yt-dlp")
		if err := client.Update(ctx); err != nil {
			slog.Warn("yt-dlp update failed", "error", err)
		}
	}
	checkTools(ctx, client, conf)

	store, err := media.NewArtifactStore(tempDir)
	if err != nil {
		return err
	}
	svc, err := media.NewService(
		media.NewYtdlpExtractor(client, application.YouTubeExtractorArgs),
		store,
		media.WithDownloadTimeout(conf.DownloadTimeout),
		media.WithInfoTimeout(conf.InfoTimeout),
	)
	if err != nil {
		return err
	}

	s, err := web.NewWebserver(svc, conf.CORSAllowedOrigins, auth.Method())
	if err != nil {
		return fmt.Errorf("create webserver: %w", err)
	}

	addr := ":" + strconv.Itoa(conf.WebServerPort)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Listening", "addr", addr)
		if err := s.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.GracefulShutdown(shutdownCtx, drainTimeout); err != nil {
			slog.Warn("graceful shutdown incomplete", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		return application.RunJanitor(gctx, store, conf.StaleSweepInterval, conf.StaleArtifactAge)
	})

	err = g.Wait()
	slog.Info("Web service stopped")
	return err
}

// checkTools logs the engine and ffmpeg versions. Missing tools are reported
// but do not stop the server; requests will fail with the engine's reason.
func checkTools(ctx context.Context, client *ytdlp.Client, conf *config.Config) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if v, err := client.Version(ctx); err != nil {
		slog.Warn("yt-dlp not available", "path", conf.YtdlpPath, "error", err)
	} else {
		slog.Info("yt-dlp ready", "path", conf.YtdlpPath, "version", v)
	}

	if v, err := ffmpeg.Version(ctx, conf.FFmpegPath); err != nil {
		slog.Warn("ffmpeg not available; merging and audio extraction will fail", "path", conf.FFmpegPath, "error", err)
	} else {
		slog.Info("ffmpeg ready", "path", conf.FFmpegPath, "version", v)
	}
}
