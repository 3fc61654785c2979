package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"thirdcoast.systems/mediagrab/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mediagrab",
		Short:         "HTTP service that fetches media info and downloads through yt-dlp",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.BindFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.PersistentFlags().Int("port", 8080, "HTTP listen port (WEBSERVER_PORT)")
	root.PersistentFlags().String("temp-dir", "temp", "Directory for temporary download artifacts (TEMP_DIR)")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error (LOG_LEVEL)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newUpdateCmd())

	return root
}

// setupLogging installs the process-wide slog handler.
func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
