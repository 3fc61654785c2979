package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"thirdcoast.systems/mediagrab/internal/application"
	"thirdcoast.systems/mediagrab/internal/config"
	"thirdcoast.systems/mediagrab/pkg/ffmpeg"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print mediagrab, yt-dlp and ffmpeg versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			setupLogging("error")

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mediagrab %s\n", version)
			fmt.Fprintf(out, "yt-dlp    %s\n", toolVersion(func() (string, error) {
				return application.NewYtdlpClient(*conf, application.CookieAuth{}).Version(cmd.Context())
			}))
			fmt.Fprintf(out, "ffmpeg    %s\n", toolVersion(func() (string, error) {
				return ffmpeg.Version(cmd.Context(), conf.FFmpegPath)
			}))
			return nil
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update yt-dlp in place (yt-dlp -U)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			setupLogging(conf.LogLevel)

			client := application.NewYtdlpClient(*conf, application.CookieAuth{})
			if err := client.Update(cmd.Context()); err != nil {
				return fmt.Errorf("update yt-dlp: %w", err)
			}
			v, err := client.Version(cmd.Context())
			if err != nil {
				return fmt.Errorf("yt-dlp version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "yt-dlp %s\n", v)
			return nil
		},
	}
}

func toolVersion(fn func() (string, error)) string {
	v, err := fn()
	if err != nil {
		return "unavailable (" + err.Error() + ")"
	}
	return v
}

