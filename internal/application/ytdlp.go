package application

import (
	"log/slog"

	"thirdcoast.systems/mediagrab/internal/config"
	"thirdcoast.systems/mediagrab/pkg/ffmpeg"
	"thirdcoast.systems/mediagrab/pkg/ytdlp"
)

// YouTubeExtractorArgs asks yt-dlp to try several player clients, which gets
// past most format restrictions without cookies.
const YouTubeExtractorArgs = "youtube:player_client=android,web,ios"

// DefaultHeaders are sent with every engine request.
var DefaultHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-us,en;q=0.5",
	"Sec-Fetch-Mode":  "navigate",
}

// NewYtdlpClient builds the shared engine client from configuration.
func NewYtdlpClient(conf config.Config, auth CookieAuth) *ytdlp.Client {
	headers := make(map[string]string, len(DefaultHeaders))
	for k, v := range DefaultHeaders {
		headers[k] = v
	}

	client := ytdlp.New()
	client.Path = conf.YtdlpPath
	client.UserAgent = conf.UserAgent
	client.Headers = headers
	client.CookiesFile = auth.File
	client.CookiesFromBrowser = auth.Browser
	if conf.FFmpegPath != "" && conf.FFmpegPath != ffmpeg.DefaultPath {
		client.ExtraArgs = append(client.ExtraArgs, "--ffmpeg-location", conf.FFmpegPath)
	}
	client.LogCallback = func(stream, line string) {
		slog.Debug("ytdlp", "stream", stream, "line", line)
	}
	return client
}
