package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Config struct {
	// WebServer Configuration
	WebServerPort      int      `mapstructure:"WEBSERVER_PORT" validate:"min=1,max=65535"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel           string   `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Temporary artifact storage
	TempDir            string        `mapstructure:"TEMP_DIR" validate:"required"`
	StaleArtifactAge   time.Duration `mapstructure:"STALE_ARTIFACT_AGE" validate:"gt=0"`
	StaleSweepInterval time.Duration `mapstructure:"STALE_SWEEP_INTERVAL" validate:"gt=0"`

	// Extraction engine
	YtdlpPath          string        `mapstructure:"YTDLP_PATH" validate:"required"`
	YtdlpUpdateOnStart bool          `mapstructure:"YTDLP_UPDATE_ON_START"`
	UserAgent          string        `mapstructure:"YTDLP_USER_AGENT"`
	DownloadTimeout    time.Duration `mapstructure:"DOWNLOAD_TIMEOUT" validate:"gte=0"`
	InfoTimeout        time.Duration `mapstructure:"INFO_TIMEOUT" validate:"gte=0"`
	FFmpegPath         string        `mapstructure:"FFMPEG_PATH"`

	// Cookie authentication, passed through to the engine
	CookiesPath   string `mapstructure:"YOUTUBE_COOKIES_PATH"`
	CookieBrowser string `mapstructure:"COOKIE_BROWSER"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag != "" {
			viper.BindEnv(tag)
		}

		// Handle nested structs
		if field.Type.Kind() == reflect.Struct && tag == "" {
			nestedTyp := fieldVal.Type()
			for j := 0; j < fieldVal.NumField(); j++ {
				nestedField := nestedTyp.Field(j)
				nestedTag := nestedField.Tag.Get("mapstructure")
				if nestedTag != "" {
					viper.BindEnv(nestedTag)
				}
			}
		}
	}
	slog.Debug("Environment variables bound")
}

func setDefaults() {
	viper.SetDefault("WEBSERVER_PORT", 8080)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TEMP_DIR", "temp")
	viper.SetDefault("STALE_ARTIFACT_AGE", time.Hour)
	viper.SetDefault("STALE_SWEEP_INTERVAL", 10*time.Minute)
	viper.SetDefault("YTDLP_PATH", "yt-dlp")
	viper.SetDefault("YTDLP_UPDATE_ON_START", false)
	viper.SetDefault("YTDLP_USER_AGENT", DefaultUserAgent)
	viper.SetDefault("DOWNLOAD_TIMEOUT", 30*time.Minute)
	viper.SetDefault("INFO_TIMEOUT", 2*time.Minute)
	viper.SetDefault("FFMPEG_PATH", "ffmpeg")
	viper.SetDefault("COOKIE_BROWSER", "chrome")
}

// BindFlags maps command line flags onto config keys. A flag that was set on
// the command line wins over the environment.
func BindFlags(flags *pflag.FlagSet) error {
	for key, name := range map[string]string{
		"WEBSERVER_PORT": "port",
		"TEMP_DIR":       "temp-dir",
		"LOG_LEVEL":      "log-level",
	} {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	setDefaults()

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	slog.Info("Loaded configuration",
		"port", cfg.WebServerPort,
		"temp_dir", cfg.TempDir,
		"ytdlp_path", cfg.YtdlpPath,
		"download_timeout", cfg.DownloadTimeout,
		"info_timeout", cfg.InfoTimeout,
		"cookies_path", cfg.CookiesPath,
		"cookie_browser", cfg.CookieBrowser,
	)

	if cfg.DownloadTimeout == 0 {
		slog.Warn("DOWNLOAD_TIMEOUT disabled; downloads running longer than STALE_ARTIFACT_AGE may lose files to the stale sweep",
			"stale_artifact_age", cfg.StaleArtifactAge)
	}

	validate := validator.New()
	validate.RegisterStructValidation(validateStaleAge, Config{})
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// validateStaleAge keeps the stale sweep from deleting files of a download
// that is still within its timeout.
func validateStaleAge(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	if c.DownloadTimeout > 0 && c.StaleArtifactAge <= c.DownloadTimeout {
		sl.ReportError(c.StaleArtifactAge, "StaleArtifactAge", "STALE_ARTIFACT_AGE", "gtfield", "DownloadTimeout")
	}
}
