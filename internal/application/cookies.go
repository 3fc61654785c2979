package application

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// CookieAuth is the cookie source handed to the extraction engine. At most one
// of File and Browser is set.
type CookieAuth struct {
	File    string
	Browser string
}

// Method describes the active cookie source for the health endpoint.
func (a CookieAuth) Method() string {
	switch {
	case a.File != "":
		return "file: " + a.File
	case a.Browser != "":
		return "browser: " + a.Browser
	default:
		return "none"
	}
}

// ResolveCookieAuth picks the cookie source. An existing cookies file wins; a
// configured but missing file falls back to the browser with a warning. An
// empty browser name disables browser cookies.
func ResolveCookieAuth(path, browser string) CookieAuth {
	path = strings.TrimSpace(path)
	browser = strings.TrimSpace(browser)

	if path != "" {
		st, err := os.Stat(path)
		switch {
		case err == nil && st.Mode().IsRegular():
			slog.Info("Using cookies file", "path", path)
			return CookieAuth{File: path}
		case err == nil:
			slog.Warn("Cookies path is not a regular file, ignoring", "path", path)
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("Cookies file not found, ignoring", "path", path)
		default:
			slog.Warn("Cookies file not readable, ignoring", "path", path, "error", err)
		}
	}

	if browser != "" {
		slog.Info("Using browser cookies", "browser", browser)
		return CookieAuth{Browser: browser}
	}

	slog.Warn("No cookie source configured; some sites may refuse requests")
	return CookieAuth{}
}
