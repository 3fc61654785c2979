package media

import (
	"errors"
	"strings"
)

// Messages returned to API callers.
const (
	MsgNoURL          = "No URL provided."
	MsgInfoFailed     = "Failed to fetch video information. The URL might be private or invalid."
	MsgDownloadFailed = "Failed to process the video. The URL may be private, invalid, or the site may have updated."
)

// ValidationError reports a request rejected before any I/O took place.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ProcessingError reports a failure inside the extraction engine. Message is
// the caller-facing summary; Details is the engine's own reason.
type ProcessingError struct {
	Op      string
	Message string
	Details string
	Err     error
}

func (e *ProcessingError) Error() string {
	if e.Details == "" {
		return e.Op + ": " + e.Message
	}
	return e.Op + ": " + e.Message + ": " + e.Details
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// engineMessager is implemented by engine errors that carry a cleaner reason
// than their Error string (ytdlp.ExecError).
type engineMessager interface {
	Message() string
}

func newProcessingError(op, message string, err error) *ProcessingError {
	details := err.Error()
	var em engineMessager
	if errors.As(err, &em) {
		if m := strings.TrimSpace(em.Message()); m != "" {
			details = m
		}
	}
	return &ProcessingError{
		Op:      op,
		Message: message,
		Details: EnrichAuthHint(details),
		Err:     err,
	}
}

const authHint = "The site requires authentication. Configure cookies:\n" +
	"1. Set COOKIE_BROWSER=chrome (or firefox, edge, etc.) to use browser cookies, OR\n" +
	"2. Set YOUTUBE_COOKIES_PATH=/path/to/cookies.txt to use a cookie file.\n" +
	"Original error: "

// LooksLikeAuthRequired reports whether an engine message suggests the site
// wants a signed-in session ("Sign in to confirm you're not a bot").
// Heuristic; it only affects display text.
func LooksLikeAuthRequired(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "bot")
}

// EnrichAuthHint prefixes msg with cookie setup guidance when it looks like
// an authentication failure, and returns it unchanged otherwise.
func EnrichAuthHint(msg string) string {
	if !LooksLikeAuthRequired(msg) {
		return msg
	}
	return authHint + msg
}
