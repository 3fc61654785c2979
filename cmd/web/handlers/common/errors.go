package common

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/mediagrab/internal/media"
)

// MsgInvalidBody is returned when a JSON request body cannot be decoded.
const MsgInvalidBody = "Invalid request body."

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrBadRequest returns a 400 Bad Request error.
func ErrBadRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// ErrInternal returns a 500 Internal Server Error.
func ErrInternal(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}

// HTTPErrorHandler renders handler errors as JSON. Validation failures map to
// 400, engine failures to 500 with the engine reason in details, and echo's
// own errors keep their status code.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		slog.Warn("error after response was committed", "path", c.Request().URL.Path, "error", err)
		return
	}

	code, body := errorResponse(err)
	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request().Method, "path", c.Request().URL.Path, "status", code, "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, body)
	}
	if werr != nil {
		slog.Error("failed to write error response", "error", werr)
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var ve *media.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrorResponse{Error: ve.Message}
	}

	var pe *media.ProcessingError
	if errors.As(err, &pe) {
		return http.StatusInternalServerError, ErrorResponse{Error: pe.Message, Details: pe.Details}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, ErrorResponse{Error: msg}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)}
}
