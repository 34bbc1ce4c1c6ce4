package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HTTPStatus maps an error kind to its HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorHandler returns the central echo error handler. Classified errors
// surface their message with the mapped status; everything else is logged and
// answered with a generic 500 so internals never leak to clients.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, map[string]interface{}{"error": he.Message})
			return
		}

		var ae *Error
		if errors.As(err, &ae) {
			status := HTTPStatus(ae)
			if status == http.StatusInternalServerError {
				rid, _ := c.Get("request_id").(string)
				logger.Error().Err(err).Str("request_id", rid).Msg("internal error")
				_ = c.JSON(status, map[string]string{"error": "internal server error"})
				return
			}
			_ = c.JSON(status, map[string]string{"error": ae.Message})
			return
		}

		rid, _ := c.Get("request_id").(string)
		logger.Error().Err(err).Str("request_id", rid).Msg("unhandled error")
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
