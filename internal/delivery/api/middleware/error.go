package middleware

import (
	"log/slog"
	"net/http"

	"qbank/internal/delivery/api/response"
	deliverycontext "qbank/internal/delivery/context"
	domainerrors "qbank/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError renders err as the response envelope. Anything that maps
// to a 5xx is logged with the request logger and its cause never reaches the client.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, code, message := describe(err)
	if status >= http.StatusInternalServerError {
		logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
		logger.Error("Request failed",
			slog.Any("error", err),
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)

		return
	}
	_ = response.Error(c, status, code, message, domainerrors.Violations(err))
}

// describe maps err to the status, code and message a client may see.
func describe(err error) (int, string, string) {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}

		return httpErr.Code, "HTTP_ERROR", message
	}

	internal := domainerrors.ErrInternalError

	return internal.HTTPCode(), internal.ErrorCode(), internal.Message()
}
