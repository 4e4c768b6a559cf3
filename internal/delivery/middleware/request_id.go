package middleware

import (
	"log/slog"

	deliverycontext "qbank/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxRequestIDLength bounds client supplied ids before they reach the logs.
const maxRequestIDLength = 128

// RequestIDMiddleware tags every request with an id and a logger carrying it.
type RequestIDMiddleware struct {
	logger *slog.Logger
}

// NewRequestIDMiddleware returns a RequestIDMiddleware deriving request loggers from logger.
func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{
		logger: logger,
	}
}

// Process echoes the id back in X-Request-Id and stores it, with the
// request logger, on both the echo context and the request context.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := acceptRequestID(c.Request().Header.Get(deliverycontext.HeaderXRequestID))

		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		reqLogger := m.logger.With(slog.String("request_id", requestID))
		ctx := deliverycontext.WithLogger(
			deliverycontext.WithRequestID(c.Request().Context(), requestID),
			reqLogger,
		)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// acceptRequestID keeps a client id only if it is short printable ASCII.
func acceptRequestID(id string) string {
	if id == "" || len(id) > maxRequestIDLength {
		return uuid.NewString()
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return uuid.NewString()
		}
	}

	return id
}
