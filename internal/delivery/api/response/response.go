package response

import (
	"net/http"

	deliverycontext "qbank/internal/delivery/context"
	domainerrors "qbank/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// Envelope is the body of every API response.
type Envelope struct {
	Status  bool                          `json:"status"`
	Code    string                        `json:"code,omitempty"`    // Machine-readable error code, e.g., "EMAIL_TAKEN"
	Message string                        `json:"message,omitempty"` // User-friendly message
	Errors  []domainerrors.FieldViolation `json:"errors,omitempty"`  // Rejected input fields
	Data    any                           `json:"data,omitempty"`
	Meta    *MetaInfo                     `json:"meta"`
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"` // Request tracking ID
}

// Success returns a successful response carrying data
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, Envelope{
		Status: true,
		Data:   data,
		Meta:   newMeta(c),
	})
}

// Message returns a successful response carrying only an acknowledgement
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Envelope{
		Status:  true,
		Message: message,
		Meta:    newMeta(c),
	})
}

// Error returns an error response
func Error(c echo.Context, statusCode int, errorCode string, message string, violations []domainerrors.FieldViolation) error {
	// Field details are only meaningful for client errors
	if statusCode >= http.StatusInternalServerError {
		violations = nil
	}

	return c.JSON(statusCode, Envelope{
		Status:  false,
		Code:    errorCode,
		Message: message,
		Errors:  violations,
		Meta:    newMeta(c),
	})
}

func newMeta(c echo.Context) *MetaInfo {
	return &MetaInfo{
		RequestID: deliverycontext.GetRequestID(c),
	}
}
