package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"qbank/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEcho returns an echo instance rendering errors the way the API does.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(newDiscardLogger()).HandleHTTPError

	return e
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()

	var body response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}
