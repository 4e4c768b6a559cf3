package context

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newEchoContext() echo.Context {
	e := echo.New()

	return e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
}

func TestRequestID(t *testing.T) {
	c := newEchoContext()

	generated := GetRequestID(c)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err, "missing request id falls back to a fresh uuid")

	SetRequestID(c, "req-1")
	assert.Equal(t, "req-1", GetRequestID(c))

	ctx := WithRequestID(context.Background(), "req-2")
	assert.Equal(t, "req-2", GetRequestIDFromContext(ctx))
	assert.Empty(t, GetRequestIDFromContext(context.Background()))
}

func TestLoggerOrDefault(t *testing.T) {
	fallback := slog.Default()
	scoped := slog.New(slog.NewTextHandler(httptest.NewRecorder(), nil))

	assert.Same(t, fallback, GetLoggerOrDefault(context.Background(), fallback))
	assert.Same(t, scoped, GetLoggerOrDefault(WithLogger(context.Background(), scoped), fallback))
}

func TestUserID(t *testing.T) {
	c := newEchoContext()

	_, ok := GetUserID(c)
	assert.False(t, ok)

	SetUserID(c, uuid.Nil)
	_, ok = GetUserID(c)
	assert.False(t, ok)

	id := uuid.New()
	SetUserID(c, id)
	got, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestRequestIDFallsBackToRequestContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRequestID(req.Context(), "from-ctx"))
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "from-ctx", GetRequestID(c))
}
