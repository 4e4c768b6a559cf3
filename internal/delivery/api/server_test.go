package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"qbank/config"
	apimiddleware "qbank/internal/delivery/api/middleware"
	"qbank/internal/delivery/api/response"
	"qbank/internal/delivery/api/router"
	"qbank/internal/delivery/api/router/handler"
	deliverycontext "qbank/internal/delivery/context"
	domainerrors "qbank/internal/domain/errors"
	"qbank/internal/domain/service"
	"qbank/internal/infra/auth"
	mockUsecase "qbank/internal/mocks/usecase"
	"qbank/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

type serverFixture struct {
	echo   *echo.Echo
	uc     *mockUsecase.MockUserUsecase
	tokens service.TokenService
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HTTP.Port = 0
	cfg.HTTP.MaxRequestBodySize = "1KB"
	cfg.SecretKey.Access = "server-test-secret"

	return cfg
}

func newServerFixture(t *testing.T) serverFixture {
	cfg := newTestConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	uc := mockUsecase.NewMockUserUsecase(t)

	e := newEcho(cfg, logger, router.RouterParams{
		UserHandler:    handler.NewUserHandler(uc),
		AuthMiddleware: apimiddleware.NewAuthMiddleware(tokens, uc),
	})

	return serverFixture{echo: e, uc: uc, tokens: tokens}
}

func (f serverFixture) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())

	return rec, envelope
}

func (f serverFixture) issue(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token, err := f.tokens.Issue(userID)
	require.NoError(t, err)

	return token
}

func TestServer_RoutesMountedUnderBothPrefixes(t *testing.T) {
	for _, prefix := range []string{"/user", "/api/user"} {
		t.Run(prefix, func(t *testing.T) {
			f := newServerFixture(t)
			f.uc.EXPECT().Login(mock.Anything, &usecase.LoginInput{Email: "alice@example.com", Password: "secret1"}).
				Return(&usecase.AuthOutput{Token: "tok", Name: "Alice"}, nil)

			rec, body := f.do(t, http.MethodPost, prefix+"/login", "", `{"email":"alice@example.com","password":"secret1"}`)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, body.Status)
			assert.Equal(t, map[string]any{"token": "tok", "isAdmin": false, "name": "Alice"}, body.Data)
			assert.Equal(t, rec.Header().Get(deliverycontext.HeaderXRequestID), body.Meta.RequestID)
		})
	}
}

func TestServer_ProtectedRoutesRequireToken(t *testing.T) {
	f := newServerFixture(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/user/me"},
		{http.MethodPut, "/user/update-password"},
		{http.MethodGet, "/user/all"},
		{http.MethodDelete, "/user/delete/" + uuid.NewString()},
	}
	for _, route := range routes {
		rec, body := f.do(t, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
		assert.Equal(t, "NO_TOKEN", body.Code, route.path)

		rec, body = f.do(t, route.method, route.path, "not-a-jwt", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
		assert.Equal(t, "INVALID_TOKEN", body.Code, route.path)
	}
}

func TestServer_MeWithValidToken(t *testing.T) {
	f := newServerFixture(t)
	userID := uuid.New()
	f.uc.EXPECT().Me(mock.Anything, userID).Return(&usecase.UserView{Name: "Alice", Email: "alice@example.com"}, nil)

	rec, body := f.do(t, http.MethodGet, "/user/me", f.issue(t, userID), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice", body.Data.(map[string]any)["name"])
}

func TestServer_AdminGate(t *testing.T) {
	adminID := uuid.New()
	userID := uuid.New()

	t.Run("non admin is forbidden before the handler runs", func(t *testing.T) {
		f := newServerFixture(t)
		f.uc.EXPECT().IsAdmin(mock.Anything, userID).Return(false, nil)

		rec, body := f.do(t, http.MethodGet, "/user/all", f.issue(t, userID), "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", body.Code)
	})

	t.Run("admin lists users", func(t *testing.T) {
		f := newServerFixture(t)
		f.uc.EXPECT().IsAdmin(mock.Anything, adminID).Return(true, nil)
		f.uc.EXPECT().GetAllUsers(mock.Anything).Return([]*usecase.UserView{{ID: userID.String(), Name: "Bob"}}, nil)

		rec, body := f.do(t, http.MethodGet, "/api/user/all", f.issue(t, adminID), "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, body.Data, 1)
	})

	t.Run("admin deletes a user", func(t *testing.T) {
		f := newServerFixture(t)
		f.uc.EXPECT().IsAdmin(mock.Anything, adminID).Return(true, nil)
		f.uc.EXPECT().DeleteUser(mock.Anything, adminID, userID).Return(nil)

		rec, body := f.do(t, http.MethodDelete, "/user/delete/"+userID.String(), f.issue(t, adminID), "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user deleted", body.Message)
	})
}

func TestServer_ValidationErrorsListFields(t *testing.T) {
	f := newServerFixture(t)
	f.uc.EXPECT().Signup(mock.Anything, mock.Anything).Return(nil, domainerrors.NewValidationError([]domainerrors.FieldViolation{
		{Field: "email", Message: "Please enter a valid email"},
		{Field: "password", Message: "Please enter a valid password"},
	}))

	rec, body := f.do(t, http.MethodPost, "/user/signup", "", `{"name":"Alice","email":"nope","password":"123"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.Status)
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	assert.Len(t, body.Errors, 2)
}

func TestServer_BodyLimitAndUnknownRoute(t *testing.T) {
	f := newServerFixture(t)

	rec, body := f.do(t, http.MethodPost, "/user/signup", "", `{"name":"`+strings.Repeat("a", 2048)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "HTTP_ERROR", body.Code)

	rec, body = f.do(t, http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Status)
}

func TestServer_Health(t *testing.T) {
	f := newServerFixture(t)

	rec, body := f.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Status)
}

func TestNewServer_StopsWithLifecycle(t *testing.T) {
	cfg := newTestConfig()
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	uc := mockUsecase.NewMockUserUsecase(t)

	lc := fxtest.NewLifecycle(t)
	srv, err := NewServer(ServerParams{
		Lc:     lc,
		Cfg:    cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		RouterParams: router.RouterParams{
			UserHandler:    handler.NewUserHandler(uc),
			AuthMiddleware: apimiddleware.NewAuthMiddleware(tokens, uc),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, srv)

	lc.RequireStart().RequireStop()
}
