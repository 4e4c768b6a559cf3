package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	deliverycontext "qbank/internal/delivery/context"
	domainerrors "qbank/internal/domain/errors"
	"qbank/internal/domain/service"
	"qbank/internal/errors"
	"qbank/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	bearerPrefix = "Bearer "

	// HeaderXAuthToken carries a raw token for clients that predate bearer auth.
	HeaderXAuthToken = "X-Auth-Token"
)

// AuthMiddleware provides middleware for token authentication and the admin gate.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	uc       usecase.UserUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, uc usecase.UserUsecase) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, uc: uc}
}

// Authenticate verifies the caller's token and stores the user id on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := extractToken(c.Request())
		if err != nil {
			return err
		}

		userID, err := m.tokenSvc.Verify(token)
		if err != nil {
			return errors.WithStack(err)
		}

		deliverycontext.SetUserID(c, userID)

		ctx := c.Request().Context()
		if logger := deliverycontext.GetLogger(ctx); logger != nil {
			ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("user_id", userID.String())))
			c.SetRequest(c.Request().WithContext(ctx))
		}

		return next(c)
	}
}

// RequireAdmin rejects callers whose account is not an active admin.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := deliverycontext.GetUserID(c)
		if !ok {
			return errors.WithStack(domainerrors.ErrNoToken)
		}

		isAdmin, err := m.uc.IsAdmin(c.Request().Context(), userID)
		if err != nil {
			return errors.WithStack(err)
		}
		if !isAdmin {
			return errors.WithStack(domainerrors.ErrForbidden)
		}

		return next(c)
	}
}

// extractToken reads the bearer token, falling back to the X-Auth-Token header.
func extractToken(req *http.Request) (string, error) {
	if header := req.Header.Get(echo.HeaderAuthorization); header != "" {
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			return "", errors.Wrap(domainerrors.ErrInvalidToken, "authorization header is not a bearer token")
		}

		return strings.TrimSpace(header[len(bearerPrefix):]), nil
	}

	if token := strings.TrimSpace(req.Header.Get(HeaderXAuthToken)); token != "" {
		return token, nil
	}

	return "", errors.WithStack(domainerrors.ErrNoToken)
}
