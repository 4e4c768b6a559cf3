package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"qbank/config"
	"qbank/internal/delivery"
	apimiddleware "qbank/internal/delivery/api/middleware"
	"qbank/internal/delivery/api/router"
	"qbank/internal/delivery/middleware"
	"qbank/internal/domain/lifecycle"
	"qbank/internal/errors"
	"qbank/internal/validation"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

type apiServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for HTTP server, injected by Fx.
type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	RouterParams router.RouterParams
}

func NewServer(params ServerParams) (delivery.Delivery, error) {
	echoServer := newEcho(params.Cfg, params.Logger, params.RouterParams)

	srv := &apiServer{
		cfg:    params.Cfg,
		logger: params.Logger,
		server: echoServer,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// newEcho builds the handler chain without binding a listener.
func newEcho(cfg *config.Config, logger *slog.Logger, routerParams router.RouterParams) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	timeouts := cfg.HTTP.Timeouts
	e.Server.ReadTimeout = timeouts.ReadTimeout
	e.Server.ReadHeaderTimeout = timeouts.ReadHeaderTimeout
	e.Server.WriteTimeout = timeouts.WriteTimeout
	e.Server.IdleTimeout = timeouts.IdleTimeout

	// Order matters: the request id must exist before the access log reads
	// it, and the access log must wrap everything that can fail.
	e.Use(
		echomiddleware.Recover(),
		middleware.NewRequestIDMiddleware(logger).Process,
		middleware.NewLoggerMiddleware(logger, cfg).Handle,
		echomiddleware.CORS(),
		echomiddleware.BodyLimit(cfg.HTTP.MaxRequestBodySize),
	)

	e.HTTPErrorHandler = apimiddleware.NewErrorMiddleware(logger).HandleHTTPError
	e.Validator = validation.Default()

	router.NewRouter(routerParams).RegisterRoutes(e)

	return e
}

func (s *apiServer) Serve(ctx context.Context) error {
	addr := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Account API listening", slog.String("addr", addr))

	err := s.server.StartH2CServer(addr, &http2.Server{IdleTimeout: s.cfg.HTTP.Timeouts.IdleTimeout})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *apiServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Account API shutting down")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
