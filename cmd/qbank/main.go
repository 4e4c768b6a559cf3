package main

import (
	"context"
	"log/slog"

	"qbank/config"
	"qbank/internal/delivery"
	"qbank/internal/delivery/api"
	"qbank/internal/delivery/api/middleware"
	"qbank/internal/delivery/api/router/handler"
	"qbank/internal/infra/auth"
	logs "qbank/internal/infra/log"
	"qbank/internal/infra/persistence"
	"qbank/internal/infra/pubsub"
	"qbank/internal/usecase/impl"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			persistence.New,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
		),
		pubsub.Module,
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// startServer runs every delivery once the stores are up. A delivery that
// stops with an error shuts the whole application down.
func startServer(ctx context.Context, params startServerParams) {
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, d := range params.Deliveries {
				go func() {
					if err := d.Serve(ctx); err != nil {
						params.Logger.Error("Delivery stopped", slog.Any("error", err))
						_ = params.Shutdown(fx.ExitCode(1))
					}
				}()
			}

			return nil
		},
	})
}
