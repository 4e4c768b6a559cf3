// Package persistence selects the store backing user records and questions.
package persistence

import (
	"log/slog"

	"qbank/config"
	"qbank/internal/domain/repository"
	"qbank/internal/errors"
	"qbank/internal/infra/persistence/mongodb"
	"qbank/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Repositories are the store-backed repositories handed to the usecase layer.
type Repositories struct {
	fx.Out

	UserRepo     repository.UserRepository
	QuestionRepo repository.QuestionRepository
}

// New opens the configured store and builds its repositories.
func New(params Params) (Repositories, error) {
	switch params.Config.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Repositories{}, err
		}
		params.Logger.Info("Using PostgreSQL store")

		return Repositories{
			UserRepo:     postgres.NewUserRepository(db),
			QuestionRepo: postgres.NewQuestionRepository(db),
		}, nil
	case config.StoreDriverMongo, "":
		db, err := mongodb.New(mongodb.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Repositories{}, err
		}
		params.Logger.Info("Using MongoDB store")

		return Repositories{
			UserRepo:     mongodb.NewUserRepository(db, params.Config),
			QuestionRepo: mongodb.NewQuestionRepository(db, params.Config),
		}, nil
	default:
		return Repositories{}, errors.Errorf("unsupported store driver %q", params.Config.Store.Driver)
	}
}
