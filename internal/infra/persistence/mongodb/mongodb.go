// Package mongodb contains the document-store implementation of the persistence layer.
package mongodb

import (
	"context"
	"log/slog"
	"time"

	"qbank/config"
	"qbank/internal/domain/lifecycle"
	"qbank/internal/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
)

const (
	usersCollection     = "users"
	questionsCollection = "questions"

	defaultConnectTimeout = 10 * time.Second
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New connects to MongoDB and returns the configured database.
// The connection is verified and indexes are ensured when the application starts.
func New(params Params) (*mongo.Database, error) {
	cfg := params.Config.Mongo
	if cfg == nil {
		return nil, errors.New("mongo configuration is missing")
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(connectTimeout).
		SetAppName(params.Config.Env.ServiceName)

	client, err := mongo.Connect(context.Background(), clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MongoDB client")
	}

	db := client.Database(cfg.Database)

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				return errors.Wrap(err, "failed to ping MongoDB")
			}

			if err := EnsureIndexes(ctx, db); err != nil {
				return err
			}

			params.Logger.Info("MongoDB connected", slog.String("database", cfg.Database))

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			return client.Disconnect(stopCtx)
		},
	})

	return db, nil
}

// EnsureIndexes creates the unique email index backing signup's uniqueness check.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create users email index")
	}

	return nil
}

// withTimeout bounds a single store operation when a timeout is configured.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, timeout)
}

func operationTimeout(cfg *config.Config) time.Duration {
	if cfg == nil || cfg.Mongo == nil {
		return 0
	}

	return cfg.Mongo.OperationTimeout
}
