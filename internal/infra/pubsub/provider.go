// Package pubsub publishes account events to Google Pub/Sub or, for local
// development, to an HTTP endpoint that mimics Pub/Sub push delivery.
package pubsub

import (
	"context"
	"log/slog"

	"qbank/config"
	"qbank/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// noopPublisher drops events when no provider is configured.
type noopPublisher struct {
	logger *slog.Logger
}

func (p *noopPublisher) PublishAccountEvent(_ context.Context, event *service.AccountEvent) error {
	p.logger.Debug("[NoopPubSub] Event dropped",
		slog.String("event_type", event.Type),
		slog.String("user_id", event.UserID),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewEventPublisher picks the publisher for the configured provider and
// closes it when the application stops.
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	publisher, err := newPublisher(params.Ctx, params.Config.PubSub, params.Logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			params.Logger.Info("Closing account event publisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

func newPublisher(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error) {
	if cfg == nil || cfg.Provider == "" {
		logger.Info("PubSub not configured, account events are dropped")

		return &noopPublisher{logger: logger}, nil
	}

	switch cfg.Provider {
	case config.PubSubProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("local endpoint is required for local provider")
		}
		logger.Info("Account events go to local endpoint", slog.String("endpoint", cfg.LocalEndpoint))

		return NewLocalHTTPPublisher(cfg.LocalEndpoint, logger), nil

	case config.PubSubProviderGoogle:
		switch {
		case cfg.ProjectID == "":
			return nil, errors.New("project ID is required for google provider")
		case cfg.TopicID == "":
			return nil, errors.New("topic ID is required for google provider")
		}

		return NewGooglePubSubPublisher(ctx, cfg.ProjectID, cfg.TopicID, logger)

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}
}

// eventAttributes are attached to every message for subscription filtering and tracing.
func eventAttributes(event *service.AccountEvent) map[string]string {
	attributes := map[string]string{
		"event_type": event.Type,
		"user_id":    event.UserID,
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}

// Module provides the Pub/Sub FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewEventPublisher),
)
