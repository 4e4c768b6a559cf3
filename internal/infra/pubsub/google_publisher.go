package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"

	"qbank/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// googlePubSubPublisher sends account events to a Cloud Pub/Sub topic.
// Events of one user share an ordering key so subscribers see them in order.
type googlePubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topic     string
	logger    *slog.Logger
}

func topicName(projectID, topicID string) string {
	return "projects/" + projectID + "/topics/" + topicID
}

// NewGooglePubSubPublisher connects to projectID and fails if topicID does not exist.
func NewGooglePubSubPublisher(ctx context.Context, projectID, topicID string, logger *slog.Logger, opts ...option.ClientOption) (service.EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	topic := topicName(projectID, topicID)
	if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: topic}); err != nil {
		_ = client.Close()

		return nil, errors.Wrapf(err, "account events topic %s is not available", topic)
	}

	publisher := client.Publisher(topicID)
	publisher.EnableMessageOrdering = true

	logger.Info("Account events go to Google Pub/Sub", slog.String("topic", topic))

	return &googlePubSubPublisher{
		client:    client,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}, nil
}

// PublishAccountEvent blocks until the server acknowledges the message.
func (p *googlePubSubPublisher) PublishAccountEvent(ctx context.Context, event *service.AccountEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:        data,
		Attributes:  eventAttributes(event),
		OrderingKey: event.UserID,
	})

	serverID, err := result.Get(ctx)
	if err != nil {
		// A failed ordered publish pauses the key until resumed.
		p.publisher.ResumePublish(event.UserID)

		return errors.Wrapf(err, "failed to publish %s event to %s", event.Type, p.topic)
	}

	p.logger.Debug("[GooglePubSub] Event published",
		slog.String("event_type", event.Type),
		slog.String("event_id", event.EventID),
		slog.String("server_id", serverID),
	)

	return nil
}

// Close flushes pending messages and closes the client.
func (p *googlePubSubPublisher) Close() error {
	p.publisher.Stop()

	return errors.WithStack(p.client.Close())
}
