package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "qbank/internal/delivery/context"
	"qbank/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	localPublishTimeout = 5 * time.Second

	// localSubscription names the push subscription a local consumer sees.
	localSubscription = "projects/local/subscriptions/account-events-sub"
)

// PushEnvelope is the body Google Pub/Sub POSTs to push subscribers.
// The local publisher sends the same shape so consumers run unchanged.
type PushEnvelope struct {
	Message      PushMessage `json:"message"`
	Subscription string      `json:"subscription"`
}

// PushMessage is the message part of a PushEnvelope. Data is base64 JSON.
type PushMessage struct {
	Data        string            `json:"data"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	MessageID   string            `json:"messageId"`
	PublishTime string            `json:"publishTime"`
}

// localHTTPPublisher posts account events to a development endpoint.
type localHTTPPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewLocalHTTPPublisher creates a new local HTTP publisher for development
func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: localPublishTimeout,
		},
		logger: logger,
	}
}

// newPushEnvelope wraps event the way a push subscription would deliver it.
func newPushEnvelope(event *service.AccountEvent) (*PushEnvelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	publishTime := event.OccurredAt
	if publishTime.IsZero() {
		publishTime = time.Now()
	}

	return &PushEnvelope{
		Message: PushMessage{
			Data:        base64.StdEncoding.EncodeToString(data),
			Attributes:  eventAttributes(event),
			MessageID:   event.EventID,
			PublishTime: publishTime.UTC().Format(time.RFC3339Nano),
		},
		Subscription: localSubscription,
	}, nil
}

// PublishAccountEvent POSTs the event and treats any non-2xx answer as a failure.
func (p *localHTTPPublisher) PublishAccountEvent(ctx context.Context, event *service.AccountEvent) error {
	envelope, err := newPushEnvelope(event)
	if err != nil {
		return err
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if event.RequestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, event.RequestID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to post %s event", event.Type)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("event endpoint returned non-success status: %d", resp.StatusCode)
	}

	p.logger.Debug("[LocalPubSub] Event delivered",
		slog.String("endpoint", p.endpoint),
		slog.String("event_type", event.Type),
		slog.String("event_id", event.EventID),
	)

	return nil
}

// Close drops idle keep-alive connections to the endpoint.
func (p *localHTTPPublisher) Close() error {
	p.httpClient.CloseIdleConnections()

	return nil
}
