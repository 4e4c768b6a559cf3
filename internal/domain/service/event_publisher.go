package service

import (
	"context"
	"time"
)

// Account event types.
const (
	EventUserRegistered      = "user.registered"
	EventUserPasswordUpdated = "user.password_updated"
	EventUserDeleted         = "user.deleted"
)

// AccountEvent describes a change to an account for downstream consumers.
type AccountEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	ActorID    string    `json:"actor_id,omitempty"` // Admin who triggered the change, when not the user
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAccountEvent delivers the event to the configured topic
	PublishAccountEvent(ctx context.Context, event *AccountEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
