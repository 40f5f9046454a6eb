package eventbus

import (
	"context"

	"github.com/callsheethq/callsheet/internal/priority/domain"
)

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that drops everything.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish discards the message.
func (p *NoopPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	return nil
}

// Close is a no-op.
func (p *NoopPublisher) Close() error { return nil }

var _ domain.EventPublisher = (*NoopPublisher)(nil)
