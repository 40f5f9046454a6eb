package domain

import (
	"context"
	"time"
)

// RoutingKeyPrioritiesApplied is the routing key for apply notifications.
const RoutingKeyPrioritiesApplied = "priority.applied"

// PrioritiesApplied announces that an apply run rewrote at least one task
// priority. Downstream views (dashboards, notification fan-out) consume it.
type PrioritiesApplied struct {
	ProjectID    string    `json:"project_id,omitempty"`
	TaskIDs      []string  `json:"task_ids"`
	UpdatedCount int64     `json:"updated_count"`
	AppliedAt    time.Time `json:"applied_at"`
}

// EventPublisher is the outbound port for integration events. Publishing is
// best-effort from the orchestrator's perspective.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}
