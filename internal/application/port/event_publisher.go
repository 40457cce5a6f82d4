package port

import (
	"context"
)

// Subjects for incident lifecycle events
const (
	SubjectIncidentTriggered  = "chaos.incident.triggered"
	SubjectIncidentRecovering = "chaos.incident.recovering"
	SubjectIncidentRecovered  = "chaos.incident.recovered"
)

// EventPublisher defines the interface for publishing events to a message broker
type EventPublisher interface {
	// PublishEvent publishes an event to the specified subject
	PublishEvent(ctx context.Context, subject string, event interface{}) error

	// Close closes the connection to the message broker
	Close() error
}
