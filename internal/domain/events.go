package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventMeasurementsRecorded = "circuit.measurements_recorded"
	EventCertificateGenerated = "certificate.generated"
	EventTestCompleted        = "test.completed"
)

// Event is a fire-and-forget domain event for downstream audit/notification
// consumers. Publishing failure never rolls back the underlying state change.
type Event struct {
	Name       string         `json:"name"`
	TenantID   uuid.UUID      `json:"tenant_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}
