package entities

import (
	"fmt"
	"time"
)

// Queue event types published on the event bus for hospital dashboards.
const (
	EventQueueEntryCreated  = "queue_entry.created"
	EventQueueEntryUpdated  = "queue_entry.updated"
	EventAdmissionRequested = "admission_request.created"
	EventAdmissionResolved  = "admission_request.resolved"
)

// QueueChannel returns the event-bus channel carrying a facility's queue
// and admission events.
func QueueChannel(facilityID int64) string {
	return fmt.Sprintf("facility:%d:queue", facilityID)
}

// QueueEvent notifies subscribers that a facility's queue or incoming
// request list changed.
type QueueEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	FacilityID int64     `json:"facility_id"`
	PatientID  string    `json:"patient_id,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
