package entities

import "time"

// Queue entry statuses. Only waiting and in_progress entries contribute
// to a facility's load; completed and cancelled are terminal.
const (
	QueueStatusWaiting    = "waiting"
	QueueStatusInProgress = "in_progress"
	QueueStatusCompleted  = "completed"
	QueueStatusCancelled  = "cancelled"
)

// ActiveQueueStatuses are the statuses that count toward facility load.
var ActiveQueueStatuses = []string{QueueStatusWaiting, QueueStatusInProgress}

var queueTransitions = map[string][]string{
	QueueStatusWaiting:    {QueueStatusInProgress, QueueStatusCancelled},
	QueueStatusInProgress: {QueueStatusCompleted, QueueStatusCancelled},
}

// ValidQueueTransition reports whether a queue entry may move from one
// status to another. Terminal statuses never transition.
func ValidQueueTransition(from, to string) bool {
	for _, allowed := range queueTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// QueueEntry represents a patient waiting for or receiving service at a
// facility. Entries are never deleted; they move through statuses only.
type QueueEntry struct {
	ID                      string    `json:"id" db:"id"`
	FacilityID              int64     `json:"facility_id" db:"facility_id"`
	PatientID               string    `json:"patient_id" db:"patient_id"`
	PriorityScore           int       `json:"priority_score" db:"priority_score"`
	EstimatedServiceMinutes int       `json:"estimated_service_minutes" db:"estimated_service_minutes"`
	Status                  string    `json:"status" db:"status"`
	Notes                   string    `json:"notes" db:"notes"`
	AdmittedAt              time.Time `json:"admitted_at" db:"admitted_at"`
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`
}

// Active reports whether the entry still contributes to facility load.
func (e *QueueEntry) Active() bool {
	return e.Status == QueueStatusWaiting || e.Status == QueueStatusInProgress
}
