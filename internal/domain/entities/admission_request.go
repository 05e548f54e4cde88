package entities

import "time"

// Admission request statuses.
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusRejected  = "rejected"
	RequestStatusCancelled = "cancelled"
)

// AdmissionRequest represents a patient's request for hospital admission
// together with the recommendation produced for it. The facility reference
// is a weak reference by identifier; the request does not own the facility.
type AdmissionRequest struct {
	ID                    string   `json:"id" db:"id"`
	PatientID             string   `json:"patient_id" db:"patient_id"`
	ReasonForVisit        string   `json:"reason_for_visit" db:"reason_for_visit"`
	Location              Location `json:"location" db:"-"`
	RecommendedFacilityID int64    `json:"recommended_facility_id" db:"recommended_facility_id"`
	Reasoning             string   `json:"reasoning" db:"reasoning"`

	// UrgencyScore is the 1-10 assessment attached at creation; 5 when the
	// advice service did not provide one.
	UrgencyScore int `json:"urgency_score" db:"urgency_score"`

	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
