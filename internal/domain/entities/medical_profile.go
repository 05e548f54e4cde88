package entities

import "time"

// MedicalProfile holds the patient-maintained medical record that feeds
// dispatch and triage context.
type MedicalProfile struct {
	PatientID      string     `json:"patient_id" db:"patient_id"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Address        string     `json:"address" db:"address"`
	Allergies      string     `json:"allergies" db:"allergies"`
	Conditions     string     `json:"conditions" db:"conditions"`
	EmergencyNotes string     `json:"emergency_notes" db:"emergency_notes"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
