package providers

import (
	"context"
	"errors"

	"github.com/caredispatch/backend/internal/domain/entities"
)

// ErrAdviceUnavailable is returned for every advice failure: missing
// credentials, network errors, timeouts, malformed output, or a facility
// choice outside the candidate set. Callers degrade to the deterministic
// baseline; the error never reaches an end user.
var ErrAdviceUnavailable = errors.New("advice service unavailable")

// Voice-intent classifications.
const (
	IntentEmergency = "emergency"
	IntentFindCare  = "find_care"
	IntentGeneral   = "general"
)

// AdviceContext carries everything the advice service may consider when
// recommending a facility.
type AdviceContext struct {
	PatientName string

	// Profile may be nil when the patient has not filled one in.
	Profile *entities.MedicalProfile

	Origin entities.Location

	// ReasonForVisit is set on the admission path only.
	ReasonForVisit string

	// Candidates is the baseline ranking; the advice service must choose
	// one of these facilities.
	Candidates []entities.RankedFacility
}

// DispatchAdvice is a parsed emergency-dispatch recommendation.
type DispatchAdvice struct {
	FacilityID       int64
	Reasoning        string
	DispatcherScript string
}

// AdmissionAdvice is a parsed admission recommendation.
type AdmissionAdvice struct {
	FacilityID   int64
	Reasoning    string
	UrgencyScore int
}

// TriageAdvice is a parsed triage assessment for a queue admission.
type TriageAdvice struct {
	PriorityScore           int
	EstimatedServiceMinutes int
}

// IntentResult is a classified voice transcript.
type IntentResult struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// AdviceProvider defines the interface to the external text-generation
// service. Implementations make a single attempt per call and translate
// every failure mode into ErrAdviceUnavailable.
type AdviceProvider interface {
	// RecommendDispatch recommends a facility for an emergency dispatch
	// and produces the 911 operator script.
	RecommendDispatch(ctx context.Context, advice AdviceContext) (*DispatchAdvice, error)

	// RecommendAdmission recommends a facility for an admission request
	// and assesses urgency.
	RecommendAdmission(ctx context.Context, advice AdviceContext) (*AdmissionAdvice, error)

	// TriagePatient assesses priority and service time for a patient
	// joining a queue.
	TriagePatient(ctx context.Context, profile *entities.MedicalProfile) (*TriageAdvice, error)

	// ClassifyIntent classifies a voice transcript as emergency, care
	// seeking, or general.
	ClassifyIntent(ctx context.Context, transcript string) (*IntentResult, error)
}
