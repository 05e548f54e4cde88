package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/providers"
	"github.com/caredispatch/backend/internal/domain/repositories"
	"github.com/caredispatch/backend/internal/infrastructure/observability"
	"github.com/caredispatch/backend/pkg/config"
	apperrors "github.com/caredispatch/backend/pkg/errors"
)

const admissionNoteMaxReason = 100

// AdmissionService owns the admission request lifecycle: creation with
// the daily rate limit, and hospital-side accept/reject.
type AdmissionService struct {
	requestRepo repositories.AdmissionRequestRepository
	queueRepo   repositories.QueueRepository
	profileRepo repositories.MedicalProfileRepository
	dispatch    *DispatchService
	advice      providers.AdviceProvider
	eventBus    providers.EventBus
	cfg         config.DispatchConfig

	// now is replaceable in tests; the rate-limit window is computed from
	// it in the server's local time zone.
	now func() time.Time
}

// NewAdmissionService creates a new admission service. advice and
// eventBus may be nil.
func NewAdmissionService(
	requestRepo repositories.AdmissionRequestRepository,
	queueRepo repositories.QueueRepository,
	profileRepo repositories.MedicalProfileRepository,
	dispatch *DispatchService,
	advice providers.AdviceProvider,
	eventBus providers.EventBus,
	cfg config.DispatchConfig,
) *AdmissionService {
	return &AdmissionService{
		requestRepo: requestRepo,
		queueRepo:   queueRepo,
		profileRepo: profileRepo,
		dispatch:    dispatch,
		advice:      advice,
		eventBus:    eventBus,
		cfg:         cfg,
		now:         time.Now,
	}
}

// RequestAdmission validates the payload, enforces the one-request-per-day
// limit, selects a facility, and persists the pending request.
func (s *AdmissionService) RequestAdmission(ctx context.Context, patientID, patientName, reason string, origin entities.Location) (*entities.AdmissionRequest, error) {
	if reason == "" {
		return nil, apperrors.NewValidationError("reason for visit is required")
	}
	if !origin.Valid() {
		return nil, apperrors.NewValidationError("coordinates out of range")
	}

	existing, err := s.todaysRequest(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewRateLimitedError("only one admission request per day is allowed", existing)
	}

	decision, err := s.dispatch.RecommendForAdmission(ctx, patientID, patientName, reason, origin)
	if err != nil {
		return nil, err
	}

	now := s.now()
	request := &entities.AdmissionRequest{
		ID:                    uuid.NewString(),
		PatientID:             patientID,
		ReasonForVisit:        reason,
		Location:              origin,
		RecommendedFacilityID: decision.Facility.ID,
		Reasoning:             decision.Reasoning,
		UrgencyScore:          decision.UrgencyScore,
		Status:                entities.RequestStatusPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.publish(ctx, &entities.QueueEvent{
		ID:         uuid.NewString(),
		Type:       entities.EventAdmissionRequested,
		FacilityID: request.RecommendedFacilityID,
		PatientID:  patientID,
		RequestID:  request.ID,
		OccurredAt: now,
	})

	return request, nil
}

// ListIncoming returns the pending requests addressed to the acting
// hospital.
func (s *AdmissionService) ListIncoming(ctx context.Context, principal entities.Principal) ([]*entities.AdmissionRequest, error) {
	if !principal.IsVerifiedHospital() {
		return nil, apperrors.NewUnauthorizedError("verified hospital account required")
	}
	return s.requestRepo.ListPendingByFacility(ctx, principal.FacilityID)
}

// Accept moves a pending request to accepted and admits the patient to
// the facility's queue. The acting hospital must be the request's
// recommended facility.
func (s *AdmissionService) Accept(ctx context.Context, principal entities.Principal, requestID string) (*entities.QueueEntry, error) {
	request, err := s.guardedRequest(ctx, principal, requestID)
	if err != nil {
		return nil, err
	}

	hasEntry, err := s.queueRepo.HasActiveEntry(ctx, request.RecommendedFacilityID, request.PatientID)
	if err != nil {
		return nil, err
	}
	if hasEntry {
		return nil, apperrors.NewConflictError("patient already has an active queue entry at this facility")
	}

	// Flip the status first so only one of two racing accepts proceeds;
	// the fromStatus guard rejects the loser with a conflict.
	if err := s.requestRepo.UpdateStatus(ctx, request.ID, entities.RequestStatusPending, entities.RequestStatusAccepted); err != nil {
		return nil, err
	}

	priority, serviceMinutes := s.triage(ctx, request.PatientID)

	now := s.now()
	entry := &entities.QueueEntry{
		ID:                      uuid.NewString(),
		FacilityID:              request.RecommendedFacilityID,
		PatientID:               request.PatientID,
		PriorityScore:           priority,
		EstimatedServiceMinutes: serviceMinutes,
		Status:                  entities.QueueStatusWaiting,
		Notes:                   admissionNote(request.ReasonForVisit),
		AdmittedAt:              now,
		UpdatedAt:               now,
	}

	if err := s.queueRepo.Create(ctx, entry); err != nil {
		// Roll the request back to pending so it is not stranded in
		// accepted with no queue entry.
		if revertErr := s.requestRepo.UpdateStatus(ctx, request.ID, entities.RequestStatusAccepted, entities.RequestStatusPending); revertErr != nil {
			observability.LoggerFromContext(ctx).Error().Err(revertErr).
				Str("request_id", request.ID).Msg("failed to revert admission request after queue insert failure")
		}
		return nil, err
	}

	s.publish(ctx, &entities.QueueEvent{
		ID:         uuid.NewString(),
		Type:       entities.EventAdmissionResolved,
		FacilityID: request.RecommendedFacilityID,
		PatientID:  request.PatientID,
		RequestID:  request.ID,
		OccurredAt: now,
	})
	s.publish(ctx, &entities.QueueEvent{
		ID:         uuid.NewString(),
		Type:       entities.EventQueueEntryCreated,
		FacilityID: entry.FacilityID,
		PatientID:  entry.PatientID,
		OccurredAt: now,
	})

	return entry, nil
}

// Reject moves a pending request to rejected. No queue entry is created.
func (s *AdmissionService) Reject(ctx context.Context, principal entities.Principal, requestID string) error {
	request, err := s.guardedRequest(ctx, principal, requestID)
	if err != nil {
		return err
	}

	if err := s.requestRepo.UpdateStatus(ctx, request.ID, entities.RequestStatusPending, entities.RequestStatusRejected); err != nil {
		return err
	}

	s.publish(ctx, &entities.QueueEvent{
		ID:         uuid.NewString(),
		Type:       entities.EventAdmissionResolved,
		FacilityID: request.RecommendedFacilityID,
		PatientID:  request.PatientID,
		RequestID:  request.ID,
		OccurredAt: s.now(),
	})

	return nil
}

// guardedRequest loads a request and checks it is addressed to the acting
// hospital and still pending. A request addressed elsewhere reads as not
// found so facilities cannot probe each other's requests.
func (s *AdmissionService) guardedRequest(ctx context.Context, principal entities.Principal, requestID string) (*entities.AdmissionRequest, error) {
	if !principal.IsVerifiedHospital() {
		return nil, apperrors.NewUnauthorizedError("verified hospital account required")
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.RecommendedFacilityID != principal.FacilityID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("admission request %s not found", requestID))
	}
	if request.Status != entities.RequestStatusPending {
		return nil, apperrors.NewConflictError(fmt.Sprintf("admission request %s is no longer pending", requestID))
	}

	return request, nil
}

// todaysRequest returns the patient's request from the current server-local
// calendar day, if any.
func (s *AdmissionService) todaysRequest(ctx context.Context, patientID string) (*entities.AdmissionRequest, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.requestRepo.FindCreatedBetween(ctx, patientID, midnight, midnight.Add(24*time.Hour))
}

// triage asks the advice service for a priority and service estimate based
// on the patient's medical profile. Any failure falls back to defaults.
func (s *AdmissionService) triage(ctx context.Context, patientID string) (priority, serviceMinutes int) {
	priority = s.cfg.DefaultPriorityScore
	serviceMinutes = s.cfg.DefaultServiceMinutes

	if s.advice == nil {
		return priority, serviceMinutes
	}

	profile, err := s.profileRepo.GetByPatient(ctx, patientID)
	if err != nil || profile == nil {
		return priority, serviceMinutes
	}

	advice, err := s.advice.TriagePatient(ctx, profile)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("triage unavailable, using queue defaults")
		return priority, serviceMinutes
	}

	return advice.PriorityScore, advice.EstimatedServiceMinutes
}

func (s *AdmissionService) publish(ctx context.Context, event *entities.QueueEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, entities.QueueChannel(event.FacilityID), event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("type", event.Type).Msg("failed to publish queue event")
	}
}

func admissionNote(reason string) string {
	if len(reason) > admissionNoteMaxReason {
		// Cut on a rune boundary so a multibyte character is never split.
		cut := admissionNoteMaxReason
		for cut > 0 && !utf8.RuneStart(reason[cut]) {
			cut--
		}
		reason = reason[:cut]
	}
	return "Admitted via request: " + reason
}
