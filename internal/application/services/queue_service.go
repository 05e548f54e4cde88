package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/providers"
	"github.com/caredispatch/backend/internal/domain/repositories"
	"github.com/caredispatch/backend/internal/infrastructure/observability"
	"github.com/caredispatch/backend/pkg/config"
	apperrors "github.com/caredispatch/backend/pkg/errors"
)

// Bounds on hospital-supplied queue values.
const (
	minPriorityScore  = 1
	maxPriorityScore  = 10
	minServiceMinutes = 5
	maxServiceMinutes = 180
)

// QueueEntryUpdate carries the mutable fields of a queue entry. Nil
// fields are left unchanged.
type QueueEntryUpdate struct {
	Status                  *string `json:"status"`
	PriorityScore           *int    `json:"priority_score"`
	EstimatedServiceMinutes *int    `json:"estimated_service_minutes"`
	Notes                   *string `json:"notes"`
}

// QueueService handles hospital-side queue operations: listing, direct
// admission, and entry updates.
type QueueService struct {
	queueRepo   repositories.QueueRepository
	profileRepo repositories.MedicalProfileRepository
	advice      providers.AdviceProvider
	eventBus    providers.EventBus
	cfg         config.DispatchConfig
	now         func() time.Time
}

// NewQueueService creates a new queue service. advice and eventBus may
// be nil.
func NewQueueService(
	queueRepo repositories.QueueRepository,
	profileRepo repositories.MedicalProfileRepository,
	advice providers.AdviceProvider,
	eventBus providers.EventBus,
	cfg config.DispatchConfig,
) *QueueService {
	return &QueueService{
		queueRepo:   queueRepo,
		profileRepo: profileRepo,
		advice:      advice,
		eventBus:    eventBus,
		cfg:         cfg,
		now:         time.Now,
	}
}

// ListQueue returns the acting hospital's queue, highest priority first.
func (s *QueueService) ListQueue(ctx context.Context, principal entities.Principal) ([]*entities.QueueEntry, error) {
	if !principal.IsVerifiedHospital() {
		return nil, apperrors.NewUnauthorizedError("verified hospital account required")
	}
	return s.queueRepo.ListByFacility(ctx, principal.FacilityID)
}

// AdmitPatient adds a walk-in patient directly to the hospital's queue,
// bypassing the admission request flow. Priority and service time come
// from AI triage over the patient's medical profile when available,
// otherwise the configured defaults.
func (s *QueueService) AdmitPatient(ctx context.Context, principal entities.Principal, patientID, notes string) (*entities.QueueEntry, error) {
	if !principal.IsVerifiedHospital() {
		return nil, apperrors.NewUnauthorizedError("verified hospital account required")
	}
	if patientID == "" {
		return nil, apperrors.NewValidationError("patient id is required")
	}

	priority, serviceMinutes := s.triage(ctx, patientID)

	now := s.now()
	entry := &entities.QueueEntry{
		ID:                      uuid.NewString(),
		FacilityID:              principal.FacilityID,
		PatientID:               patientID,
		PriorityScore:           priority,
		EstimatedServiceMinutes: serviceMinutes,
		Status:                  entities.QueueStatusWaiting,
		Notes:                   notes,
		AdmittedAt:              now,
		UpdatedAt:               now,
	}

	if err := s.queueRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.publish(ctx, &entities.QueueEvent{
		ID:         uuid.NewString(),
		Type:       entities.EventQueueEntryCreated,
		FacilityID: entry.FacilityID,
		PatientID:  entry.PatientID,
		OccurredAt: now,
	})

	return entry, nil
}

// UpdateEntry applies a partial update to a queue entry. Status changes
// must follow the allowed transitions; terminal entries are frozen.
func (s *QueueService) UpdateEntry(ctx context.Context, principal entities.Principal, entryID string, update QueueEntryUpdate) (*entities.QueueEntry, error) {
	if !principal.IsVerifiedHospital() {
		return nil, apperrors.NewUnauthorizedError("verified hospital account required")
	}

	entry, err := s.queueRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.FacilityID != principal.FacilityID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("queue entry %s not found", entryID))
	}

	if update.Status != nil && *update.Status != entry.Status {
		if !entities.ValidQueueTransition(entry.Status, *update.Status) {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("cannot move queue entry from %s to %s", entry.Status, *update.Status))
		}
		entry.Status = *update.Status
	}

	if update.PriorityScore != nil {
		if *update.PriorityScore < minPriorityScore || *update.PriorityScore > maxPriorityScore {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("priority score must be between %d and %d", minPriorityScore, maxPriorityScore))
		}
		entry.PriorityScore = *update.PriorityScore
	}

	if update.EstimatedServiceMinutes != nil {
		if *update.EstimatedServiceMinutes < minServiceMinutes || *update.EstimatedServiceMinutes > maxServiceMinutes {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("estimated service minutes must be between %d and %d", minServiceMinutes, maxServiceMinutes))
		}
		entry.EstimatedServiceMinutes = *update.EstimatedServiceMinutes
	}

	if update.Notes != nil {
		entry.Notes = *update.Notes
	}

	if err := s.queueRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.publish(ctx, &entities.QueueEvent{
		ID:         uuid.NewString(),
		Type:       entities.EventQueueEntryUpdated,
		FacilityID: entry.FacilityID,
		PatientID:  entry.PatientID,
		OccurredAt: s.now(),
	})

	return entry, nil
}

func (s *QueueService) triage(ctx context.Context, patientID string) (priority, serviceMinutes int) {
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

func (s *QueueService) publish(ctx context.Context, event *entities.QueueEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, entities.QueueChannel(event.FacilityID), event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("type", event.Type).Msg("failed to publish queue event")
	}
}
