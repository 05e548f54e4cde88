package services

import (
	"context"
	"fmt"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/providers"
	"github.com/caredispatch/backend/internal/domain/repositories"
	"github.com/caredispatch/backend/internal/infrastructure/observability"
	"github.com/caredispatch/backend/pkg/config"
	apperrors "github.com/caredispatch/backend/pkg/errors"
)

// AdmissionDecision is the facility selection produced for an admission
// request before it is persisted.
type AdmissionDecision struct {
	Facility     *entities.Facility
	Reasoning    string
	UrgencyScore int
}

// DispatchService reconciles the deterministic facility ranking with the
// advice service's recommendation. It is stateless per call: every
// request re-reads facility load and makes at most one advice attempt.
type DispatchService struct {
	facilityRepo repositories.FacilityRepository
	profileRepo  repositories.MedicalProfileRepository
	advice       providers.AdviceProvider
	cfg          config.DispatchConfig
}

// NewDispatchService creates a new dispatch service. advice may be nil
// when no credentials are configured; every request then uses the
// baseline ranking.
func NewDispatchService(
	facilityRepo repositories.FacilityRepository,
	profileRepo repositories.MedicalProfileRepository,
	advice providers.AdviceProvider,
	cfg config.DispatchConfig,
) *DispatchService {
	return &DispatchService{
		facilityRepo: facilityRepo,
		profileRepo:  profileRepo,
		advice:       advice,
		cfg:          cfg,
	}
}

// InstantDispatch recommends a facility for an emergency at the given
// origin and produces the 911 dispatcher script. Nothing is persisted.
func (s *DispatchService) InstantDispatch(ctx context.Context, patientID, patientName string, origin entities.Location) (*entities.DispatchRecommendation, error) {
	if !origin.Valid() {
		return nil, apperrors.NewValidationError("coordinates out of range")
	}

	ranked, err := s.rankEligible(ctx, origin, s.cfg.EmergencySpeedKmh)
	if err != nil {
		return nil, err
	}
	baseline := ranked[0]

	adviceCtx := providers.AdviceContext{
		PatientName: patientName,
		Profile:     s.loadProfile(ctx, patientID),
		Origin:      origin,
		Candidates:  ranked,
	}

	if s.advice != nil {
		advice, adviceErr := s.advice.RecommendDispatch(ctx, adviceCtx)
		if adviceErr == nil {
			if chosen, ok := candidateByID(ranked, advice.FacilityID); ok {
				return &entities.DispatchRecommendation{
					Facility:         chosen.Facility,
					Reasoning:        advice.Reasoning,
					DispatcherScript: advice.DispatcherScript,
				}, nil
			}
		}
		logAdviceFallback(ctx, "dispatch", adviceErr)
	}

	return &entities.DispatchRecommendation{
		Facility:         baseline.Facility,
		Reasoning:        baselineReasoning(baseline),
		DispatcherScript: dispatcherScript(patientName, origin, baseline.Facility),
	}, nil
}

// RecommendForAdmission selects a facility for an admission request. The
// caller persists the resulting decision.
func (s *DispatchService) RecommendForAdmission(ctx context.Context, patientID, patientName, reason string, origin entities.Location) (*AdmissionDecision, error) {
	ranked, err := s.rankEligible(ctx, origin, s.cfg.AdmissionSpeedKmh)
	if err != nil {
		return nil, err
	}
	baseline := ranked[0]

	adviceCtx := providers.AdviceContext{
		PatientName:    patientName,
		Profile:        s.loadProfile(ctx, patientID),
		Origin:         origin,
		ReasonForVisit: reason,
		Candidates:     ranked,
	}

	if s.advice != nil {
		advice, adviceErr := s.advice.RecommendAdmission(ctx, adviceCtx)
		if adviceErr == nil {
			if chosen, ok := candidateByID(ranked, advice.FacilityID); ok {
				return &AdmissionDecision{
					Facility:     chosen.Facility,
					Reasoning:    advice.Reasoning,
					UrgencyScore: advice.UrgencyScore,
				}, nil
			}
		}
		logAdviceFallback(ctx, "admission", adviceErr)
	}

	return &AdmissionDecision{
		Facility:     baseline.Facility,
		Reasoning:    baselineReasoning(baseline),
		UrgencyScore: s.cfg.DefaultPriorityScore,
	}, nil
}

// rankEligible loads the eligible facility set with live queue waits and
// ranks it from the origin. An empty set is a distinguished unavailable
// outcome, not an empty list.
func (s *DispatchService) rankEligible(ctx context.Context, origin entities.Location, speedKmh float64) ([]entities.RankedFacility, error) {
	facilities, err := s.facilityRepo.ListEligible(ctx)
	if err != nil {
		return nil, err
	}

	ranked := RankFacilities(origin, facilities, speedKmh)
	if len(ranked) == 0 {
		return nil, apperrors.NewUnavailableError("no eligible facilities available")
	}
	return ranked, nil
}

// loadProfile fetches the patient's medical profile for prompt context.
// A missing profile is normal and yields nil.
func (s *DispatchService) loadProfile(ctx context.Context, patientID string) *entities.MedicalProfile {
	if patientID == "" {
		return nil
	}
	profile, err := s.profileRepo.GetByPatient(ctx, patientID)
	if err != nil {
		return nil
	}
	return profile
}

func candidateByID(ranked []entities.RankedFacility, id int64) (entities.RankedFacility, bool) {
	for _, candidate := range ranked {
		if candidate.Facility.ID == id {
			return candidate, true
		}
	}
	return entities.RankedFacility{}, false
}

func baselineReasoning(best entities.RankedFacility) string {
	return fmt.Sprintf(
		"%s is the fastest option right now: about %d minutes to treatment (%d min travel, %d min current queue).",
		best.Facility.Name, best.TotalMinutes, best.TravelMinutes, best.WaitMinutes,
	)
}

func dispatcherScript(patientName string, origin entities.Location, facility *entities.Facility) string {
	if patientName == "" {
		patientName = "the caller"
	}
	return fmt.Sprintf(
		"Emergency dispatch requested for %s at latitude %.5f, longitude %.5f. "+
			"Route to %s, %s. Facility contact number: %s.",
		patientName, origin.Latitude, origin.Longitude,
		facility.Name, facility.Address, facility.PhoneNumber,
	)
}

func logAdviceFallback(ctx context.Context, path string, err error) {
	logger := observability.LoggerFromContext(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("advice unavailable, using baseline ranking")
		return
	}
	logger.Warn().Str("path", path).Msg("advice returned facility outside candidate set, using baseline ranking")
}
