package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/providers"
	"github.com/caredispatch/backend/pkg/config"
	apperrors "github.com/caredispatch/backend/pkg/errors"
)

func testDispatchConfig() config.DispatchConfig {
	return config.DispatchConfig{
		EmergencySpeedKmh:     60,
		AdmissionSpeedKmh:     40,
		DefaultPriorityScore:  5,
		DefaultServiceMinutes: 30,
	}
}

func testFacilities() *fakeFacilityRepo {
	return &fakeFacilityRepo{facilities: []*entities.Facility{
		{ID: 1, Name: "General Hospital", Address: "1 Main St", PhoneNumber: "+15550001",
			Location: loc(40.01, -74.00), Verified: true, CurrentWaitMinutes: 10},
		{ID: 2, Name: "Riverside Clinic", Address: "2 River Rd", PhoneNumber: "+15550002",
			Location: loc(40.10, -74.00), Verified: true},
	}}
}

func TestInstantDispatch_AdviceChoiceWins(t *testing.T) {
	advice := &fakeAdvice{dispatch: &providers.DispatchAdvice{
		FacilityID:       2,
		Reasoning:        "trauma unit available",
		DispatcherScript: "Dispatch to Riverside Clinic immediately.",
	}}
	svc := NewDispatchService(testFacilities(), newFakeProfileRepo(), advice, testDispatchConfig())

	rec, err := svc.InstantDispatch(context.Background(), "patient-1", "Ada",
		entities.Location{Latitude: 40.000, Longitude: -74.000})

	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.Facility.ID)
	assert.Equal(t, "trauma unit available", rec.Reasoning)
	assert.Equal(t, "Dispatch to Riverside Clinic immediately.", rec.DispatcherScript)
}

func TestInstantDispatch_InvalidAdviceFacilityFallsBackToBaseline(t *testing.T) {
	advice := &fakeAdvice{dispatch: &providers.DispatchAdvice{FacilityID: 99, Reasoning: "made up"}}
	svc := NewDispatchService(testFacilities(), newFakeProfileRepo(), advice, testDispatchConfig())

	rec, err := svc.InstantDispatch(context.Background(), "patient-1", "Ada",
		entities.Location{Latitude: 40.000, Longitude: -74.000})

	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Facility.ID)
	assert.Contains(t, rec.Reasoning, "General Hospital")
	assert.Contains(t, rec.DispatcherScript, "1 Main St")
}

func TestInstantDispatch_AdviceUnavailableFallsBackToBaseline(t *testing.T) {
	advice := &fakeAdvice{err: providers.ErrAdviceUnavailable}
	svc := NewDispatchService(testFacilities(), newFakeProfileRepo(), advice, testDispatchConfig())

	rec, err := svc.InstantDispatch(context.Background(), "patient-1", "Ada",
		entities.Location{Latitude: 40.000, Longitude: -74.000})

	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Facility.ID)
	assert.Contains(t, rec.DispatcherScript, "Ada")
}

func TestInstantDispatch_NilAdviceProviderUsesBaseline(t *testing.T) {
	svc := NewDispatchService(testFacilities(), newFakeProfileRepo(), nil, testDispatchConfig())

	rec, err := svc.InstantDispatch(context.Background(), "patient-1", "",
		entities.Location{Latitude: 40.000, Longitude: -74.000})

	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Facility.ID)
	assert.Contains(t, rec.DispatcherScript, "the caller")
}

func TestInstantDispatch_NoEligibleFacilitiesIsUnavailable(t *testing.T) {
	repo := &fakeFacilityRepo{facilities: []*entities.Facility{
		{ID: 1, Name: "Unverified", Location: loc(40.01, -74.00)},
		{ID: 2, Name: "No coordinates", Verified: true},
	}}
	svc := NewDispatchService(repo, newFakeProfileRepo(), nil, testDispatchConfig())

	_, err := svc.InstantDispatch(context.Background(), "patient-1", "Ada",
		entities.Location{Latitude: 40.000, Longitude: -74.000})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
}

func TestInstantDispatch_RejectsInvalidCoordinates(t *testing.T) {
	svc := NewDispatchService(testFacilities(), newFakeProfileRepo(), nil, testDispatchConfig())

	_, err := svc.InstantDispatch(context.Background(), "patient-1", "Ada",
		entities.Location{Latitude: 123, Longitude: 0})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestRecommendForAdmission_CarriesAdviceUrgency(t *testing.T) {
	advice := &fakeAdvice{admission: &providers.AdmissionAdvice{
		FacilityID:   1,
		Reasoning:    "closest with short queue",
		UrgencyScore: 7,
	}}
	svc := NewDispatchService(testFacilities(), newFakeProfileRepo(), advice, testDispatchConfig())

	decision, err := svc.RecommendForAdmission(context.Background(), "patient-1", "Ada", "persistent cough",
		entities.Location{Latitude: 40.000, Longitude: -74.000})

	require.NoError(t, err)
	assert.Equal(t, int64(1), decision.Facility.ID)
	assert.Equal(t, 7, decision.UrgencyScore)
}

func TestRecommendForAdmission_BaselineUsesDefaultUrgency(t *testing.T) {
	advice := &fakeAdvice{err: providers.ErrAdviceUnavailable}
	svc := NewDispatchService(testFacilities(), newFakeProfileRepo(), advice, testDispatchConfig())

	decision, err := svc.RecommendForAdmission(context.Background(), "patient-1", "Ada", "persistent cough",
		entities.Location{Latitude: 40.000, Longitude: -74.000})

	require.NoError(t, err)
	assert.Equal(t, int64(1), decision.Facility.ID)
	assert.Equal(t, 5, decision.UrgencyScore)
	assert.Contains(t, decision.Reasoning, "General Hospital")
}
