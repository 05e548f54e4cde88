package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/providers"
	apperrors "github.com/caredispatch/backend/pkg/errors"
)

type fakeFacilityRepo struct {
	facilities []*entities.Facility
	listErr    error
}

func (r *fakeFacilityRepo) Create(_ context.Context, facility *entities.Facility) error {
	facility.ID = int64(len(r.facilities) + 1)
	r.facilities = append(r.facilities, facility)
	return nil
}

func (r *fakeFacilityRepo) GetByID(_ context.Context, id int64) (*entities.Facility, error) {
	for _, facility := range r.facilities {
		if facility.ID == id {
			return facility, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", id))
}

func (r *fakeFacilityRepo) Update(_ context.Context, facility *entities.Facility) error {
	for i, existing := range r.facilities {
		if existing.ID == facility.ID {
			r.facilities[i] = facility
			return nil
		}
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", facility.ID))
}

func (r *fakeFacilityRepo) ListEligible(_ context.Context) ([]*entities.Facility, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var eligible []*entities.Facility
	for _, facility := range r.facilities {
		if facility.Eligible() {
			eligible = append(eligible, facility)
		}
	}
	return eligible, nil
}

func (r *fakeFacilityRepo) ListPublic(_ context.Context) ([]*entities.Facility, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var public []*entities.Facility
	for _, facility := range r.facilities {
		if facility.Verified {
			public = append(public, facility)
		}
	}
	return public, nil
}

type fakeProfileRepo struct {
	profiles map[string]*entities.MedicalProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*entities.MedicalProfile)}
}

func (r *fakeProfileRepo) GetByPatient(_ context.Context, patientID string) (*entities.MedicalProfile, error) {
	profile, ok := r.profiles[patientID]
	if !ok {
		return nil, apperrors.NewNotFoundError("medical profile not found")
	}
	return profile, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *entities.MedicalProfile) error {
	r.profiles[profile.PatientID] = profile
	return nil
}

type fakeQueueRepo struct {
	mu      sync.Mutex
	entries map[string]*entities.QueueEntry
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{entries: make(map[string]*entities.QueueEntry)}
}

func (r *fakeQueueRepo) Create(_ context.Context, entry *entities.QueueEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entries {
		if existing.FacilityID == entry.FacilityID && existing.PatientID == entry.PatientID && existing.Active() {
			return apperrors.NewConflictError("patient already has an active queue entry at this facility")
		}
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeQueueRepo) GetByID(_ context.Context, id string) (*entities.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("queue entry %s not found", id))
	}
	return entry, nil
}

func (r *fakeQueueRepo) ListByFacility(_ context.Context, facilityID int64) ([]*entities.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []*entities.QueueEntry
	for _, entry := range r.entries {
		if entry.FacilityID == facilityID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r *fakeQueueRepo) Update(_ context.Context, entry *entities.QueueEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[entry.ID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("queue entry %s not found", entry.ID))
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeQueueRepo) HasActiveEntry(_ context.Context, facilityID int64, patientID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.FacilityID == facilityID && entry.PatientID == patientID && entry.Active() {
			return true, nil
		}
	}
	return false, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*entities.AdmissionRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*entities.AdmissionRequest)}
}

func (r *fakeRequestRepo) Create(_ context.Context, request *entities.AdmissionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*entities.AdmissionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("admission request %s not found", id))
	}
	copied := *request
	return &copied, nil
}

func (r *fakeRequestRepo) FindCreatedBetween(_ context.Context, patientID string, from, to time.Time) (*entities.AdmissionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entities.AdmissionRequest
	for _, request := range r.requests {
		if request.PatientID != patientID {
			continue
		}
		if request.CreatedAt.Before(from) || !request.CreatedAt.Before(to) {
			continue
		}
		if latest == nil || request.CreatedAt.After(latest.CreatedAt) {
			latest = request
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeRequestRepo) ListPendingByFacility(_ context.Context, facilityID int64) ([]*entities.AdmissionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []*entities.AdmissionRequest
	for _, request := range r.requests {
		if request.RecommendedFacilityID == facilityID && request.Status == entities.RequestStatusPending {
			copied := *request
			pending = append(pending, &copied)
		}
	}
	return pending, nil
}

func (r *fakeRequestRepo) UpdateStatus(_ context.Context, id string, fromStatus, toStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("admission request %s not found", id))
	}
	if request.Status != fromStatus {
		return apperrors.NewConflictError(fmt.Sprintf("admission request %s is no longer %s", id, fromStatus))
	}
	request.Status = toStatus
	return nil
}

type fakeAdvice struct {
	dispatch  *providers.DispatchAdvice
	admission *providers.AdmissionAdvice
	triage    *providers.TriageAdvice
	intent    *providers.IntentResult
	err       error
}

func (a *fakeAdvice) RecommendDispatch(_ context.Context, _ providers.AdviceContext) (*providers.DispatchAdvice, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.dispatch, nil
}

func (a *fakeAdvice) RecommendAdmission(_ context.Context, _ providers.AdviceContext) (*providers.AdmissionAdvice, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.admission, nil
}

func (a *fakeAdvice) TriagePatient(_ context.Context, _ *entities.MedicalProfile) (*providers.TriageAdvice, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.triage == nil {
		return nil, providers.ErrAdviceUnavailable
	}
	return a.triage, nil
}

func (a *fakeAdvice) ClassifyIntent(_ context.Context, _ string) (*providers.IntentResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.intent, nil
}

type fakeEventBus struct {
	mu     sync.Mutex
	events []*entities.QueueEvent
}

func (b *fakeEventBus) Publish(_ context.Context, _ string, event *entities.QueueEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *fakeEventBus) Subscribe(_ context.Context, _ string) (<-chan *entities.QueueEvent, error) {
	ch := make(chan *entities.QueueEvent)
	close(ch)
	return ch, nil
}

func (b *fakeEventBus) Close() error { return nil }

func (b *fakeEventBus) byType(eventType string) []*entities.QueueEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var matched []*entities.QueueEvent
	for _, event := range b.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}
