package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/providers"
	"github.com/caredispatch/backend/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)
	client.baseURL = server.URL
	return client
}

func modelReply(text string) string {
	envelope := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
	body, _ := json.Marshal(envelope)
	return string(body)
}

func testCandidates() []entities.RankedFacility {
	return []entities.RankedFacility{
		{Facility: &entities.Facility{ID: 1, Name: "General Hospital"}, TotalMinutes: 12},
		{Facility: &entities.Facility{ID: 2, Name: "Riverside Clinic"}, TotalMinutes: 17},
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(&config.GeminiConfig{})
	assert.Error(t, err)
}

func TestRecommendDispatch_ParsesFencedReply(t *testing.T) {
	reply := "```json\n{\"recommended_hospital_id\": \"Hospital 2\", \"reasoning\": \"closer trauma unit\", \"tts_script_for_911\": \"Emergency alert...\"}\n```"
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, modelReply(reply))
	})

	advice, err := client.RecommendDispatch(context.Background(), providers.AdviceContext{
		PatientName: "ada",
		Candidates:  testCandidates(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), advice.FacilityID)
	assert.Equal(t, "closer trauma unit", advice.Reasoning)
	assert.Equal(t, "Emergency alert...", advice.DispatcherScript)
}

func TestRecommendDispatch_RejectsFacilityOutsideCandidateSet(t *testing.T) {
	reply := `{"recommended_hospital_id": 99, "reasoning": "made up", "tts_script_for_911": "..."}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, modelReply(reply))
	})

	_, err := client.RecommendDispatch(context.Background(), providers.AdviceContext{
		Candidates: testCandidates(),
	})

	assert.True(t, errors.Is(err, providers.ErrAdviceUnavailable))
}

func TestRecommendDispatch_ServerErrorIsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.RecommendDispatch(context.Background(), providers.AdviceContext{
		Candidates: testCandidates(),
	})

	assert.True(t, errors.Is(err, providers.ErrAdviceUnavailable))
}

func TestRecommendAdmission_DefaultsUrgencyScore(t *testing.T) {
	reply := `{"recommended_hospital_id": 1, "reasoning": "shortest total time"}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, modelReply(reply))
	})

	advice, err := client.RecommendAdmission(context.Background(), providers.AdviceContext{
		ReasonForVisit: "persistent cough",
		Candidates:     testCandidates(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), advice.FacilityID)
	assert.Equal(t, 5, advice.UrgencyScore)
}

func TestRecommendAdmission_MalformedJSONIsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, modelReply("I recommend the riverside clinic."))
	})

	_, err := client.RecommendAdmission(context.Background(), providers.AdviceContext{
		Candidates: testCandidates(),
	})

	assert.True(t, errors.Is(err, providers.ErrAdviceUnavailable))
}

func TestTriagePatient_ClampsScores(t *testing.T) {
	reply := `{"priority_score": 42, "estimated_service_time": 1}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, modelReply(reply))
	})

	advice, err := client.TriagePatient(context.Background(), &entities.MedicalProfile{
		Conditions: "asthma",
	})

	require.NoError(t, err)
	assert.Equal(t, 10, advice.PriorityScore)
	assert.Equal(t, 5, advice.EstimatedServiceMinutes)
}

func TestClassifyIntent_UnknownIntentBecomesGeneral(t *testing.T) {
	reply := `{"intent": "gibberish", "confidence": 0.9}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, modelReply(reply))
	})

	result, err := client.ClassifyIntent(context.Background(), "what are your opening hours")

	require.NoError(t, err)
	assert.Equal(t, providers.IntentGeneral, result.Intent)
}
