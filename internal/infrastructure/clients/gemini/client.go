package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/providers"
	"github.com/caredispatch/backend/pkg/config"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client implements providers.AdviceProvider against the Gemini
// generateContent API. Every call makes exactly one attempt; any failure
// is reported as providers.ErrAdviceUnavailable so callers can fall back
// to the deterministic baseline.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a new Gemini client.
func NewClient(cfg *config.GeminiConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: defaultBaseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateCandidate struct {
	Content generateContent `json:"content"`
}

type generateEnvelope struct {
	Candidates []generateCandidate `json:"candidates"`
}

// RecommendDispatch asks for an emergency dispatch recommendation plus a
// 911 operator script.
func (c *Client) RecommendDispatch(ctx context.Context, advice providers.AdviceContext) (*providers.DispatchAdvice, error) {
	text, err := c.generate(ctx, buildDispatchPrompt(advice))
	if err != nil {
		return nil, unavailable(err)
	}

	var payload dispatchPayload
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &payload); err != nil {
		recordAdviceMetric(ctx, c.model, "dispatch", err)
		return nil, unavailable(fmt.Errorf("parse dispatch advice: %w", err))
	}

	id, ok := facilityIDFromRaw(payload.RecommendedHospitalID)
	if !ok || !candidateSetContains(advice.Candidates, id) {
		recordAdviceMetric(ctx, c.model, "dispatch", errors.New("facility id outside candidate set"))
		return nil, unavailable(fmt.Errorf("advice chose facility outside candidate set"))
	}

	recordAdviceMetric(ctx, c.model, "dispatch", nil)
	return &providers.DispatchAdvice{
		FacilityID:       id,
		Reasoning:        payload.Reasoning,
		DispatcherScript: payload.TTSScript,
	}, nil
}

// RecommendAdmission asks for an admission recommendation with an urgency
// assessment.
func (c *Client) RecommendAdmission(ctx context.Context, advice providers.AdviceContext) (*providers.AdmissionAdvice, error) {
	text, err := c.generate(ctx, buildAdmissionPrompt(advice))
	if err != nil {
		return nil, unavailable(err)
	}

	var payload admissionPayload
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &payload); err != nil {
		recordAdviceMetric(ctx, c.model, "admission", err)
		return nil, unavailable(fmt.Errorf("parse admission advice: %w", err))
	}

	id, ok := facilityIDFromRaw(payload.RecommendedHospitalID)
	if !ok || !candidateSetContains(advice.Candidates, id) {
		recordAdviceMetric(ctx, c.model, "admission", errors.New("facility id outside candidate set"))
		return nil, unavailable(fmt.Errorf("advice chose facility outside candidate set"))
	}

	recordAdviceMetric(ctx, c.model, "admission", nil)
	return &providers.AdmissionAdvice{
		FacilityID:   id,
		Reasoning:    payload.Reasoning,
		UrgencyScore: scoreFromRaw(payload.UrgencyScore, 1, 10, 5),
	}, nil
}

// TriagePatient assesses priority and service time for a queue admission.
func (c *Client) TriagePatient(ctx context.Context, profile *entities.MedicalProfile) (*providers.TriageAdvice, error) {
	text, err := c.generate(ctx, buildTriagePrompt(profile))
	if err != nil {
		return nil, unavailable(err)
	}

	var payload triagePayload
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &payload); err != nil {
		recordAdviceMetric(ctx, c.model, "triage", err)
		return nil, unavailable(fmt.Errorf("parse triage advice: %w", err))
	}

	recordAdviceMetric(ctx, c.model, "triage", nil)
	return &providers.TriageAdvice{
		PriorityScore:           scoreFromRaw(payload.PriorityScore, 1, 10, 5),
		EstimatedServiceMinutes: scoreFromRaw(payload.EstimatedServiceTime, 5, 180, 30),
	}, nil
}

// ClassifyIntent classifies a voice transcript.
func (c *Client) ClassifyIntent(ctx context.Context, transcript string) (*providers.IntentResult, error) {
	text, err := c.generate(ctx, buildIntentPrompt(transcript))
	if err != nil {
		return nil, unavailable(err)
	}

	var payload intentPayload
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &payload); err != nil {
		recordAdviceMetric(ctx, c.model, "intent", err)
		return nil, unavailable(fmt.Errorf("parse intent classification: %w", err))
	}

	intent := payload.Intent
	switch intent {
	case providers.IntentEmergency, providers.IntentFindCare, providers.IntentGeneral:
	default:
		intent = providers.IntentGeneral
	}

	confidence := payload.Confidence
	if confidence < 0 || confidence > 1 {
		confidence = 0.5
	}

	recordAdviceMetric(ctx, c.model, "intent", nil)
	return &providers.IntentResult{Intent: intent, Confidence: confidence}, nil
}

// generate performs a single generateContent call and returns the model's
// text output. No retries: a failed attempt must degrade, not delay.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0.2,
			"maxOutputTokens": 600,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordAdviceLatency(ctx, c.model, 0, time.Since(start), err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("gemini request failed with status %d", resp.StatusCode)
		recordAdviceLatency(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	var envelope generateEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordAdviceLatency(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	var text string
	for _, candidate := range envelope.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				text = part.Text
				break
			}
		}
		if text != "" {
			break
		}
	}

	if text == "" {
		err := errors.New("gemini response missing output text")
		recordAdviceLatency(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	recordAdviceLatency(ctx, c.model, resp.StatusCode, time.Since(start), nil)
	return text, nil
}

func candidateSetContains(candidates []entities.RankedFacility, id int64) bool {
	for _, candidate := range candidates {
		if candidate.Facility != nil && candidate.Facility.ID == id {
			return true
		}
	}
	return false
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", providers.ErrAdviceUnavailable, err)
}

var _ providers.AdviceProvider = (*Client)(nil)
