package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caredispatch/backend/internal/domain/providers"
	apperrors "github.com/caredispatch/backend/pkg/errors"
)

func TestKeywordClassifier(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		intent     string
	}{
		{"emergency keyword", "My dad is having a heart attack", providers.IntentEmergency},
		{"emergency number", "call 911 right now", providers.IntentEmergency},
		{"care keyword", "I've had a fever since yesterday", providers.IntentFindCare},
		{"no keywords", "what time do you open tomorrow", providers.IntentGeneral},
		{"case insensitive", "CHEST PAIN and sweating", providers.IntentEmergency},
	}

	classifier := KeywordIntentClassifier{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := classifier.Classify(context.Background(), tt.transcript)
			require.NoError(t, err)
			assert.Equal(t, tt.intent, result.Intent)
		})
	}
}

func TestKeywordClassifier_EmergencyBeatsCare(t *testing.T) {
	// "severe pain" matches the emergency list even though "pain" alone
	// is a care keyword.
	result, err := KeywordIntentClassifier{}.Classify(context.Background(), "severe pain in my chest")
	require.NoError(t, err)
	assert.Equal(t, providers.IntentEmergency, result.Intent)
}

func TestCompositeClassifier_PrefersPrimary(t *testing.T) {
	advice := &fakeAdvice{intent: &providers.IntentResult{Intent: providers.IntentFindCare, Confidence: 0.9}}
	classifier := NewCompositeIntentClassifier(NewAdviceIntentClassifier(advice), KeywordIntentClassifier{})

	result, err := classifier.Classify(context.Background(), "I feel dizzy")

	require.NoError(t, err)
	assert.Equal(t, providers.IntentFindCare, result.Intent)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestCompositeClassifier_FallsBackOnError(t *testing.T) {
	advice := &fakeAdvice{err: providers.ErrAdviceUnavailable}
	classifier := NewCompositeIntentClassifier(NewAdviceIntentClassifier(advice), KeywordIntentClassifier{})

	result, err := classifier.Classify(context.Background(), "there's been a car crash")

	require.NoError(t, err)
	assert.Equal(t, providers.IntentEmergency, result.Intent)
}

func TestCompositeClassifier_NilPrimaryUsesSecondary(t *testing.T) {
	classifier := NewCompositeIntentClassifier(nil, KeywordIntentClassifier{})

	result, err := classifier.Classify(context.Background(), "runny nose and a cough")

	require.NoError(t, err)
	assert.Equal(t, providers.IntentFindCare, result.Intent)
}

func TestCompositeClassifier_EmptyTranscriptIsValidationError(t *testing.T) {
	classifier := NewCompositeIntentClassifier(nil, KeywordIntentClassifier{})

	_, err := classifier.Classify(context.Background(), "   ")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
