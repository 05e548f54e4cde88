package services

import (
	"context"
	"strings"

	"github.com/caredispatch/backend/internal/domain/providers"
	"github.com/caredispatch/backend/internal/infrastructure/observability"
	apperrors "github.com/caredispatch/backend/pkg/errors"
)

// IntentClassifier maps a voice transcript to one of the known intents.
// Classification strategies are replaceable; callers never branch on
// which strategy answered.
type IntentClassifier interface {
	Classify(ctx context.Context, transcript string) (*providers.IntentResult, error)
}

var emergencyKeywords = []string{
	"emergency", "help", "911", "ambulance", "heart attack", "stroke",
	"chest pain", "can't breathe", "bleeding", "unconscious", "accident",
	"crash", "fall", "broken", "severe pain", "dizzy", "fainting",
}

var careKeywords = []string{
	"hurt", "pain", "sick", "fever", "headache", "nausea", "vomiting",
	"diarrhea", "cough", "cold", "flu", "injury", "cut", "burn", "sprain",
	"discomfort", "symptoms", "not feeling well",
}

// KeywordIntentClassifier is the deterministic fallback strategy: simple
// substring matching against fixed keyword lists.
type KeywordIntentClassifier struct{}

// Classify never fails; transcripts matching no list classify as general.
func (KeywordIntentClassifier) Classify(_ context.Context, transcript string) (*providers.IntentResult, error) {
	lower := strings.ToLower(transcript)

	for _, keyword := range emergencyKeywords {
		if strings.Contains(lower, keyword) {
			return &providers.IntentResult{Intent: providers.IntentEmergency, Confidence: 0.8}, nil
		}
	}
	for _, keyword := range careKeywords {
		if strings.Contains(lower, keyword) {
			return &providers.IntentResult{Intent: providers.IntentFindCare, Confidence: 0.7}, nil
		}
	}
	return &providers.IntentResult{Intent: providers.IntentGeneral, Confidence: 0.5}, nil
}

// AdviceIntentClassifier delegates classification to the advice service.
type AdviceIntentClassifier struct {
	advice providers.AdviceProvider
}

// NewAdviceIntentClassifier creates an advice-backed classifier
func NewAdviceIntentClassifier(advice providers.AdviceProvider) *AdviceIntentClassifier {
	return &AdviceIntentClassifier{advice: advice}
}

func (c *AdviceIntentClassifier) Classify(ctx context.Context, transcript string) (*providers.IntentResult, error) {
	return c.advice.ClassifyIntent(ctx, transcript)
}

// CompositeIntentClassifier tries the primary strategy and falls back to
// the secondary when the primary fails. With the keyword classifier as
// secondary it never returns an error.
type CompositeIntentClassifier struct {
	primary   IntentClassifier
	secondary IntentClassifier
}

// NewCompositeIntentClassifier creates a classifier chain. primary may be
// nil, in which case only the secondary is consulted.
func NewCompositeIntentClassifier(primary, secondary IntentClassifier) *CompositeIntentClassifier {
	return &CompositeIntentClassifier{primary: primary, secondary: secondary}
}

func (c *CompositeIntentClassifier) Classify(ctx context.Context, transcript string) (*providers.IntentResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, apperrors.NewValidationError("transcript is required")
	}

	if c.primary != nil {
		result, err := c.primary.Classify(ctx, transcript)
		if err == nil {
			return result, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("intent classification unavailable, using keyword fallback")
	}

	return c.secondary.Classify(ctx, transcript)
}
