package gemini

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// The model is asked for bare JSON but routinely wraps it in markdown
// fences, quotes identifiers, or answers with prose like "Hospital 2".
// Parsing is lenient about shape but strict about outcome: either a
// usable value comes out, or the caller treats the reply as unavailable.

type dispatchPayload struct {
	RecommendedHospitalID json.RawMessage `json:"recommended_hospital_id"`
	Reasoning             string          `json:"reasoning"`
	TTSScript             string          `json:"tts_script_for_911"`
}

type admissionPayload struct {
	RecommendedHospitalID json.RawMessage `json:"recommended_hospital_id"`
	Reasoning             string          `json:"reasoning"`
	UrgencyScore          json.RawMessage `json:"urgency_score"`
}

type triagePayload struct {
	PriorityScore        json.RawMessage `json:"priority_score"`
	EstimatedServiceTime json.RawMessage `json:"estimated_service_time"`
}

type intentPayload struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

var digitRun = regexp.MustCompile(`\d+`)

// isAbsent reports whether a raw field was omitted or explicitly null.
// Unmarshalling JSON null into a number is a silent no-op, so it has to
// be caught before coercion.
func isAbsent(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// stripCodeFences removes a markdown code fence wrapper, with or without
// a json language tag, and trims surrounding whitespace.
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.Contains(cleaned, "```") {
		return cleaned
	}

	parts := strings.Split(cleaned, "```")
	if len(parts) < 2 {
		return cleaned
	}
	cleaned = parts[1]
	cleaned = strings.TrimPrefix(cleaned, "json")
	return strings.TrimSpace(cleaned)
}

// facilityIDFromRaw coerces the model's facility choice into an integer
// identifier. Accepted shapes: a JSON number, a quoted number, prose
// containing digits ("Hospital 2" -> 2), or a list whose first element is
// any of those. The boolean result is false when no identifier can be
// extracted; the caller must treat that as an unavailable reply rather
// than guessing.
func facilityIDFromRaw(raw json.RawMessage) (int64, bool) {
	if isAbsent(raw) {
		return 0, false
	}

	var number int64
	if err := json.Unmarshal(raw, &number); err == nil {
		return number, true
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		match := digitRun.FindString(text)
		if match == "" {
			return 0, false
		}
		id, err := strconv.ParseInt(match, 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return facilityIDFromRaw(list[0])
	}

	return 0, false
}

// scoreFromRaw coerces a numeric score, clamping into [min, max] and
// falling back to def when the field is absent or unusable.
func scoreFromRaw(raw json.RawMessage, min, max, def int) int {
	if isAbsent(raw) {
		return def
	}

	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return def
		}
		match := digitRun.FindString(text)
		if match == "" {
			return def
		}
		parsed, err := strconv.Atoi(match)
		if err != nil {
			return def
		}
		value = float64(parsed)
	}

	score := int(value)
	if score < min {
		return min
	}
	if score > max {
		return max
	}
	return score
}
