package gemini

import (
	"fmt"
	"strings"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/providers"
)

// Prompt fields that are empty render as explicit placeholders. A blank
// line in the prompt is ambiguous to the model; "None listed" is not.
func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

func buildMedicalContext(advice providers.AdviceContext) string {
	if advice.Profile == nil {
		return fmt.Sprintf("PATIENT: %s. No medical profile available.\nCurrent Location: %f, %f",
			orPlaceholder(advice.PatientName, "Unknown"),
			advice.Origin.Latitude, advice.Origin.Longitude)
	}

	dob := "Not provided"
	if advice.Profile.DateOfBirth != nil {
		dob = advice.Profile.DateOfBirth.Format("2006-01-02")
	}

	return fmt.Sprintf(`PATIENT MEDICAL PROFILE:
- Name: %s
- Date of Birth: %s
- Allergies: %s
- Pre-existing Conditions: %s
- Emergency Notes: %s
- Current Location: %f, %f`,
		orPlaceholder(advice.PatientName, "Unknown"),
		dob,
		orPlaceholder(advice.Profile.Allergies, "None listed"),
		orPlaceholder(advice.Profile.Conditions, "None listed"),
		orPlaceholder(advice.Profile.EmergencyNotes, "None listed"),
		advice.Origin.Latitude, advice.Origin.Longitude,
	)
}

func buildFacilityTable(candidates []entities.RankedFacility) string {
	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lines = append(lines, fmt.Sprintf(
			"Hospital %d: %s - Wait: %dmin, Travel: %dmin, Total: %dmin, Distance: %.2fkm",
			c.Facility.ID, c.Facility.Name,
			c.WaitMinutes, c.TravelMinutes, c.TotalMinutes, c.DistanceKm,
		))
	}
	return strings.Join(lines, "\n")
}

func buildDispatchPrompt(advice providers.AdviceContext) string {
	return fmt.Sprintf(`You are an emergency dispatch AI system. Analyze the patient information and available hospitals to make the BEST emergency dispatch decision.

%s

AVAILABLE HOSPITALS:
%s

CRITICAL FACTORS TO CONSIDER:
1. EMERGENCY SEVERITY: This is a medical emergency - time is critical
2. For life-threatening emergencies, prioritize travel time over wait time
3. Consider patient's medical history and allergies
4. Balance total time (travel + wait) for non-critical emergencies

Return a JSON response with:
{
    "recommended_hospital_id": [hospital_id],
    "reasoning": "Brief explanation of why this hospital was chosen (max 100 words)",
    "tts_script_for_911": "Complete script for 911 operator including patient name, coordinates, relevant medical conditions, and the recommended hospital's name, address and phone."
}

Respond ONLY with valid JSON.`,
		buildMedicalContext(advice),
		buildFacilityTable(advice.Candidates),
	)
}

func buildAdmissionPrompt(advice providers.AdviceContext) string {
	return fmt.Sprintf(`You are a medical triage AI. Analyze the patient's reason for visit and recommend the best hospital.

%s

REASON FOR VISIT: %s

AVAILABLE HOSPITALS:
%s

ASSESSMENT CRITERIA:
1. Assess urgency/severity of the reason for visit (1-10 scale)
2. For high urgency (7-10): prioritize travel time
3. For medium urgency (4-6): balance travel time and wait time
4. For low urgency (1-3): prioritize shortest wait time
5. Consider patient's medical history if relevant

Return a JSON response with ONLY the hospital ID number (not the name). Example format:
{
    "recommended_hospital_id": 2,
    "urgency_score": 5,
    "reasoning": "Brief explanation of hospital choice and urgency assessment (max 150 words)"
}

IMPORTANT: The recommended_hospital_id must be ONLY the numeric ID (like 2), not the hospital name.

Respond ONLY with valid JSON.`,
		buildMedicalContext(advice),
		advice.ReasonForVisit,
		buildFacilityTable(advice.Candidates),
	)
}

func buildTriagePrompt(profile *entities.MedicalProfile) string {
	allergies := "None"
	conditions := "None"
	notes := "None"
	dob := "Unknown"
	if profile != nil {
		allergies = orPlaceholder(profile.Allergies, "None")
		conditions = orPlaceholder(profile.Conditions, "None")
		notes = orPlaceholder(profile.EmergencyNotes, "None")
		if profile.DateOfBirth != nil {
			dob = profile.DateOfBirth.Format("2006-01-02")
		}
	}

	return fmt.Sprintf(`Analyze this patient's medical information and provide a JSON response with priority_score (1-10, where 10 is most urgent) and estimated_service_time (minutes).

Patient Info:
- Allergies: %s
- Pre-existing conditions: %s
- Emergency notes: %s
- Age: Calculate from DOB %s

Respond only with valid JSON in this format:
{"priority_score": 5, "estimated_service_time": 30}`,
		allergies, conditions, notes, dob,
	)
}

func buildIntentPrompt(transcript string) string {
	return fmt.Sprintf(`Analyze this voice transcript and classify the intent:
Transcript: "%s"

Classify as one of:
1. "emergency" - emergency keywords such as: emergency, help, 911, ambulance, heart attack, stroke, chest pain, can't breathe, bleeding, unconscious, accident, severe pain
2. "find_care" - care-related keywords such as: hurt, pain, sick, fever, headache, nausea, cough, injury, symptoms, not feeling well
3. "general" - other general queries

Return a JSON response:
{"intent": "emergency", "confidence": 0.9}

Respond ONLY with valid JSON.`, transcript)
}
