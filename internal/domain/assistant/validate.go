package assistant

import (
	"encoding/json"
	"fmt"
	"regexp"
)

const (
	baseConfidence      = 0.9
	warningPenalty      = 0.1
	minConfidence       = 0.5
	confidenceThreshold = 0.85
)

type riskPattern struct {
	label      string
	re         *regexp.Regexp
	suggestion string
}

var riskPatterns = []riskPattern{
	{"contraindicated", regexp.MustCompile(`(?i)contraindicated`), "Confirm there is no contraindication with the patient's conditions and medications"},
	{"severe side effects", regexp.MustCompile(`(?i)severe\s+side[\s-]effects?`), "Plan monitoring for side effects and agree a stop rule with the patient"},
	{"high risk", regexp.MustCompile(`(?i)high[\s-]risk`), "Consider a lower-risk alternative before starting"},
	{"caution", regexp.MustCompile(`(?i)caution`), "Document the precaution in the patient's notes"},
	{"adverse reaction", regexp.MustCompile(`(?i)adverse\s+reactions?`), "Check the patient's allergy history for prior reactions"},
}

// validate scans a recommendation for risk language. It never calls a
// provider, so the result is the same in both modes.
func validate(recommendation map[string]interface{}) Validation {
	// encoding/json sorts map keys, so the scanned text is stable
	raw, err := json.Marshal(recommendation)
	if err != nil {
		raw = []byte(fmt.Sprint(recommendation))
	}
	return validateText(string(raw))
}

func validateText(text string) Validation {
	v := Validation{Warnings: []string{}, Suggestions: []string{}}
	for _, p := range riskPatterns {
		if p.re.MatchString(text) {
			v.Warnings = append(v.Warnings, "Found potential risk: "+p.label)
			v.Suggestions = append(v.Suggestions, p.suggestion)
		}
	}
	v.Confidence = baseConfidence - warningPenalty*float64(len(v.Warnings))
	if v.Confidence < minConfidence {
		v.Confidence = minConfidence
	}
	// round away float noise from the subtraction
	v.Confidence = float64(int(v.Confidence*100+0.5)) / 100
	v.IsValid = v.Confidence >= confidenceThreshold
	return v
}

func planForValidation(p TreatmentPlan) map[string]interface{} {
	return map[string]interface{}{
		"recommendations":         p.Recommendations,
		"follow_up":               p.FollowUp,
		"lifestyle_modifications": p.LifestyleModifications,
		"expected_outcomes":       p.ExpectedOutcomes,
	}
}
