package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/dermai/clinic/internal/platform/capability"
)

// Canned output for mock mode. Every value has the same top-level fields
// as the live path produces.

func mockDiagnosis() Diagnosis {
	return Diagnosis{
		PrimaryDiagnosis: "Suspected dermatitis",
		Confidence:       0.85,
		DifferentialDiagnoses: []string{
			"Contact dermatitis",
			"Atopic dermatitis",
			"Seborrheic dermatitis",
		},
		Reasoning: "Based on reported symptoms and typical presentation",
	}
}

func mockTreatmentPlan(now time.Time) TreatmentPlan {
	return TreatmentPlan{
		Recommendations: "1. Apply prescribed topical medication twice daily\n2. Avoid known irritants",
		FollowUp:        "2 weeks",
		LifestyleModifications: []string{
			"Avoid hot showers",
			"Use gentle, fragrance-free skincare products",
			"Stay hydrated",
		},
		ExpectedOutcomes: "Improvement in symptoms within 2-3 weeks with proper treatment adherence",
		CreatedAt:        now,
	}
}

func mockRecommendations(h PatientHistory) RecommendationResponse {
	condition := h.Condition
	if condition == "" {
		condition = "the reported condition"
	}
	return RecommendationResponse{
		Recommendations: []Recommendation{{
			Type:        "Treatment",
			Title:       "Treatment Plan",
			Description: "Continue the current topical regimen for " + condition + " and review response at the next visit.",
			Priority:    "High",
			Reasoning:   "Based on patient symptoms and medical knowledge",
		}},
		NextAppointment: "2 weeks from today",
		AdditionalNotes: "Monitor progress and adjust treatment as needed",
	}
}

func mockExplanation(req ExplainRequest) Explanation {
	kind := req.ItemType
	if kind == "" {
		kind = "treatment"
	}
	return Explanation{
		ItemType: req.ItemType,
		ItemName: req.ItemName,
		Explanation: fmt.Sprintf("%s is a %s used in dermatology care. "+
			"Follow your doctor's instructions on how and when to use it, "+
			"and tell the clinic if your skin gets worse or you notice any new reaction.",
			req.ItemName, kind),
	}
}

func mockChat(req ChatRequest) ChatReply {
	return ChatReply{
		Reply: "Thanks for your message. The clinic assistant is running in offline mode, " +
			"so a member of staff will follow up on: " + strings.TrimSpace(req.Message),
		Suggestions: []string{
			"Book a follow-up appointment",
			"Check your queue status",
			"Read about your current treatment",
		},
		Mode: string(capability.ModeMock),
	}
}

func mockSummary(req SummaryRequest) ReportSummary {
	diagnosis := req.Diagnosis
	if diagnosis == "" {
		diagnosis = "No diagnosis recorded"
	}
	return ReportSummary{
		AISummary: fmt.Sprintf("%s. %d treatment(s) and %d medicine(s) prescribed.",
			diagnosis, len(req.Treatments), len(req.Medicines)),
		AIExplanation: "Your doctor has recorded your condition and a care plan. " +
			"Follow the prescribed treatments and contact the clinic with any questions.",
	}
}
