// Package assistant is the clinic's AI layer: diagnosis and treatment
// agents, the recommendation engine, patient-facing explanations, the chat
// assistant and report summaries.
//
// Every operation reads the capability gate once and takes either the live
// provider path or the canned mock path. A failing provider call is
// returned as a *capability.Error; it is never replaced by mock output.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dermai/clinic/internal/domain/report"
	"github.com/dermai/clinic/internal/platform/capability"
	"github.com/dermai/clinic/internal/platform/llm"
	"github.com/dermai/clinic/internal/platform/store"
)

const maxChatHistory = 10

type Service struct {
	gate *capability.Gate
	llm  llm.Provider
	now  func() time.Time
	log  zerolog.Logger
}

// NewService builds the assistant. provider may be nil only when the gate
// is in mock mode.
func NewService(gate *capability.Gate, provider llm.Provider, logger zerolog.Logger) (*Service, error) {
	if gate == nil {
		return nil, errors.New("assistant: capability gate is required")
	}
	if !gate.IsMock() && provider == nil {
		return nil, fmt.Errorf("assistant: %s is live but no provider was configured", gate.Capability())
	}
	return &Service{
		gate: gate,
		llm:  provider,
		now:  store.Now,
		log:  logger.With().Str("component", "assistant").Logger(),
	}, nil
}

// Mode reports the path every call of this service takes.
func (s *Service) Mode() capability.Mode {
	return s.gate.Mode()
}

func (s *Service) complete(ctx context.Context, op, system, user string) (string, error) {
	start := time.Now()
	text, err := s.llm.Complete(ctx, system, user)
	if err != nil {
		s.log.Warn().Err(err).Str("op", op).Str("provider", s.llm.Name()).Msg("provider call failed")
		return "", s.gate.Wrap(err)
	}
	s.log.Debug().Str("op", op).Str("provider", s.llm.Name()).Dur("took", time.Since(start)).Msg("provider call")
	return text, nil
}

func (s *Service) completeJSON(ctx context.Context, op, system, user string, out interface{}) error {
	text, err := s.complete(ctx, op, system, user)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), out); err != nil {
		return s.gate.Wrap(fmt.Errorf("%s: decode reply: %w", op, err))
	}
	return nil
}

// extractJSON pulls the outermost object out of a reply that may be wrapped
// in prose or a code fence.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func checkCase(c Case) error {
	if c.Age < 0 {
		return store.Invalid("age must not be negative")
	}
	if len(c.Symptoms) == 0 && strings.TrimSpace(c.Condition) == "" {
		return store.Invalid("symptoms or condition is required")
	}
	return nil
}

func formatCase(c Case) string {
	var b strings.Builder
	if c.PatientName != "" {
		fmt.Fprintf(&b, "Patient: %s\n", c.PatientName)
	}
	fmt.Fprintf(&b, "Age: %d\n", c.Age)
	if c.Condition != "" {
		fmt.Fprintf(&b, "Condition: %s\n", c.Condition)
	}
	fmt.Fprintf(&b, "Symptoms: %s\n", strings.Join(c.Symptoms, ", "))
	history := c.MedicalHistory
	if history == "" {
		history = "None provided"
	}
	fmt.Fprintf(&b, "Medical history: %s\n", history)
	return b.String()
}

// Diagnose proposes a diagnosis for c.
func (s *Service) Diagnose(ctx context.Context, c Case) (*Diagnosis, error) {
	if err := checkCase(c); err != nil {
		return nil, err
	}
	if s.gate.IsMock() {
		d := mockDiagnosis()
		return &d, nil
	}
	return s.diagnose(ctx, c, medicalContext(c))
}

func (s *Service) diagnose(ctx context.Context, c Case, mc string) (*Diagnosis, error) {
	user := formatCase(c) + "\nMedical context:\n" + mc + `

Reply with a JSON object only:
{"primary_diagnosis": string, "confidence": number between 0 and 1, "differential_diagnoses": [string], "reasoning": string}`

	var d Diagnosis
	if err := s.completeJSON(ctx, "diagnosis", diagnosisSystem, user, &d); err != nil {
		return nil, err
	}
	if strings.TrimSpace(d.PrimaryDiagnosis) == "" {
		return nil, s.gate.Wrap(errors.New("diagnosis: reply has no primary_diagnosis"))
	}
	d.Confidence = clamp01(d.Confidence)
	d.DifferentialDiagnoses = store.Strings(d.DifferentialDiagnoses)
	return &d, nil
}

// PlanTreatment writes a treatment plan for c. When d is nil the case is
// diagnosed first.
func (s *Service) PlanTreatment(ctx context.Context, c Case, d *Diagnosis) (*TreatmentPlan, error) {
	if err := checkCase(c); err != nil {
		return nil, err
	}
	if s.gate.IsMock() {
		p := mockTreatmentPlan(s.now())
		return &p, nil
	}
	mc := medicalContext(c)
	if d == nil || d.PrimaryDiagnosis == "" {
		var err error
		if d, err = s.diagnose(ctx, c, mc); err != nil {
			return nil, err
		}
	}
	return s.planTreatment(ctx, c, d, mc)
}

func (s *Service) planTreatment(ctx context.Context, c Case, d *Diagnosis, mc string) (*TreatmentPlan, error) {
	user := formatCase(c) + "\nDiagnosis: " + d.PrimaryDiagnosis + "\n\nMedical context:\n" + mc + `

Reply with a JSON object only:
{"recommendations": string, "follow_up": string, "lifestyle_modifications": [string], "expected_outcomes": string}`

	var p TreatmentPlan
	if err := s.completeJSON(ctx, "treatment-plan", treatmentSystem, user, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Recommendations) == "" {
		return nil, s.gate.Wrap(errors.New("treatment-plan: reply has no recommendations"))
	}
	p.LifestyleModifications = store.Strings(p.LifestyleModifications)
	p.CreatedAt = s.now()
	return &p, nil
}

// AnalyzeCase runs diagnosis, then treatment planning, then validation of
// the plan.
func (s *Service) AnalyzeCase(ctx context.Context, c Case) (*CaseAnalysis, error) {
	if err := checkCase(c); err != nil {
		return nil, err
	}
	mc := medicalContext(c)

	var (
		d *Diagnosis
		p *TreatmentPlan
	)
	if s.gate.IsMock() {
		md, mp := mockDiagnosis(), mockTreatmentPlan(s.now())
		d, p = &md, &mp
	} else {
		var err error
		if d, err = s.diagnose(ctx, c, mc); err != nil {
			return nil, err
		}
		if p, err = s.planTreatment(ctx, c, d, mc); err != nil {
			return nil, err
		}
	}

	return &CaseAnalysis{
		Diagnosis:      *d,
		TreatmentPlan:  *p,
		Validation:     validate(planForValidation(*p)),
		MedicalContext: mc,
	}, nil
}

// Recommend runs the recommendation engine over a patient's history.
func (s *Service) Recommend(ctx context.Context, h PatientHistory) (*RecommendationResponse, error) {
	if strings.TrimSpace(h.Condition) == "" && len(h.Symptoms) == 0 {
		return nil, store.Invalid("condition or symptoms is required")
	}
	if s.gate.IsMock() {
		r := mockRecommendations(h)
		return &r, nil
	}

	mc := medicalContext(Case{Condition: h.Condition, Symptoms: h.Symptoms})
	user := fmt.Sprintf(`Patient: %s
Age: %d
Condition: %s
Symptoms: %s
Previous treatments: %s
Last visit: %s
Allergies: %s
Current medications: %s

Medical context:
%s

Reply with a JSON object only:
{"recommendations": [{"type": string, "title": string, "description": string, "priority": "High"|"Medium"|"Low", "suggested_date": string, "reasoning": string}], "next_appointment": string, "additional_notes": string}`,
		h.PatientName, h.Age, h.Condition,
		strings.Join(h.Symptoms, ", "),
		strings.Join(h.PreviousTreatments, ", "),
		h.LastVisit,
		strings.Join(h.Allergies, ", "),
		strings.Join(h.CurrentMedications, ", "),
		mc)

	var r RecommendationResponse
	if err := s.completeJSON(ctx, "recommendations", recommendSystem, user, &r); err != nil {
		return nil, err
	}
	if r.Recommendations == nil {
		r.Recommendations = []Recommendation{}
	}
	return &r, nil
}

// Explain writes a patient-friendly explanation of a treatment or
// medicine. The mock path always returns a non-empty text.
func (s *Service) Explain(ctx context.Context, req ExplainRequest) (*Explanation, error) {
	req.ItemName = strings.TrimSpace(req.ItemName)
	if req.ItemName == "" {
		return nil, store.Invalid("item_name is required")
	}
	switch req.ItemType {
	case "", "treatment", "medicine":
	default:
		return nil, store.Invalid("item_type must be \"treatment\" or \"medicine\"")
	}
	if s.gate.IsMock() {
		e := mockExplanation(req)
		return &e, nil
	}

	kind := req.ItemType
	if kind == "" {
		kind = "treatment"
	}
	user := fmt.Sprintf("Explain the %s %q to a patient in two or three short paragraphs.", kind, req.ItemName)
	if req.Details != "" {
		user += "\n\nDetails from the clinic:\n" + req.Details
	}
	text, err := s.complete(ctx, "explain", explainSystem, user)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, s.gate.Wrap(llm.ErrEmptyCompletion)
	}
	return &Explanation{ItemType: req.ItemType, ItemName: req.ItemName, Explanation: text}, nil
}

// ExplainItem adapts Explain to the treatment-info generator.
func (s *Service) ExplainItem(ctx context.Context, kind, name, details string) (string, error) {
	e, err := s.Explain(ctx, ExplainRequest{ItemType: kind, ItemName: name, Details: details})
	if err != nil {
		return "", err
	}
	return e.Explanation, nil
}

// Chat answers one message of the patient assistant.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return nil, store.Invalid("message is required")
	}
	if s.gate.IsMock() {
		r := mockChat(req)
		return &r, nil
	}

	history := req.History
	if len(history) > maxChatHistory {
		history = history[len(history)-maxChatHistory:]
	}
	var b strings.Builder
	for _, t := range history {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}
	fmt.Fprintf(&b, "patient: %s\n", req.Message)
	b.WriteString(`
Reply with a JSON object only:
{"reply": string, "suggestions": [string]}`)

	text, err := s.complete(ctx, "chat", chatSystem, b.String())
	if err != nil {
		return nil, err
	}
	var r ChatReply
	if jerr := json.Unmarshal([]byte(extractJSON(text)), &r); jerr != nil || strings.TrimSpace(r.Reply) == "" {
		// the model answered in prose; keep it as the reply
		r = ChatReply{Reply: strings.TrimSpace(text)}
	}
	r.Suggestions = store.Strings(r.Suggestions)
	r.Mode = string(capability.ModeLive)
	return &r, nil
}

// Summarize writes a clinician summary and a patient explanation of a
// report.
func (s *Service) Summarize(ctx context.Context, req SummaryRequest) (*ReportSummary, error) {
	if strings.TrimSpace(req.Diagnosis) == "" && strings.TrimSpace(req.Notes) == "" {
		return nil, store.Invalid("diagnosis or notes is required")
	}
	if s.gate.IsMock() {
		r := mockSummary(req)
		return &r, nil
	}

	user := fmt.Sprintf(`Diagnosis: %s
Notes: %s
Treatments: %s
Medicines: %s

Reply with a JSON object only:
{"ai_summary": string, "ai_explanation": string}
ai_summary is two sentences for the clinician; ai_explanation is plain language for the patient.`,
		req.Diagnosis, req.Notes, strings.Join(req.Treatments, ", "), strings.Join(req.Medicines, ", "))

	var r ReportSummary
	if err := s.completeJSON(ctx, "report-summary", summarySystem, user, &r); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.AISummary) == "" {
		return nil, s.gate.Wrap(errors.New("report-summary: reply has no ai_summary"))
	}
	return &r, nil
}

// SummarizeReport adapts Summarize to the report service.
func (s *Service) SummarizeReport(ctx context.Context, r *report.Report) (string, string, error) {
	sum, err := s.Summarize(ctx, SummaryRequest{
		Diagnosis:  r.Diagnosis,
		Notes:      r.Notes,
		Treatments: r.Treatments,
		Medicines:  r.Medicines,
	})
	if err != nil {
		return "", "", err
	}
	return sum.AISummary, sum.AIExplanation, nil
}

// Validate scans a recommendation for risk language.
func (s *Service) Validate(recommendation map[string]interface{}) Validation {
	return validate(recommendation)
}
