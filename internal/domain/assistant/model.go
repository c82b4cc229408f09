package assistant

import "time"

// Case is the clinical picture sent to the diagnosis and treatment agents.
type Case struct {
	PatientName    string   `json:"patient_name,omitempty"`
	Age            int      `json:"age"`
	Condition      string   `json:"condition,omitempty"`
	Symptoms       []string `json:"symptoms"`
	MedicalHistory string   `json:"medical_history,omitempty"`
}

type Diagnosis struct {
	PrimaryDiagnosis      string   `json:"primary_diagnosis"`
	Confidence            float64  `json:"confidence"`
	DifferentialDiagnoses []string `json:"differential_diagnoses"`
	Reasoning             string   `json:"reasoning"`
}

type TreatmentPlan struct {
	Recommendations        string    `json:"recommendations"`
	FollowUp               string    `json:"follow_up"`
	LifestyleModifications []string  `json:"lifestyle_modifications"`
	ExpectedOutcomes       string    `json:"expected_outcomes"`
	CreatedAt              time.Time `json:"created_at"`
}

// CaseAnalysis is the combined output of the diagnosis and treatment agents.
type CaseAnalysis struct {
	Diagnosis      Diagnosis     `json:"diagnosis"`
	TreatmentPlan  TreatmentPlan `json:"treatment_plan"`
	Validation     Validation    `json:"validation"`
	MedicalContext string        `json:"medical_context"`
}

// PatientHistory is the input of the recommendation engine.
type PatientHistory struct {
	PatientName        string   `json:"patient_name"`
	Age                int      `json:"age"`
	Condition          string   `json:"condition"`
	Symptoms           []string `json:"symptoms"`
	PreviousTreatments []string `json:"previous_treatments"`
	LastVisit          string   `json:"last_visit"`
	Allergies          []string `json:"allergies"`
	CurrentMedications []string `json:"current_medications"`
}

type Recommendation struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Priority      string `json:"priority"`
	SuggestedDate string `json:"suggested_date,omitempty"`
	Reasoning     string `json:"reasoning"`
}

type RecommendationResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	NextAppointment string           `json:"next_appointment"`
	AdditionalNotes string           `json:"additional_notes"`
}

// ExplainRequest names a treatment or medicine to explain to a patient.
type ExplainRequest struct {
	ItemType string `json:"item_type"`
	ItemName string `json:"item_name"`
	Details  string `json:"details,omitempty"`
}

type Explanation struct {
	ItemType    string `json:"item_type"`
	ItemName    string `json:"item_name"`
	Explanation string `json:"explanation"`
}

// ChatTurn is one earlier message of a conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history,omitempty"`
}

type ChatReply struct {
	Reply       string   `json:"reply"`
	Suggestions []string `json:"suggestions"`
	Mode        string   `json:"mode"`
}

// SummaryRequest is the part of a report the summary is written from.
type SummaryRequest struct {
	Diagnosis  string   `json:"diagnosis"`
	Notes      string   `json:"notes,omitempty"`
	Treatments []string `json:"treatments,omitempty"`
	Medicines  []string `json:"medicines,omitempty"`
}

type ReportSummary struct {
	AISummary     string `json:"ai_summary"`
	AIExplanation string `json:"ai_explanation"`
}

type Validation struct {
	IsValid     bool     `json:"is_valid"`
	Confidence  float64  `json:"confidence"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}
