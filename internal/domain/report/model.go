package report

import "time"

// Message senders, also the two kinds of reader.
const (
	SenderDoctor  = "doctor"
	SenderPatient = "patient"
)

type Message struct {
	ID            string    `json:"id" firestore:"id"`
	Sender        string    `json:"sender" firestore:"sender"`
	Content       string    `json:"content" firestore:"content"`
	Timestamp     time.Time `json:"timestamp" firestore:"timestamp"`
	ReadByDoctor  bool      `json:"read_by_doctor" firestore:"readByDoctor"`
	ReadByPatient bool      `json:"read_by_patient" firestore:"readByPatient"`
}

type Report struct {
	ID            string    `json:"id" firestore:"-"`
	HospitalID    string    `json:"hospital_id" firestore:"-"`
	PatientID     string    `json:"patient_id" firestore:"patientId"`
	Doctor        string    `json:"doctor,omitempty" firestore:"doctor"`
	Diagnosis     string    `json:"diagnosis,omitempty" firestore:"diagnosis"`
	Notes         string    `json:"notes,omitempty" firestore:"notes"`
	Treatments    []string  `json:"treatments" firestore:"treatments"`
	Medicines     []string  `json:"medicines" firestore:"medicines"`
	AISummary     string    `json:"ai_summary,omitempty" firestore:"ai_summary"`
	AIExplanation string    `json:"ai_explanation,omitempty" firestore:"ai_explanation"`
	Messages      []Message `json:"messages" firestore:"messages"`
	CreatedAt     time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updated_at"`
}

// UnreadCount is the number of patient messages the doctor has not read.
func (r *Report) UnreadCount() int {
	n := 0
	for _, m := range r.Messages {
		if m.Sender == SenderPatient && !m.ReadByDoctor {
			n++
		}
	}
	return n
}

// Update carries the fields of a partial update; nil means unchanged.
// Messages are never replaced through an update.
type Update struct {
	Doctor        *string  `json:"doctor"`
	Diagnosis     *string  `json:"diagnosis"`
	Notes         *string  `json:"notes"`
	Treatments    []string `json:"treatments"`
	Medicines     []string `json:"medicines"`
	AISummary     *string  `json:"ai_summary"`
	AIExplanation *string  `json:"ai_explanation"`
}

func (u *Update) apply(r *Report) {
	if u.Doctor != nil {
		r.Doctor = *u.Doctor
	}
	if u.Diagnosis != nil {
		r.Diagnosis = *u.Diagnosis
	}
	if u.Notes != nil {
		r.Notes = *u.Notes
	}
	if u.Treatments != nil {
		r.Treatments = u.Treatments
	}
	if u.Medicines != nil {
		r.Medicines = u.Medicines
	}
	if u.AISummary != nil {
		r.AISummary = *u.AISummary
	}
	if u.AIExplanation != nil {
		r.AIExplanation = *u.AIExplanation
	}
}

// UnreadSummary is one row of the doctor's unread-messages inbox.
type UnreadSummary struct {
	ReportID       string    `json:"id"`
	PatientID      string    `json:"patient_id"`
	PatientName    string    `json:"patient_name"`
	Diagnosis      string    `json:"diagnosis,omitempty"`
	Doctor         string    `json:"doctor,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UnreadMessages int       `json:"unread_messages"`
}
