package patient

import "time"

// Patient statuses. New patients start active.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSaved     = "saved"
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusConfirmed = "confirmed"
	StatusError     = "error"
)

var validStatuses = map[string]bool{
	StatusActive: true, StatusInactive: true, StatusSaved: true, StatusPending: true,
	StatusCompleted: true, StatusConfirmed: true, StatusError: true,
}

type Patient struct {
	ID                 string                 `json:"id" firestore:"-"`
	HospitalID         string                 `json:"hospital_id" firestore:"-"`
	Name               string                 `json:"name" firestore:"name"`
	Age                *int                   `json:"age,omitempty" firestore:"age"`
	Gender             string                 `json:"gender,omitempty" firestore:"gender"`
	Phone              string                 `json:"phone,omitempty" firestore:"phone"`
	Email              string                 `json:"email,omitempty" firestore:"email"`
	Condition          string                 `json:"condition,omitempty" firestore:"condition"`
	Symptoms           []string               `json:"symptoms" firestore:"symptoms"`
	Allergies          []string               `json:"allergies" firestore:"allergies"`
	CurrentMedications []string               `json:"current_medications" firestore:"current_medications"`
	MedicalHistory     string                 `json:"medical_history,omitempty" firestore:"medical_history"`
	Status             string                 `json:"status" firestore:"status"`
	Priority           bool                   `json:"priority" firestore:"priority"`
	LastVisit          *time.Time             `json:"last_visit,omitempty" firestore:"last_visit"`
	TreatmentPlan      map[string]interface{} `json:"treatment_plan,omitempty" firestore:"treatment_plan"`
	CreatedAt          time.Time              `json:"created_at" firestore:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at" firestore:"updated_at"`
}

// Update carries the fields of a partial update; nil means unchanged.
type Update struct {
	Name               *string                `json:"name"`
	Age                *int                   `json:"age"`
	Gender             *string                `json:"gender"`
	Phone              *string                `json:"phone"`
	Email              *string                `json:"email"`
	Condition          *string                `json:"condition"`
	Symptoms           []string               `json:"symptoms"`
	Allergies          []string               `json:"allergies"`
	CurrentMedications []string               `json:"current_medications"`
	MedicalHistory     *string                `json:"medical_history"`
	Status             *string                `json:"status"`
	LastVisit          *time.Time             `json:"last_visit"`
	TreatmentPlan      map[string]interface{} `json:"treatment_plan"`
}

func (u *Update) apply(p *Patient) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Age != nil {
		p.Age = u.Age
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Condition != nil {
		p.Condition = *u.Condition
	}
	if u.Symptoms != nil {
		p.Symptoms = u.Symptoms
	}
	if u.Allergies != nil {
		p.Allergies = u.Allergies
	}
	if u.CurrentMedications != nil {
		p.CurrentMedications = u.CurrentMedications
	}
	if u.MedicalHistory != nil {
		p.MedicalHistory = *u.MedicalHistory
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.LastVisit != nil {
		p.LastVisit = u.LastVisit
	}
	if u.TreatmentPlan != nil {
		p.TreatmentPlan = u.TreatmentPlan
	}
}
