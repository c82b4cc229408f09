package queue

import "time"

// Queue types.
const (
	TypeCheckUp   = "check-up"
	TypeTreatment = "treatment"
	TypeBilling   = "billing"
)

// Entry statuses.
const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// DateLayout is the format of Entry.Date.
const DateLayout = "2006-01-02"

// DefaultWaitMinutes is the estimate attached to every new entry.
const DefaultWaitMinutes = 15

var (
	types    = []string{TypeCheckUp, TypeTreatment, TypeBilling}
	statuses = map[string]bool{
		StatusWaiting:    true,
		StatusInProgress: true,
		StatusCompleted:  true,
		StatusCancelled:  true,
	}
	active = []string{StatusWaiting, StatusInProgress}
)

// Types lists the queue types in board order.
func Types() []string {
	return append([]string(nil), types...)
}

func validType(t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

type Entry struct {
	ID                string     `json:"id" firestore:"-"`
	HospitalID        string     `json:"hospital_id" firestore:"-"`
	PatientID         string     `json:"patient_id" firestore:"patientId"`
	TokenNumber       int        `json:"token_number" firestore:"tokenNumber"`
	QueueType         string     `json:"queue_type" firestore:"queueType"`
	Status            string     `json:"status" firestore:"status"`
	Date              string     `json:"date" firestore:"date"`
	CheckInTime       time.Time  `json:"check_in_time" firestore:"checkInTime"`
	StartTime         *time.Time `json:"start_time,omitempty" firestore:"startTime"`
	EndTime           *time.Time `json:"end_time,omitempty" firestore:"endTime"`
	StatusUpdatedAt   *time.Time `json:"status_updated_at,omitempty" firestore:"statusUpdatedAt"`
	EstimatedWaitTime int        `json:"estimated_wait_time" firestore:"estimatedWaitTime"`
}

// applyStatus sets status and the timestamps that go with it.
func (e *Entry) applyStatus(status string, at time.Time) {
	e.Status = status
	e.StatusUpdatedAt = &at
	switch status {
	case StatusInProgress:
		e.StartTime = &at
	case StatusCompleted:
		e.EndTime = &at
	}
}

// Board is the live view of today's queues keyed by queue type.
type Board map[string][]*Entry
