package medicine

import (
	"fmt"
	"time"

	"github.com/dermai/clinic/internal/platform/store"
)

// ErrInsufficientStock is returned when an adjustment would take stock
// below zero.
var ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", store.ErrConflict)

type Medicine struct {
	ID           string    `json:"id" firestore:"-"`
	HospitalID   string    `json:"hospital_id" firestore:"-"`
	Name         string    `json:"name" firestore:"name"`
	Type         string    `json:"type,omitempty" firestore:"type"`
	Usage        string    `json:"usage,omitempty" firestore:"usage"`
	Dosage       string    `json:"dosage,omitempty" firestore:"dosage"`
	Stock        int       `json:"stock" firestore:"stock"`
	TimeToTake   string    `json:"time_to_take,omitempty" firestore:"time_to_take"`
	DurationDays *int      `json:"duration_days,omitempty" firestore:"duration_days"`
	CreatedAt    time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updated_at"`
}

type Update struct {
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	Usage        *string `json:"usage"`
	Dosage       *string `json:"dosage"`
	Stock        *int    `json:"stock"`
	TimeToTake   *string `json:"time_to_take"`
	DurationDays *int    `json:"duration_days"`
}

func (u *Update) apply(m *Medicine) {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Type != nil {
		m.Type = *u.Type
	}
	if u.Usage != nil {
		m.Usage = *u.Usage
	}
	if u.Dosage != nil {
		m.Dosage = *u.Dosage
	}
	if u.Stock != nil {
		m.Stock = *u.Stock
	}
	if u.TimeToTake != nil {
		m.TimeToTake = *u.TimeToTake
	}
	if u.DurationDays != nil {
		m.DurationDays = u.DurationDays
	}
}
