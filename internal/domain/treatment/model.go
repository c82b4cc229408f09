package treatment

import "time"

type Treatment struct {
	ID          string    `json:"id" firestore:"-"`
	HospitalID  string    `json:"hospital_id" firestore:"-"`
	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description,omitempty" firestore:"description"`
	Duration    string    `json:"duration,omitempty" firestore:"duration"`
	Cost        float64   `json:"cost" firestore:"cost"`
	CreatedAt   time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updated_at"`
}

type Update struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Duration    *string  `json:"duration"`
	Cost        *float64 `json:"cost"`
}

func (u *Update) apply(t *Treatment) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Duration != nil {
		t.Duration = *u.Duration
	}
	if u.Cost != nil {
		t.Cost = *u.Cost
	}
}
