package doctor

import "time"

type Doctor struct {
	ID         string    `json:"id" firestore:"-"`
	HospitalID string    `json:"hospital_id" firestore:"-"`
	Name       string    `json:"name" firestore:"name"`
	Specialty  string    `json:"specialty,omitempty" firestore:"specialty"`
	Email      string    `json:"email,omitempty" firestore:"email"`
	Phone      string    `json:"phone,omitempty" firestore:"phone"`
	CreatedAt  time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updated_at"`
}

type Update struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

func (u *Update) apply(d *Doctor) {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Specialty != nil {
		d.Specialty = *u.Specialty
	}
	if u.Email != nil {
		d.Email = *u.Email
	}
	if u.Phone != nil {
		d.Phone = *u.Phone
	}
}
