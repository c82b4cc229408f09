package treatmentinfo

import "time"

// Item kinds.
const (
	KindTreatment = "treatment"
	KindMedicine  = "medicine"
)

func validKind(k string) bool {
	return k == KindTreatment || k == KindMedicine
}

// Info is the patient-facing explanation of one treatment or medicine.
type Info struct {
	ID          string    `json:"id" firestore:"-"`
	HospitalID  string    `json:"hospital_id" firestore:"-"`
	ItemType    string    `json:"item_type" firestore:"item_type"`
	ItemID      string    `json:"item_id" firestore:"item_id"`
	ItemName    string    `json:"item_name" firestore:"item_name"`
	Explanation string    `json:"explanation" firestore:"explanation"`
	CreatedAt   time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updated_at"`
}

// ItemRef names one item of a batch request.
type ItemRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}
