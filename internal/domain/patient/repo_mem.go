package patient

import (
	"context"
	"slices"
	"time"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/store"
)

type repoMem struct {
	rows *store.Table[Patient]
}

// NewRepoMem returns the in-memory repository used when no storage
// backend is available.
func NewRepoMem() Repository {
	return &repoMem{rows: store.NewTable(func(p Patient) time.Time { return p.CreatedAt })}
}

func clonePatient(p Patient) Patient {
	p.Symptoms = slices.Clone(p.Symptoms)
	p.Allergies = slices.Clone(p.Allergies)
	p.CurrentMedications = slices.Clone(p.CurrentMedications)
	return p
}

func (r *repoMem) Create(ctx context.Context, p *Patient) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	p.ID = store.NewID()
	p.HospitalID = hid
	p.CreatedAt = store.Now()
	p.UpdatedAt = p.CreatedAt
	r.rows.Insert(hid, p.ID, clonePatient(*p))
	return nil
}

func (r *repoMem) GetByID(ctx context.Context, id string) (*Patient, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	p, err := r.rows.Get(hid, id)
	if err != nil {
		return nil, err
	}
	out := clonePatient(p)
	return &out, nil
}

func (r *repoMem) Update(ctx context.Context, p *Patient) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Mutate(hid, p.ID, func(cur Patient) (Patient, error) {
		p.HospitalID = hid
		p.CreatedAt = cur.CreatedAt
		p.UpdatedAt = store.Now()
		return clonePatient(*p), nil
	})
}

func (r *repoMem) Delete(ctx context.Context, id string) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Remove(hid, id)
}

func (r *repoMem) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, 0, err
	}
	page, total := r.rows.Page(hid, nil, limit, offset)
	items := make([]*Patient, 0, len(page))
	for _, p := range page {
		c := clonePatient(p)
		items = append(items, &c)
	}
	return items, total, nil
}
