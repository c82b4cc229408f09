package doctor

import (
	"context"
	"time"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/store"
)

type repoMem struct {
	rows *store.Table[Doctor]
}

func NewRepoMem() Repository {
	return &repoMem{rows: store.NewTable(func(d Doctor) time.Time { return d.CreatedAt })}
}

func (r *repoMem) Create(ctx context.Context, d *Doctor) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	d.ID = store.NewID()
	d.HospitalID = hid
	d.CreatedAt = store.Now()
	d.UpdatedAt = d.CreatedAt
	r.rows.Insert(hid, d.ID, *d)
	return nil
}

func (r *repoMem) GetByID(ctx context.Context, id string) (*Doctor, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	d, err := r.rows.Get(hid, id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoMem) Update(ctx context.Context, d *Doctor) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Mutate(hid, d.ID, func(cur Doctor) (Doctor, error) {
		d.HospitalID = hid
		d.CreatedAt = cur.CreatedAt
		d.UpdatedAt = store.Now()
		return *d, nil
	})
}

func (r *repoMem) Delete(ctx context.Context, id string) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Remove(hid, id)
}

func (r *repoMem) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, 0, err
	}
	page, total := r.rows.Page(hid, nil, limit, offset)
	items := make([]*Doctor, 0, len(page))
	for i := range page {
		items = append(items, &page[i])
	}
	return items, total, nil
}
