package treatment

import (
	"context"
	"time"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/store"
)

type repoMem struct {
	rows *store.Table[Treatment]
}

func NewRepoMem() Repository {
	return &repoMem{rows: store.NewTable(func(t Treatment) time.Time { return t.CreatedAt })}
}

func (r *repoMem) Create(ctx context.Context, t *Treatment) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	t.ID = store.NewID()
	t.HospitalID = hid
	t.CreatedAt = store.Now()
	t.UpdatedAt = t.CreatedAt
	r.rows.Insert(hid, t.ID, *t)
	return nil
}

func (r *repoMem) GetByID(ctx context.Context, id string) (*Treatment, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	t, err := r.rows.Get(hid, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repoMem) Update(ctx context.Context, t *Treatment) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Mutate(hid, t.ID, func(cur Treatment) (Treatment, error) {
		t.HospitalID = hid
		t.CreatedAt = cur.CreatedAt
		t.UpdatedAt = store.Now()
		return *t, nil
	})
}

func (r *repoMem) Delete(ctx context.Context, id string) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Remove(hid, id)
}

func (r *repoMem) List(ctx context.Context, limit, offset int) ([]*Treatment, int, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, 0, err
	}
	page, total := r.rows.Page(hid, nil, limit, offset)
	items := make([]*Treatment, 0, len(page))
	for i := range page {
		items = append(items, &page[i])
	}
	return items, total, nil
}
