package medicine

import (
	"context"
	"time"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/store"
)

type repoMem struct {
	rows *store.Table[Medicine]
}

func NewRepoMem() Repository {
	return &repoMem{rows: store.NewTable(func(m Medicine) time.Time { return m.CreatedAt })}
}

func (r *repoMem) Create(ctx context.Context, m *Medicine) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	m.ID = store.NewID()
	m.HospitalID = hid
	m.CreatedAt = store.Now()
	m.UpdatedAt = m.CreatedAt
	r.rows.Insert(hid, m.ID, *m)
	return nil
}

func (r *repoMem) GetByID(ctx context.Context, id string) (*Medicine, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	m, err := r.rows.Get(hid, id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repoMem) Update(ctx context.Context, m *Medicine) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Mutate(hid, m.ID, func(cur Medicine) (Medicine, error) {
		m.HospitalID = hid
		m.CreatedAt = cur.CreatedAt
		m.UpdatedAt = store.Now()
		return *m, nil
	})
}

func (r *repoMem) Delete(ctx context.Context, id string) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Remove(hid, id)
}

func (r *repoMem) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, 0, err
	}
	page, total := r.rows.Page(hid, nil, limit, offset)
	items := make([]*Medicine, 0, len(page))
	for i := range page {
		items = append(items, &page[i])
	}
	return items, total, nil
}

func (r *repoMem) AdjustStock(ctx context.Context, id string, delta int) (*Medicine, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	var out Medicine
	err = r.rows.Mutate(hid, id, func(cur Medicine) (Medicine, error) {
		if cur.Stock+delta < 0 {
			return cur, ErrInsufficientStock
		}
		cur.Stock += delta
		cur.UpdatedAt = store.Now()
		out = cur
		return cur, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
