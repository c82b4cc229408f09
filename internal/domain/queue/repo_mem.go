package queue

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/store"
)

type repoMem struct {
	rows *store.Table[Entry]
	// last token per hospital/date/type; only touched under rows.Locked
	tokens map[string]int
}

func NewRepoMem() Repository {
	return &repoMem{
		rows:   store.NewTable(func(e Entry) time.Time { return e.CheckInTime }),
		tokens: make(map[string]int),
	}
}

func (r *repoMem) CheckIn(ctx context.Context, e *Entry) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Locked(hid, func(rows map[string]Entry) error {
		key := hid + "/" + e.Date + "/" + e.QueueType
		r.tokens[key]++
		e.ID = store.NewID()
		e.HospitalID = hid
		e.TokenNumber = r.tokens[key]
		rows[e.ID] = *e
		return nil
	})
}

func (r *repoMem) GetByID(ctx context.Context, id string) (*Entry, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	e, err := r.rows.Get(hid, id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repoMem) ListDay(ctx context.Context, date string, statuses []string) ([]*Entry, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	rows := r.rows.Select(hid, func(e Entry) bool {
		return e.Date == date && slices.Contains(statuses, e.Status)
	})
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CheckInTime.Equal(rows[j].CheckInTime) {
			return rows[i].TokenNumber < rows[j].TokenNumber
		}
		return rows[i].CheckInTime.Before(rows[j].CheckInTime)
	})
	out := make([]*Entry, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out, nil
}

func (r *repoMem) UpdateStatus(ctx context.Context, id, status string, at time.Time) (*Entry, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	var out Entry
	err = r.rows.Mutate(hid, id, func(cur Entry) (Entry, error) {
		cur.applyStatus(status, at)
		out = cur
		return cur, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repoMem) Delete(ctx context.Context, id string) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Remove(hid, id)
}
