package report

import (
	"context"
	"slices"
	"time"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/store"
)

type repoMem struct {
	rows *store.Table[Report]
}

func NewRepoMem() Repository {
	return &repoMem{rows: store.NewTable(func(r Report) time.Time { return r.CreatedAt })}
}

func cloneReport(r Report) Report {
	r.Treatments = slices.Clone(r.Treatments)
	r.Medicines = slices.Clone(r.Medicines)
	r.Messages = slices.Clone(r.Messages)
	if r.Messages == nil {
		r.Messages = []Message{}
	}
	return r
}

func markRead(msgs []Message, reader string) {
	for i := range msgs {
		if reader == SenderDoctor {
			msgs[i].ReadByDoctor = true
		} else {
			msgs[i].ReadByPatient = true
		}
	}
}

func (r *repoMem) Create(ctx context.Context, rep *Report) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	rep.ID = store.NewID()
	rep.HospitalID = hid
	rep.CreatedAt = store.Now()
	rep.UpdatedAt = rep.CreatedAt
	rep.Messages = messagesOrEmpty(rep.Messages)
	r.rows.Insert(hid, rep.ID, cloneReport(*rep))
	return nil
}

func (r *repoMem) GetByID(ctx context.Context, id string) (*Report, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	rep, err := r.rows.Get(hid, id)
	if err != nil {
		return nil, err
	}
	out := cloneReport(rep)
	return &out, nil
}

func (r *repoMem) Update(ctx context.Context, rep *Report) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Mutate(hid, rep.ID, func(cur Report) (Report, error) {
		next := cloneReport(*rep)
		next.HospitalID = hid
		next.PatientID = cur.PatientID
		next.Messages = cur.Messages
		next.CreatedAt = cur.CreatedAt
		next.UpdatedAt = store.Now()
		rep.UpdatedAt = next.UpdatedAt
		return next, nil
	})
}

func (r *repoMem) Delete(ctx context.Context, id string) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Remove(hid, id)
}

func (r *repoMem) List(ctx context.Context, patientID string, limit, offset int) ([]*Report, int, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, 0, err
	}
	var keep func(Report) bool
	if patientID != "" {
		keep = func(rep Report) bool { return rep.PatientID == patientID }
	}
	page, total := r.rows.Page(hid, keep, limit, offset)
	items := make([]*Report, 0, len(page))
	for _, rep := range page {
		c := cloneReport(rep)
		items = append(items, &c)
	}
	return items, total, nil
}

func (r *repoMem) AppendMessage(ctx context.Context, id string, m Message) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Mutate(hid, id, func(cur Report) (Report, error) {
		cur = cloneReport(cur)
		cur.Messages = append(cur.Messages, m)
		cur.UpdatedAt = store.Now()
		return cur, nil
	})
}

func (r *repoMem) MarkRead(ctx context.Context, id, reader string) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Mutate(hid, id, func(cur Report) (Report, error) {
		cur = cloneReport(cur)
		markRead(cur.Messages, reader)
		cur.UpdatedAt = store.Now()
		return cur, nil
	})
}

func (r *repoMem) ListUnread(ctx context.Context) ([]*Report, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Report
	for _, rep := range r.rows.Select(hid, func(rep Report) bool { return rep.UnreadCount() > 0 }) {
		c := cloneReport(rep)
		out = append(out, &c)
	}
	return out, nil
}
