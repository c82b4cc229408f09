package treatmentinfo

import (
	"context"
	"time"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/store"
)

type repoMem struct {
	rows *store.Table[Info]
}

func NewRepoMem() Repository {
	return &repoMem{rows: store.NewTable(func(i Info) time.Time { return i.CreatedAt })}
}

func key(kind, itemID string) string { return kind + "/" + itemID }

func (r *repoMem) Get(ctx context.Context, kind, itemID string) (*Info, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	info, err := r.rows.Get(hid, key(kind, itemID))
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *repoMem) Upsert(ctx context.Context, info *Info) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	return r.rows.Locked(hid, func(rows map[string]Info) error {
		now := store.Now()
		k := key(info.ItemType, info.ItemID)
		if cur, ok := rows[k]; ok {
			info.ID = cur.ID
			info.CreatedAt = cur.CreatedAt
		} else {
			info.ID = store.NewID()
			info.CreatedAt = now
		}
		info.HospitalID = hid
		info.UpdatedAt = now
		rows[k] = *info
		return nil
	})
}
