package treatmentinfo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/store"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const infoCols = `id, hospital_id, item_type, item_id, item_name, explanation, created_at, updated_at`

func scanInfo(row pgx.Row) (*Info, error) {
	var i Info
	err := row.Scan(&i.ID, &i.HospitalID, &i.ItemType, &i.ItemID, &i.ItemName, &i.Explanation,
		&i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return &i, err
}

func (r *repoPG) Get(ctx context.Context, kind, itemID string) (*Info, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	return scanInfo(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+infoCols+` FROM treatment_info
		WHERE hospital_id = $1 AND item_type = $2 AND item_id = $3`, hid, kind, itemID))
}

func (r *repoPG) Upsert(ctx context.Context, info *Info) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	now := store.Now()
	got, err := scanInfo(db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO treatment_info (`+infoCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
		ON CONFLICT (hospital_id, item_type, item_id)
		DO UPDATE SET item_name = EXCLUDED.item_name, explanation = EXCLUDED.explanation,
			updated_at = EXCLUDED.updated_at
		RETURNING `+infoCols,
		store.NewID(), hid, info.ItemType, info.ItemID, info.ItemName, info.Explanation, now))
	if err != nil {
		return err
	}
	*info = *got
	return nil
}
