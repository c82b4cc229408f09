package treatment

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

const treatmentCols = `id, hospital_id, name, description, duration, cost, created_at, updated_at`

func scanTreatment(row pgx.Row) (*Treatment, error) {
	var t Treatment
	err := row.Scan(&t.ID, &t.HospitalID, &t.Name, &t.Description, &t.Duration, &t.Cost, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return &t, err
}

func (r *repoPG) Create(ctx context.Context, t *Treatment) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	t.ID = store.NewID()
	t.HospitalID = hid
	t.CreatedAt = store.Now()
	t.UpdatedAt = t.CreatedAt
	_, err = db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO treatments (`+treatmentCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		t.ID, t.HospitalID, t.Name, t.Description, t.Duration, t.Cost, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Treatment, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	if !store.ValidUUID(id) {
		return nil, store.ErrNotFound
	}
	return scanTreatment(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+treatmentCols+` FROM treatments WHERE id = $1 AND hospital_id = $2`, id, hid))
}

func (r *repoPG) Update(ctx context.Context, t *Treatment) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	if !store.ValidUUID(t.ID) {
		return store.ErrNotFound
	}
	t.UpdatedAt = store.Now()
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE treatments SET name=$3, description=$4, duration=$5, cost=$6, updated_at=$7
		WHERE id = $1 AND hospital_id = $2`,
		t.ID, hid, t.Name, t.Description, t.Duration, t.Cost, t.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	if !store.ValidUUID(id) {
		return store.ErrNotFound
	}
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM treatments WHERE id = $1 AND hospital_id = $2`, id, hid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Treatment, int, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, 0, err
	}
	q := db.Conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM treatments WHERE hospital_id = $1`, hid).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, `SELECT `+treatmentCols+` FROM treatments WHERE hospital_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, hid, db.Limit(limit), offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Treatment
	for rows.Next() {
		t, err := scanTreatment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}
