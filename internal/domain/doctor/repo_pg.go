package doctor

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

const doctorCols = `id, hospital_id, name, specialty, email, phone, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.HospitalID, &d.Name, &d.Specialty, &d.Email, &d.Phone, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	d.ID = store.NewID()
	d.HospitalID = hid
	d.CreatedAt = store.Now()
	d.UpdatedAt = d.CreatedAt
	_, err = db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO doctors (`+doctorCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.HospitalID, d.Name, d.Specialty, d.Email, d.Phone, d.CreatedAt, d.UpdatedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Doctor, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	if !store.ValidUUID(id) {
		return nil, store.ErrNotFound
	}
	return scanDoctor(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE id = $1 AND hospital_id = $2`, id, hid))
}

func (r *repoPG) exec(ctx context.Context, sql, id string, args ...any) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	if !store.ValidUUID(id) {
		return store.ErrNotFound
	}
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, sql, append([]any{id, hid}, args...)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	d.UpdatedAt = store.Now()
	return r.exec(ctx, `UPDATE doctors SET name=$3, specialty=$4, email=$5, phone=$6, updated_at=$7
		WHERE id = $1 AND hospital_id = $2`, d.ID, d.Name, d.Specialty, d.Email, d.Phone, d.UpdatedAt)
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM doctors WHERE id = $1 AND hospital_id = $2`, id)
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, 0, err
	}
	q := db.Conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM doctors WHERE hospital_id = $1`, hid).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, `SELECT `+doctorCols+` FROM doctors WHERE hospital_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, hid, db.Limit(limit), offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Doctor, error) {
		return scanDoctor(row)
	})
	return items, total, err
}
