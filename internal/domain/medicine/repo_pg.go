package medicine

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

const medicineCols = `id, hospital_id, name, type, usage, dosage, stock, time_to_take, duration_days,
	created_at, updated_at`

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(&m.ID, &m.HospitalID, &m.Name, &m.Type, &m.Usage, &m.Dosage, &m.Stock,
		&m.TimeToTake, &m.DurationDays, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Medicine) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	m.ID = store.NewID()
	m.HospitalID = hid
	m.CreatedAt = store.Now()
	m.UpdatedAt = m.CreatedAt
	_, err = db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO medicines (`+medicineCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		m.ID, m.HospitalID, m.Name, m.Type, m.Usage, m.Dosage, m.Stock, m.TimeToTake, m.DurationDays,
		m.CreatedAt, m.UpdatedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Medicine, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	if !store.ValidUUID(id) {
		return nil, store.ErrNotFound
	}
	return scanMedicine(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+medicineCols+` FROM medicines WHERE id = $1 AND hospital_id = $2`, id, hid))
}

func (r *repoPG) Update(ctx context.Context, m *Medicine) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	if !store.ValidUUID(m.ID) {
		return store.ErrNotFound
	}
	m.UpdatedAt = store.Now()
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE medicines SET name=$3, type=$4, usage=$5, dosage=$6, stock=$7, time_to_take=$8,
			duration_days=$9, updated_at=$10
		WHERE id = $1 AND hospital_id = $2`,
		m.ID, hid, m.Name, m.Type, m.Usage, m.Dosage, m.Stock, m.TimeToTake, m.DurationDays, m.UpdatedAt)
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
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM medicines WHERE id = $1 AND hospital_id = $2`, id, hid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, 0, err
	}
	q := db.Conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM medicines WHERE hospital_id = $1`, hid).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, `SELECT `+medicineCols+` FROM medicines WHERE hospital_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, hid, db.Limit(limit), offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Medicine, error) {
		return scanMedicine(row)
	})
	return items, total, err
}

// AdjustStock guards the non-negative result in the UPDATE itself; when no
// row matches, a second lookup tells a missing medicine from a short one.
func (r *repoPG) AdjustStock(ctx context.Context, id string, delta int) (*Medicine, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	if !store.ValidUUID(id) {
		return nil, store.ErrNotFound
	}
	q := db.Conn(ctx, r.pool)
	m, err := scanMedicine(q.QueryRow(ctx, `
		UPDATE medicines SET stock = stock + $3, updated_at = $4
		WHERE id = $1 AND hospital_id = $2 AND stock + $3 >= 0
		RETURNING `+medicineCols, id, hid, delta, store.Now()))
	if !errors.Is(err, store.ErrNotFound) {
		return m, err
	}
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM medicines WHERE id = $1 AND hospital_id = $2)`,
		id, hid).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrInsufficientStock
	}
	return nil, store.ErrNotFound
}
