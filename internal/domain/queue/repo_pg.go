package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/store"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const entryCols = `id, hospital_id, patient_id, token_number, queue_type, status, queue_date,
	check_in_time, start_time, end_time, status_updated_at, estimated_wait_time`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	var day time.Time
	err := row.Scan(&e.ID, &e.HospitalID, &e.PatientID, &e.TokenNumber, &e.QueueType, &e.Status, &day,
		&e.CheckInTime, &e.StartTime, &e.EndTime, &e.StatusUpdatedAt, &e.EstimatedWaitTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Date = day.Format(DateLayout)
	return &e, nil
}

func parseDay(date string) (time.Time, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, store.Invalid("invalid date %q", date)
	}
	return day, nil
}

func (r *repoPG) CheckIn(ctx context.Context, e *Entry) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	day, err := parseDay(e.Date)
	if err != nil {
		return err
	}
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		q := db.Conn(ctx, r.pool)
		var token int
		// the upsert row lock serialises check-ins to the same queue
		if err := q.QueryRow(ctx, `
			INSERT INTO queue_tokens (hospital_id, queue_date, queue_type, last_token)
			VALUES ($1, $2, $3, 1)
			ON CONFLICT (hospital_id, queue_date, queue_type)
			DO UPDATE SET last_token = queue_tokens.last_token + 1
			RETURNING last_token`, hid, day, e.QueueType).Scan(&token); err != nil {
			return fmt.Errorf("next token: %w", err)
		}
		e.ID = store.NewID()
		e.HospitalID = hid
		e.TokenNumber = token
		_, err := q.Exec(ctx, `INSERT INTO queue_entries (`+entryCols+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			e.ID, e.HospitalID, e.PatientID, e.TokenNumber, e.QueueType, e.Status, day,
			e.CheckInTime, e.StartTime, e.EndTime, e.StatusUpdatedAt, e.EstimatedWaitTime)
		return err
	})
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Entry, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	if !store.ValidUUID(id) {
		return nil, store.ErrNotFound
	}
	return scanEntry(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+entryCols+` FROM queue_entries WHERE id = $1 AND hospital_id = $2`, id, hid))
}

func (r *repoPG) ListDay(ctx context.Context, date string, statuses []string) ([]*Entry, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+entryCols+` FROM queue_entries
		WHERE hospital_id = $1 AND queue_date = $2 AND status = ANY($3)
		ORDER BY check_in_time, token_number`, hid, day, statuses)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Entry, error) {
		return scanEntry(row)
	})
}

func (r *repoPG) UpdateStatus(ctx context.Context, id, status string, at time.Time) (*Entry, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	if !store.ValidUUID(id) {
		return nil, store.ErrNotFound
	}
	return scanEntry(db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE queue_entries SET status = $3::text, status_updated_at = $4,
			start_time = CASE WHEN $3::text = 'in-progress' THEN $4 ELSE start_time END,
			end_time = CASE WHEN $3::text = 'completed' THEN $4 ELSE end_time END
		WHERE id = $1 AND hospital_id = $2
		RETURNING `+entryCols, id, hid, status, at))
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	if !store.ValidUUID(id) {
		return store.ErrNotFound
	}
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM queue_entries WHERE id = $1 AND hospital_id = $2`, id, hid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
