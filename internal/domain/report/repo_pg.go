package report

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

const reportCols = `id, hospital_id, patient_id, doctor, diagnosis, notes, treatments, medicines,
	ai_summary, ai_explanation, messages, created_at, updated_at`

func scanReport(row pgx.Row) (*Report, error) {
	var r Report
	err := row.Scan(&r.ID, &r.HospitalID, &r.PatientID, &r.Doctor, &r.Diagnosis, &r.Notes,
		&r.Treatments, &r.Medicines, &r.AISummary, &r.AIExplanation, &r.Messages,
		&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return &r, err
}

func collectReports(rows pgx.Rows) ([]*Report, error) {
	defer rows.Close()
	var items []*Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func messagesOrEmpty(m []Message) []Message {
	if m == nil {
		return []Message{}
	}
	return m
}

func (r *repoPG) Create(ctx context.Context, rep *Report) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	rep.ID = store.NewID()
	rep.HospitalID = hid
	rep.CreatedAt = store.Now()
	rep.UpdatedAt = rep.CreatedAt
	rep.Messages = messagesOrEmpty(rep.Messages)
	_, err = db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO reports (id, hospital_id, patient_id, doctor, diagnosis, notes, treatments, medicines,
			ai_summary, ai_explanation, messages, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		rep.ID, rep.HospitalID, rep.PatientID, rep.Doctor, rep.Diagnosis, rep.Notes,
		store.Strings(rep.Treatments), store.Strings(rep.Medicines),
		rep.AISummary, rep.AIExplanation, rep.Messages, rep.CreatedAt, rep.UpdatedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Report, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	if !store.ValidUUID(id) {
		return nil, store.ErrNotFound
	}
	return scanReport(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+reportCols+` FROM reports WHERE id = $1 AND hospital_id = $2`, id, hid))
}

func (r *repoPG) exec(ctx context.Context, sql string, id string, args ...any) error {
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

func (r *repoPG) Update(ctx context.Context, rep *Report) error {
	rep.UpdatedAt = store.Now()
	return r.exec(ctx, `
		UPDATE reports SET doctor=$3, diagnosis=$4, notes=$5, treatments=$6, medicines=$7,
			ai_summary=$8, ai_explanation=$9, updated_at=$10
		WHERE id = $1 AND hospital_id = $2`, rep.ID,
		rep.Doctor, rep.Diagnosis, rep.Notes, store.Strings(rep.Treatments), store.Strings(rep.Medicines),
		rep.AISummary, rep.AIExplanation, rep.UpdatedAt)
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM reports WHERE id = $1 AND hospital_id = $2`, id)
}

func (r *repoPG) List(ctx context.Context, patientID string, limit, offset int) ([]*Report, int, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, 0, err
	}
	q := db.Conn(ctx, r.pool)

	// $2 = '' disables the patient filter
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM reports
		WHERE hospital_id = $1 AND ($2 = '' OR patient_id = $2)`, hid, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, `SELECT `+reportCols+` FROM reports
		WHERE hospital_id = $1 AND ($2 = '' OR patient_id = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`, hid, patientID, db.Limit(limit), offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := collectReports(rows)
	return items, total, err
}

func (r *repoPG) AppendMessage(ctx context.Context, id string, m Message) error {
	return r.exec(ctx, `
		UPDATE reports SET messages = messages || $3::jsonb, updated_at = $4
		WHERE id = $1 AND hospital_id = $2`, id, []Message{m}, store.Now())
}

func readFlag(reader string) string {
	if reader == SenderDoctor {
		return "read_by_doctor"
	}
	return "read_by_patient"
}

func (r *repoPG) MarkRead(ctx context.Context, id, reader string) error {
	return r.exec(ctx, `
		UPDATE reports SET messages = COALESCE((
			SELECT jsonb_agg(m || jsonb_build_object($3::text, true) ORDER BY ord)
			FROM jsonb_array_elements(messages) WITH ORDINALITY AS t(m, ord)
		), '[]'::jsonb), updated_at = $4
		WHERE id = $1 AND hospital_id = $2`, id, readFlag(reader), store.Now())
}

func (r *repoPG) ListUnread(ctx context.Context) ([]*Report, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+reportCols+` FROM reports
		WHERE hospital_id = $1 AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(messages) m
			WHERE m->>'sender' = 'patient'
			  AND NOT COALESCE((m->>'read_by_doctor')::boolean, false))
		ORDER BY created_at DESC`, hid)
	if err != nil {
		return nil, err
	}
	return collectReports(rows)
}
