package patient

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

const patientCols = `id, hospital_id, name, age, gender, phone, email, condition,
	symptoms, allergies, current_medications, medical_history, status, priority,
	last_visit, treatment_plan, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.HospitalID, &p.Name, &p.Age, &p.Gender, &p.Phone, &p.Email, &p.Condition,
		&p.Symptoms, &p.Allergies, &p.CurrentMedications, &p.MedicalHistory, &p.Status, &p.Priority,
		&p.LastVisit, &p.TreatmentPlan, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	p.ID = store.NewID()
	p.HospitalID = hid
	p.CreatedAt = store.Now()
	p.UpdatedAt = p.CreatedAt
	_, err = db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO patients (id, hospital_id, name, age, gender, phone, email, condition,
			symptoms, allergies, current_medications, medical_history, status, priority,
			last_visit, treatment_plan, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		p.ID, p.HospitalID, p.Name, p.Age, p.Gender, p.Phone, p.Email, p.Condition,
		store.Strings(p.Symptoms), store.Strings(p.Allergies), store.Strings(p.CurrentMedications),
		p.MedicalHistory, p.Status, p.Priority, p.LastVisit, p.TreatmentPlan, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, err
	}
	if !store.ValidUUID(id) {
		return nil, store.ErrNotFound
	}
	return scanPatient(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1 AND hospital_id = $2`, id, hid))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return err
	}
	if !store.ValidUUID(p.ID) {
		return store.ErrNotFound
	}
	p.UpdatedAt = store.Now()
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE patients SET name=$3, age=$4, gender=$5, phone=$6, email=$7, condition=$8,
			symptoms=$9, allergies=$10, current_medications=$11, medical_history=$12,
			status=$13, priority=$14, last_visit=$15, treatment_plan=$16, updated_at=$17
		WHERE id = $1 AND hospital_id = $2`,
		p.ID, hid, p.Name, p.Age, p.Gender, p.Phone, p.Email, p.Condition,
		store.Strings(p.Symptoms), store.Strings(p.Allergies), store.Strings(p.CurrentMedications),
		p.MedicalHistory, p.Status, p.Priority, p.LastVisit, p.TreatmentPlan, p.UpdatedAt)
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
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM patients WHERE id = $1 AND hospital_id = $2`, id, hid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	hid, err := db.RequireHospital(ctx)
	if err != nil {
		return nil, 0, err
	}
	q := db.Conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM patients WHERE hospital_id = $1`, hid).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.Query(ctx, `SELECT `+patientCols+` FROM patients WHERE hospital_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, hid, db.Limit(limit), offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
