package records

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Brandonscs/HealPoint/internal/platform/apperr"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const recordCols = `id, appointment_id, observations, diagnosis, treatment, recorded_at, updated_at`

func scanRecord(row pgx.Row) (*MedicalRecord, error) {
	var r MedicalRecord
	var observations, diagnosis, treatment *string
	err := row.Scan(&r.ID, &r.AppointmentID, &observations, &diagnosis, &treatment, &r.RecordedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if observations != nil {
		r.Observations = *observations
	}
	if diagnosis != nil {
		r.Diagnosis = *diagnosis
	}
	if treatment != nil {
		r.Treatment = *treatment
	}
	return &r, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *repoPG) Create(ctx context.Context, rec *MedicalRecord) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO medical_record (appointment_id, observations, diagnosis, treatment)
		VALUES ($1,$2,$3,$4)
		RETURNING id, recorded_at, updated_at`,
		rec.AppointmentID, nullable(rec.Observations), nullable(rec.Diagnosis), nullable(rec.Treatment),
	).Scan(&rec.ID, &rec.RecordedAt, &rec.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflictf("appointment %d already has a medical record", rec.AppointmentID)
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*MedicalRecord, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx, `SELECT `+recordCols+` FROM medical_record WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("medical record %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID int64) (*MedicalRecord, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx,
		`SELECT `+recordCols+` FROM medical_record WHERE appointment_id = $1`, appointmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("appointment %d has no medical record", appointmentID)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repoPG) Update(ctx context.Context, rec *MedicalRecord) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE medical_record
		SET observations=$2, diagnosis=$3, treatment=$4, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, nullable(rec.Observations), nullable(rec.Diagnosis), nullable(rec.Treatment))
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM medical_record WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medical_record`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+recordCols+` FROM medical_record ORDER BY recorded_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*MedicalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, rec)
	}
	return result, total, rows.Err()
}
