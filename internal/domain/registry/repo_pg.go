package registry

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

// =========== Status Repository ===========

type statusRepoPG struct{ pool *pgxpool.Pool }

func NewStatusRepoPG(pool *pgxpool.Pool) StatusRepository {
	return &statusRepoPG{pool: pool}
}

const statusCols = `id, name, description`

func scanStatus(row pgx.Row) (*Status, error) {
	var s Status
	if err := row.Scan(&s.ID, &s.Name, &s.Description); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *statusRepoPG) Create(ctx context.Context, s *Status) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO status (name, description)
		VALUES ($1,$2)
		RETURNING id`,
		s.Name, s.Description,
	).Scan(&s.ID)
	if isUniqueViolation(err) {
		return apperr.Conflictf("status %q already exists", s.Name)
	}
	return err
}

func (r *statusRepoPG) GetByID(ctx context.Context, id int64) (*Status, error) {
	s, err := scanStatus(r.pool.QueryRow(ctx, `SELECT `+statusCols+` FROM status WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("status %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *statusRepoPG) GetByName(ctx context.Context, name string) (*Status, error) {
	s, err := scanStatus(r.pool.QueryRow(ctx, `SELECT `+statusCols+` FROM status WHERE name = $1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("status %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *statusRepoPG) Update(ctx context.Context, s *Status) error {
	_, err := r.pool.Exec(ctx, `UPDATE status SET name=$2, description=$3 WHERE id = $1`,
		s.ID, s.Name, s.Description)
	if isUniqueViolation(err) {
		return apperr.Conflictf("status %q already exists", s.Name)
	}
	return err
}

func (r *statusRepoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM status WHERE id = $1`, id)
	return err
}

func (r *statusRepoPG) List(ctx context.Context, limit, offset int) ([]*Status, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM status`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+statusCols+` FROM status ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var statuses []*Status
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, 0, err
		}
		statuses = append(statuses, s)
	}
	return statuses, total, rows.Err()
}

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepoPG{pool: pool}
}

const doctorCols = `id, user_id, specialty, status_id, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.UserID, &d.Specialty, &d.StatusID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO doctor (user_id, specialty, status_id)
		VALUES ($1,$2,$3)
		RETURNING id, created_at, updated_at`,
		d.UserID, d.Specialty, d.StatusID,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	d, err := scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("doctor %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE doctor SET user_id=$2, specialty=$3, status_id=$4, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.UserID, d.Specialty, d.StatusID)
	return err
}

func (r *doctorRepoPG) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctor`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+doctorCols+` FROM doctor ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var doctors []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		doctors = append(doctors, d)
	}
	return doctors, total, rows.Err()
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `id, user_id, eps, status_id, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.UserID, &p.EPS, &p.StatusID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO patient (user_id, eps, status_id)
		VALUES ($1,$2,$3)
		RETURNING id, created_at, updated_at`,
		p.UserID, p.EPS, p.StatusID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("patient %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE patient SET user_id=$2, eps=$3, status_id=$4, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.UserID, p.EPS, p.StatusID)
	return err
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}
