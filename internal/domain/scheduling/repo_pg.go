package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Brandonscs/HealPoint/internal/platform/apperr"
)

// isUniqueViolation matches SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func pgTime(t TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t) * 60 * 1_000_000, Valid: true}
}

func fromPGTime(t pgtype.Time) TimeOfDay {
	return TimeOfDay(t.Microseconds / (60 * 1_000_000))
}

// =========== Appointment Repository ===========

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

const apptCols = `id, patient_id, doctor_id, date, start_time, status_id, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var date time.Time
	var t pgtype.Time
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &date, &t, &a.StatusID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Date = DateOf(date)
	a.Time = fromPGTime(t)
	return &a, nil
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointment (patient_id, doctor_id, date, start_time, status_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`,
		a.PatientID, a.DoctorID, a.Date.Time, pgTime(a.Time), a.StatusID,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflictf("doctor %d already has an appointment on %s at %s", a.DoctorID, a.Date, a.Time)
	}
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("appointment %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE appointment SET date=$2, start_time=$3, status_id=$4, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Date.Time, pgTime(a.Time), a.StatusID)
	if isUniqueViolation(err) {
		return apperr.Conflictf("doctor %d already has an appointment on %s at %s", a.DoctorID, a.Date, a.Time)
	}
	return err
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	return err
}

func (r *appointmentRepoPG) FindBySlot(ctx context.Context, doctorID int64, date Date, t TimeOfDay) (*Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE doctor_id = $1 AND date = $2 AND start_time = $3`,
		doctorID, date.Time, pgTime(t)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("no appointment for doctor %d on %s at %s", doctorID, date, t)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *appointmentRepoPG) List(ctx context.Context, filter AppointmentFilter, limit, offset int) ([]*Appointment, int, error) {
	query := `SELECT ` + apptCols + ` FROM appointment WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM appointment WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.PatientID != nil {
		query += fmt.Sprintf(` AND patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND patient_id = $%d`, idx)
		args = append(args, *filter.PatientID)
		idx++
	}
	if filter.DoctorID != nil {
		query += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		args = append(args, *filter.DoctorID)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY date, start_time LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

// =========== Availability Repository ===========

type availabilityRepoPG struct{ pool *pgxpool.Pool }

func NewAvailabilityRepoPG(pool *pgxpool.Pool) AvailabilityRepository {
	return &availabilityRepoPG{pool: pool}
}

const windowCols = `id, doctor_id, date, start_time, end_time, created_at`

func scanWindow(row pgx.Row) (*AvailabilityWindow, error) {
	var w AvailabilityWindow
	var date time.Time
	var start, end pgtype.Time
	err := row.Scan(&w.ID, &w.DoctorID, &date, &start, &end, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	w.Date = DateOf(date)
	w.Start = fromPGTime(start)
	w.End = fromPGTime(end)
	return &w, nil
}

func (r *availabilityRepoPG) Create(ctx context.Context, w *AvailabilityWindow) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO availability_window (doctor_id, date, start_time, end_time)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		w.DoctorID, w.Date.Time, pgTime(w.Start), pgTime(w.End),
	).Scan(&w.ID, &w.CreatedAt)
}

func (r *availabilityRepoPG) GetByID(ctx context.Context, id int64) (*AvailabilityWindow, error) {
	w, err := scanWindow(r.pool.QueryRow(ctx, `SELECT `+windowCols+` FROM availability_window WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("availability window %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *availabilityRepoPG) Update(ctx context.Context, w *AvailabilityWindow) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE availability_window SET date=$2, start_time=$3, end_time=$4
		WHERE id = $1`,
		w.ID, w.Date.Time, pgTime(w.Start), pgTime(w.End))
	return err
}

func (r *availabilityRepoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM availability_window WHERE id = $1`, id)
	return err
}

func (r *availabilityRepoPG) WindowsFor(ctx context.Context, doctorID int64) ([]*AvailabilityWindow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+windowCols+` FROM availability_window WHERE doctor_id = $1 ORDER BY date, start_time`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*AvailabilityWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

func (r *availabilityRepoPG) List(ctx context.Context, limit, offset int) ([]*AvailabilityWindow, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM availability_window`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+windowCols+` FROM availability_window ORDER BY date, start_time LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*AvailabilityWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, w)
	}
	return items, total, rows.Err()
}
