package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Brandonscs/HealPoint/internal/platform/apperr"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// =========== Role Repository ===========

type roleRepoPG struct{ pool *pgxpool.Pool }

func NewRoleRepoPG(pool *pgxpool.Pool) RoleRepository {
	return &roleRepoPG{pool: pool}
}

func scanRole(row pgx.Row) (*Role, error) {
	var r Role
	if err := row.Scan(&r.ID, &r.Name); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *roleRepoPG) Create(ctx context.Context, role *Role) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO role (name) VALUES ($1) RETURNING id`, role.Name).Scan(&role.ID)
	if isUniqueViolation(err) {
		return apperr.Conflictf("role %q already exists", role.Name)
	}
	return err
}

func (r *roleRepoPG) GetByID(ctx context.Context, id int64) (*Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx, `SELECT id, name FROM role WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("role %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepoPG) Update(ctx context.Context, role *Role) error {
	_, err := r.pool.Exec(ctx, `UPDATE role SET name=$2 WHERE id = $1`, role.ID, role.Name)
	if isUniqueViolation(err) {
		return apperr.Conflictf("role %q already exists", role.Name)
	}
	return err
}

func (r *roleRepoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM role WHERE id = $1`, id)
	return err
}

func (r *roleRepoPG) List(ctx context.Context, limit, offset int) ([]*Role, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM role`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, name FROM role ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var roles []*Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, 0, err
		}
		roles = append(roles, role)
	}
	return roles, total, rows.Err()
}

// =========== User Repository ===========

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

const userCols = `id, first_name, last_name, email, address, phone, birth_date, password, role_id, status_id, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var address, phone *string
	var birth *time.Time
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &address, &phone,
		&birth, &u.Password, &u.RoleID, &u.StatusID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if address != nil {
		u.Address = *address
	}
	if phone != nil {
		u.Phone = *phone
	}
	u.BirthDate = birth
	return &u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO app_user (first_name, last_name, email, address, phone, birth_date, password, role_id, status_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`,
		u.FirstName, u.LastName, u.Email, nullable(u.Address), nullable(u.Phone),
		u.BirthDate, u.Password, u.RoleID, u.StatusID,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Validationf("email %q is already registered", u.Email)
	}
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM app_user WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("user %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM app_user WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("user with email %q not found", email)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepoPG) Update(ctx context.Context, u *User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE app_user
		SET first_name=$2, last_name=$3, email=$4, address=$5, phone=$6,
		    birth_date=$7, password=$8, role_id=$9, status_id=$10, updated_at=NOW()
		WHERE id = $1`,
		u.ID, u.FirstName, u.LastName, u.Email, nullable(u.Address), nullable(u.Phone),
		u.BirthDate, u.Password, u.RoleID, u.StatusID)
	if isUniqueViolation(err) {
		return apperr.Validationf("email %q is already registered", u.Email)
	}
	return err
}

func (r *userRepoPG) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM app_user`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+userCols+` FROM app_user ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}
