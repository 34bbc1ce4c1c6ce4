package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Brandonscs/HealPoint/internal/platform/apperr"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const auditCols = `id, entity, action, occurred_at, actor_id, description`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Entity, &rec.Action, &rec.OccurredAt, &rec.ActorID, &rec.Description)
	return &rec, err
}

func (r *repoPG) Insert(ctx context.Context, rec *Record) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO audit_log (entity, action, occurred_at, actor_id, description)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		rec.Entity, rec.Action, rec.OccurredAt, rec.ActorID, rec.Description,
	).Scan(&rec.ID)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Record, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx, `SELECT `+auditCols+` FROM audit_log WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("audit record %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repoPG) Search(ctx context.Context, filter Filter, limit, offset int) ([]*Record, int, error) {
	query := `SELECT ` + auditCols + ` FROM audit_log WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM audit_log WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.Entity != "" {
		query += fmt.Sprintf(` AND entity = $%d`, idx)
		countQuery += fmt.Sprintf(` AND entity = $%d`, idx)
		args = append(args, filter.Entity)
		idx++
	}
	if filter.Action != "" {
		query += fmt.Sprintf(` AND action = $%d`, idx)
		countQuery += fmt.Sprintf(` AND action = $%d`, idx)
		args = append(args, filter.Action)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY occurred_at DESC, id DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}
