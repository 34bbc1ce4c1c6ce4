package audit

import "context"

// Filter narrows audit queries.
type Filter struct {
	Entity string
	Action string
}

type Repository interface {
	Insert(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id int64) (*Record, error)
	Search(ctx context.Context, filter Filter, limit, offset int) ([]*Record, int, error)
}
