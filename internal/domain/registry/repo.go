package registry

import "context"

type StatusRepository interface {
	Create(ctx context.Context, s *Status) error
	GetByID(ctx context.Context, id int64) (*Status, error)
	// GetByName returns a not-found error when no status carries the name.
	GetByName(ctx context.Context, name string) (*Status, error)
	Update(ctx context.Context, s *Status) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Status, int, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	List(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
}

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}

// UserDirectory is the slice of the identity domain the registry needs when
// linking doctors and patients to users.
type UserDirectory interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}
