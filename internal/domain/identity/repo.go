package identity

import "context"

type RoleRepository interface {
	Create(ctx context.Context, r *Role) error
	GetByID(ctx context.Context, id int64) (*Role, error)
	Update(ctx context.Context, r *Role) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Role, int, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetByEmail returns a not-found error when no user carries the address.
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
}

// StatusDirectory is the slice of the registry domain the user lifecycle
// needs: reference checks plus by-name resolution for activate/deactivate.
type StatusDirectory interface {
	StatusExists(ctx context.Context, id int64) (bool, error)
	StatusIDByName(ctx context.Context, name string) (int64, bool, error)
}
