package identity

import "time"

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Address   string     `json:"address,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Password  string     `json:"password,omitempty"`
	RoleID    int64      `json:"role_id"`
	StatusID  int64      `json:"status_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Sanitize strips the password before the user leaves the service layer.
func (u *User) Sanitize() *User {
	u.Password = ""
	return u
}
