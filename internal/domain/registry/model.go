package registry

import "time"

// Status is reference data shared by doctors, patients and appointments.
// Rows are resolved by name, never by hard-coded numeric ID.
type Status struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Doctor struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Specialty string    `json:"specialty"`
	StatusID  int64     `json:"status_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patient carries the insurer (EPS) the patient is affiliated with.
type Patient struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EPS       string    `json:"eps"`
	StatusID  int64     `json:"status_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
