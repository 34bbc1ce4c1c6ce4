package scheduling

import "context"

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	PatientID *int64
	DoctorID  *int64
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id int64) error
	// FindBySlot returns the appointment occupying (doctor, date, time), or a
	// not-found error when the slot is free.
	FindBySlot(ctx context.Context, doctorID int64, date Date, t TimeOfDay) (*Appointment, error)
	List(ctx context.Context, filter AppointmentFilter, limit, offset int) ([]*Appointment, int, error)
}

type AvailabilityRepository interface {
	Create(ctx context.Context, w *AvailabilityWindow) error
	GetByID(ctx context.Context, id int64) (*AvailabilityWindow, error)
	Update(ctx context.Context, w *AvailabilityWindow) error
	Delete(ctx context.Context, id int64) error
	// WindowsFor returns all windows for a doctor; an unknown doctor simply
	// has none.
	WindowsFor(ctx context.Context, doctorID int64) ([]*AvailabilityWindow, error)
	List(ctx context.Context, limit, offset int) ([]*AvailabilityWindow, int, error)
}

// PatientDirectory, DoctorDirectory and StatusDirectory are the slices of the
// registry the scheduler needs. The registry service implements all three.

type PatientDirectory interface {
	PatientExists(ctx context.Context, id int64) (bool, error)
}

type DoctorDirectory interface {
	DoctorExists(ctx context.Context, id int64) (bool, error)
}

type StatusDirectory interface {
	StatusExists(ctx context.Context, id int64) (bool, error)
	// StatusIDByName resolves a status row by name; ok is false when the row
	// does not exist.
	StatusIDByName(ctx context.Context, name string) (id int64, ok bool, err error)
}
