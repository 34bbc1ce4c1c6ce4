package records

import "context"

type Repository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	GetByID(ctx context.Context, id int64) (*MedicalRecord, error)
	// GetByAppointment returns a not-found error when the appointment has no
	// record yet.
	GetByAppointment(ctx context.Context, appointmentID int64) (*MedicalRecord, error)
	Update(ctx context.Context, r *MedicalRecord) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error)
}

// AppointmentDirectory is the slice of the scheduling domain record creation
// depends on.
type AppointmentDirectory interface {
	AppointmentExists(ctx context.Context, id int64) (bool, error)
}
