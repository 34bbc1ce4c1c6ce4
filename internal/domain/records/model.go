package records

import "time"

// MedicalRecord holds the clinical outcome of a single appointment. At most
// one record exists per appointment.
type MedicalRecord struct {
	ID            int64     `json:"id"`
	AppointmentID int64     `json:"appointment_id"`
	Observations  string    `json:"observations,omitempty"`
	Diagnosis     string    `json:"diagnosis,omitempty"`
	Treatment     string    `json:"treatment,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
