package records

import (
	"context"
	"fmt"

	"github.com/Brandonscs/HealPoint/internal/domain/audit"
	"github.com/Brandonscs/HealPoint/internal/platform/apperr"
)

type Service struct {
	records      Repository
	appointments AppointmentDirectory
	recorder     audit.Recorder
}

func NewService(records Repository, appointments AppointmentDirectory, recorder audit.Recorder) *Service {
	return &Service{records: records, appointments: appointments, recorder: recorder}
}

func (s *Service) record(ctx context.Context, action string, actorID *int64, description string) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, audit.Entry{
		Entity:      "medical_record",
		Action:      action,
		ActorID:     actorID,
		Description: description,
	})
}

func (s *Service) Create(ctx context.Context, rec *MedicalRecord, actorID *int64) (*MedicalRecord, error) {
	if rec.AppointmentID == 0 {
		return nil, apperr.Validationf("appointment_id is required")
	}
	ok, err := s.appointments.AppointmentExists(ctx, rec.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("check appointment: %w", err)
	}
	if !ok {
		return nil, apperr.NotFoundf("appointment %d not found", rec.AppointmentID)
	}

	// Pre-check for readability; the unique constraint on appointment_id
	// closes the race.
	if _, err := s.records.GetByAppointment(ctx, rec.AppointmentID); err == nil {
		return nil, apperr.Conflictf("appointment %d already has a medical record", rec.AppointmentID)
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("check existing record: %w", err)
	}

	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.record(ctx, audit.ActionCreate, actorID,
		fmt.Sprintf("created medical record %d for appointment %d", rec.ID, rec.AppointmentID))
	return rec, nil
}

// UpdateRequest carries a partial update. Nil fields keep their stored value.
type UpdateRequest struct {
	Observations *string `json:"observations"`
	Diagnosis    *string `json:"diagnosis"`
	Treatment    *string `json:"treatment"`
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest, actorID *int64) (*MedicalRecord, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Observations != nil {
		rec.Observations = *req.Observations
	}
	if req.Diagnosis != nil {
		rec.Diagnosis = *req.Diagnosis
	}
	if req.Treatment != nil {
		rec.Treatment = *req.Treatment
	}

	if err := s.records.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.record(ctx, audit.ActionUpdate, actorID, fmt.Sprintf("updated medical record %d", rec.ID))
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id int64, actorID *int64) error {
	if _, err := s.records.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.records.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, audit.ActionDelete, actorID, fmt.Sprintf("deleted medical record %d", id))
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*MedicalRecord, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID int64) (*MedicalRecord, error) {
	return s.records.GetByAppointment(ctx, appointmentID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.records.List(ctx, limit, offset)
}
