package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/Brandonscs/HealPoint/internal/domain/audit"
	"github.com/Brandonscs/HealPoint/internal/platform/apperr"
)

// Service implements the booking engine: booking with ordered checks,
// rescheduling, cancellation and availability-window management.
type Service struct {
	appointments AppointmentRepository
	windows      AvailabilityRepository
	patients     PatientDirectory
	doctors      DoctorDirectory
	statuses     StatusDirectory
	recorder     audit.Recorder
	hours        BusinessHours
	cancelled    string

	now func() time.Time
}

func NewService(
	appointments AppointmentRepository,
	windows AvailabilityRepository,
	patients PatientDirectory,
	doctors DoctorDirectory,
	statuses StatusDirectory,
	recorder audit.Recorder,
	hours BusinessHours,
	cancelledStatus string,
) *Service {
	return &Service{
		appointments: appointments,
		windows:      windows,
		patients:     patients,
		doctors:      doctors,
		statuses:     statuses,
		recorder:     recorder,
		hours:        hours,
		cancelled:    cancelledStatus,
		now:          time.Now,
	}
}

func (s *Service) record(ctx context.Context, entity, action string, actorID *int64, description string) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, audit.Entry{
		Entity:      entity,
		Action:      action,
		ActorID:     actorID,
		Description: description,
	})
}

// Book creates an appointment. Checks run in a fixed order and the first
// failure wins: required fields, patient/doctor/status existence, direct slot
// conflict, date not in the past, business hours, time not already passed
// today, and finally a covering availability window.
func (s *Service) Book(ctx context.Context, a *Appointment) (*Appointment, error) {
	if a.PatientID == 0 || a.DoctorID == 0 || a.StatusID == 0 || a.Date.IsZero() {
		return nil, apperr.Validationf("patient_id, doctor_id, status_id, date and time are required")
	}
	if !a.Time.Valid() {
		return nil, apperr.Validationf("time must be a valid time of day")
	}

	if ok, err := s.patients.PatientExists(ctx, a.PatientID); err != nil {
		return nil, fmt.Errorf("check patient: %w", err)
	} else if !ok {
		return nil, apperr.NotFoundf("patient %d not found", a.PatientID)
	}
	if ok, err := s.doctors.DoctorExists(ctx, a.DoctorID); err != nil {
		return nil, fmt.Errorf("check doctor: %w", err)
	} else if !ok {
		return nil, apperr.NotFoundf("doctor %d not found", a.DoctorID)
	}
	if ok, err := s.statuses.StatusExists(ctx, a.StatusID); err != nil {
		return nil, fmt.Errorf("check status: %w", err)
	} else if !ok {
		return nil, apperr.NotFoundf("status %d not found", a.StatusID)
	}

	if _, err := s.appointments.FindBySlot(ctx, a.DoctorID, a.Date, a.Time); err == nil {
		return nil, apperr.Conflictf("doctor %d already has an appointment on %s at %s", a.DoctorID, a.Date, a.Time)
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("check slot: %w", err)
	}

	now := s.now()
	if !FutureOrToday(a.Date, now) {
		return nil, apperr.Validationf("date %s is in the past", a.Date)
	}
	if !WithinBusinessHours(a.Time, s.hours) {
		return nil, apperr.Validationf("time %s is outside business hours (%s to %s)", a.Time, s.hours.Open, s.hours.Close)
	}
	if PastForToday(a.Date, a.Time, now) {
		return nil, apperr.Validationf("time %s has already passed", a.Time)
	}

	covered, err := s.doctorAvailable(ctx, a.DoctorID, a.Date, a.Time)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if !covered {
		return nil, apperr.Conflictf("doctor %d is not available on %s at %s", a.DoctorID, a.Date, a.Time)
	}

	// The unique constraint on (doctor_id, date, start_time) backstops the
	// conflict check above against concurrent bookings.
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}

	s.record(ctx, "appointment", audit.ActionCreate, &a.PatientID, fmt.Sprintf("created appointment %d", a.ID))
	return a, nil
}

func (s *Service) doctorAvailable(ctx context.Context, doctorID int64, date Date, t TimeOfDay) (bool, error) {
	windows, err := s.windows.WindowsFor(ctx, doctorID)
	if err != nil {
		return false, err
	}
	for _, w := range windows {
		if w.Covers(date, t) {
			return true, nil
		}
	}
	return false, nil
}

// RescheduleRequest carries the target slot for an existing appointment.
// Omitted date, time or status keep the appointment's stored values, so a
// status-only update leaves the slot untouched.
type RescheduleRequest struct {
	Date     *Date      `json:"date"`
	Time     *TimeOfDay `json:"time"`
	StatusID int64      `json:"status_id"`
	ActorID  *int64     `json:"-"`
}

// Reschedule moves an appointment to a new slot. Unlike Book, only a direct
// collision with another appointment of the same doctor blocks the move:
// business hours, past dates and availability windows are not re-checked, so
// staff can relocate legacy bookings outside the current rules.
func (s *Service) Reschedule(ctx context.Context, id int64, req RescheduleRequest) (*Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	date := appt.Date
	if req.Date != nil && !req.Date.IsZero() {
		date = *req.Date
	}
	slot := appt.Time
	if req.Time != nil {
		if !req.Time.Valid() {
			return nil, apperr.Validationf("time must be a valid time of day")
		}
		slot = *req.Time
	}

	if !date.Equal(appt.Date) || slot != appt.Time {
		existing, err := s.appointments.FindBySlot(ctx, appt.DoctorID, date, slot)
		if err == nil && existing.ID != appt.ID {
			return nil, apperr.Conflictf("doctor %d already has an appointment on %s at %s", appt.DoctorID, date, slot)
		}
		if err != nil && !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("check slot: %w", err)
		}
	}

	if req.StatusID != 0 {
		ok, err := s.statuses.StatusExists(ctx, req.StatusID)
		if err != nil {
			return nil, fmt.Errorf("check status: %w", err)
		}
		if !ok {
			return nil, apperr.Validationf("status %d does not exist", req.StatusID)
		}
		appt.StatusID = req.StatusID
	}

	appt.Date = date
	appt.Time = slot
	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, err
	}

	s.record(ctx, "appointment", audit.ActionUpdate, req.ActorID,
		fmt.Sprintf("moved appointment %d to %s at %s", appt.ID, appt.Date, appt.Time))
	return appt, nil
}

// CancelResult reports how a cancellation was carried out.
type CancelResult struct {
	Appointment *Appointment `json:"appointment,omitempty"`
	Deleted     bool         `json:"deleted"`
	Message     string       `json:"message"`
}

// Cancel marks an appointment cancelled. The cancelled status is resolved by
// its configured name; when that status row does not exist the appointment is
// hard-deleted instead so a cancellation never silently fails.
func (s *Service) Cancel(ctx context.Context, id int64, actorID *int64) (*CancelResult, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cancelledID, ok, err := s.statuses.StatusIDByName(ctx, s.cancelled)
	if err != nil {
		return nil, fmt.Errorf("resolve cancelled status: %w", err)
	}

	var result *CancelResult
	if ok {
		appt.StatusID = cancelledID
		if err := s.appointments.Update(ctx, appt); err != nil {
			return nil, err
		}
		result = &CancelResult{
			Appointment: appt,
			Message:     fmt.Sprintf("appointment %d cancelled", appt.ID),
		}
	} else {
		if err := s.appointments.Delete(ctx, id); err != nil {
			return nil, err
		}
		result = &CancelResult{
			Deleted: true,
			Message: fmt.Sprintf("appointment %d deleted permanently", id),
		}
	}

	s.record(ctx, "appointment", audit.ActionDelete, actorID, result.Message)
	return result, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, filter AppointmentFilter, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.List(ctx, filter, limit, offset)
}

// AppointmentExists lets other domains verify an appointment reference.
func (s *Service) AppointmentExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.appointments.GetByID(ctx, id)
	if apperr.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// -- Availability windows --

func (s *Service) CreateWindow(ctx context.Context, w *AvailabilityWindow, actorID *int64) (*AvailabilityWindow, error) {
	if w.DoctorID == 0 {
		return nil, apperr.Validationf("doctor_id is required")
	}
	if ok, err := s.doctors.DoctorExists(ctx, w.DoctorID); err != nil {
		return nil, fmt.Errorf("check doctor: %w", err)
	} else if !ok {
		return nil, apperr.NotFoundf("doctor %d not found", w.DoctorID)
	}
	if w.Date.IsZero() {
		return nil, apperr.Validationf("date is required")
	}
	if !w.Start.Valid() || !w.End.Valid() {
		return nil, apperr.Validationf("start and end must be valid times of day")
	}
	if w.End < w.Start {
		return nil, apperr.Validationf("end %s is earlier than start %s", w.End, w.Start)
	}
	if err := s.windows.Create(ctx, w); err != nil {
		return nil, err
	}
	s.record(ctx, "availability_window", audit.ActionCreate, actorID,
		fmt.Sprintf("created availability window %d for doctor %d", w.ID, w.DoctorID))
	return w, nil
}

func (s *Service) UpdateWindow(ctx context.Context, w *AvailabilityWindow, actorID *int64) (*AvailabilityWindow, error) {
	existing, err := s.windows.GetByID(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	if w.Date.IsZero() {
		return nil, apperr.Validationf("date is required")
	}
	if w.End < w.Start {
		return nil, apperr.Validationf("end %s is earlier than start %s", w.End, w.Start)
	}
	existing.Date = w.Date
	existing.Start = w.Start
	existing.End = w.End
	if err := s.windows.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.record(ctx, "availability_window", audit.ActionUpdate, actorID,
		fmt.Sprintf("updated availability window %d", existing.ID))
	return existing, nil
}

func (s *Service) DeleteWindow(ctx context.Context, id int64, actorID *int64) error {
	if _, err := s.windows.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.windows.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "availability_window", audit.ActionDelete, actorID,
		fmt.Sprintf("deleted availability window %d", id))
	return nil
}

// WindowsFor returns a doctor's availability windows, possibly empty.
func (s *Service) WindowsFor(ctx context.Context, doctorID int64) ([]*AvailabilityWindow, error) {
	return s.windows.WindowsFor(ctx, doctorID)
}

func (s *Service) ListWindows(ctx context.Context, limit, offset int) ([]*AvailabilityWindow, int, error) {
	return s.windows.List(ctx, limit, offset)
}
