package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/Brandonscs/HealPoint/internal/domain/audit"
	"github.com/Brandonscs/HealPoint/internal/platform/apperr"
)

// Service manages doctors, patients and the shared status reference data.
// The active and inactive status rows are resolved by their configured
// names so the code never depends on the numeric IDs seed data happens to
// produce.
type Service struct {
	statuses StatusRepository
	doctors  DoctorRepository
	patients PatientRepository
	users    UserDirectory
	recorder audit.Recorder

	active   string
	inactive string
}

func NewService(
	statuses StatusRepository,
	doctors DoctorRepository,
	patients PatientRepository,
	users UserDirectory,
	recorder audit.Recorder,
	activeStatus, inactiveStatus string,
) *Service {
	return &Service{
		statuses: statuses,
		doctors:  doctors,
		patients: patients,
		users:    users,
		recorder: recorder,
		active:   activeStatus,
		inactive: inactiveStatus,
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

// resolveConfigured looks up a status row by its configured name. The row is
// part of the seed data, so its absence is an internal fault rather than a
// client error.
func (s *Service) resolveConfigured(ctx context.Context, name string) (int64, error) {
	st, err := s.statuses.GetByName(ctx, name)
	if apperr.IsNotFound(err) {
		return 0, apperr.Internalf("status %q is not configured", name)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve status %q: %w", name, err)
	}
	return st.ID, nil
}

func (s *Service) checkUser(ctx context.Context, userID int64) error {
	if userID == 0 {
		return apperr.Validationf("user_id is required")
	}
	ok, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return apperr.Validationf("user %d does not exist", userID)
	}
	return nil
}

func (s *Service) checkStatus(ctx context.Context, statusID int64) error {
	if _, err := s.statuses.GetByID(ctx, statusID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Validationf("status %d does not exist", statusID)
		}
		return fmt.Errorf("check status: %w", err)
	}
	return nil
}

// -- Statuses --

func (s *Service) CreateStatus(ctx context.Context, st *Status, actorID *int64) (*Status, error) {
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" {
		return nil, apperr.Validationf("status name is required")
	}
	if err := s.statuses.Create(ctx, st); err != nil {
		return nil, err
	}
	s.record(ctx, "status", audit.ActionCreate, actorID, fmt.Sprintf("created status %q", st.Name))
	return st, nil
}

func (s *Service) GetStatus(ctx context.Context, id int64) (*Status, error) {
	return s.statuses.GetByID(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, st *Status, actorID *int64) (*Status, error) {
	if _, err := s.statuses.GetByID(ctx, st.ID); err != nil {
		return nil, err
	}
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" {
		return nil, apperr.Validationf("status name is required")
	}
	if err := s.statuses.Update(ctx, st); err != nil {
		return nil, err
	}
	s.record(ctx, "status", audit.ActionUpdate, actorID, fmt.Sprintf("updated status %d", st.ID))
	return st, nil
}

func (s *Service) DeleteStatus(ctx context.Context, id int64, actorID *int64) error {
	if _, err := s.statuses.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.statuses.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "status", audit.ActionDelete, actorID, fmt.Sprintf("deleted status %d", id))
	return nil
}

func (s *Service) ListStatuses(ctx context.Context, limit, offset int) ([]*Status, int, error) {
	return s.statuses.List(ctx, limit, offset)
}

// -- Doctors --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor, actorID *int64) (*Doctor, error) {
	d.Specialty = strings.TrimSpace(d.Specialty)
	if d.Specialty == "" {
		return nil, apperr.Validationf("specialty is required")
	}
	if err := s.checkUser(ctx, d.UserID); err != nil {
		return nil, err
	}
	if d.StatusID == 0 {
		// New doctors start active unless the caller says otherwise.
		id, err := s.resolveConfigured(ctx, s.active)
		if err != nil {
			return nil, err
		}
		d.StatusID = id
	} else if err := s.checkStatus(ctx, d.StatusID); err != nil {
		return nil, err
	}
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, err
	}
	s.record(ctx, "doctor", audit.ActionCreate, actorID, fmt.Sprintf("created doctor %d", d.ID))
	return d, nil
}

func (s *Service) GetDoctor(ctx context.Context, id int64) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor, actorID *int64) (*Doctor, error) {
	current, err := s.doctors.GetByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.Specialty = strings.TrimSpace(d.Specialty)
	if d.Specialty == "" {
		return nil, apperr.Validationf("specialty is required")
	}
	if d.UserID == 0 {
		d.UserID = current.UserID
	} else if err := s.checkUser(ctx, d.UserID); err != nil {
		return nil, err
	}
	if d.StatusID == 0 {
		d.StatusID = current.StatusID
	} else if err := s.checkStatus(ctx, d.StatusID); err != nil {
		return nil, err
	}
	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, err
	}
	s.record(ctx, "doctor", audit.ActionUpdate, actorID, fmt.Sprintf("updated doctor %d", d.ID))
	return d, nil
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}

func (s *Service) ActivateDoctor(ctx context.Context, id int64, actorID *int64) (*Doctor, error) {
	return s.setDoctorStatus(ctx, id, s.active, actorID)
}

// DeactivateDoctor is also the delete semantics for doctors. The row stays
// so historical appointments keep a valid reference.
func (s *Service) DeactivateDoctor(ctx context.Context, id int64, actorID *int64) (*Doctor, error) {
	return s.setDoctorStatus(ctx, id, s.inactive, actorID)
}

func (s *Service) setDoctorStatus(ctx context.Context, id int64, statusName string, actorID *int64) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	statusID, err := s.resolveConfigured(ctx, statusName)
	if err != nil {
		return nil, err
	}
	d.StatusID = statusID
	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, err
	}
	s.record(ctx, "doctor", audit.ActionUpdate, actorID,
		fmt.Sprintf("set doctor %d status to %q", id, statusName))
	return d, nil
}

// -- Patients --

func (s *Service) CreatePatient(ctx context.Context, p *Patient, actorID *int64) (*Patient, error) {
	p.EPS = strings.TrimSpace(p.EPS)
	if p.EPS == "" {
		return nil, apperr.Validationf("eps is required")
	}
	if err := s.checkUser(ctx, p.UserID); err != nil {
		return nil, err
	}
	if p.StatusID == 0 {
		id, err := s.resolveConfigured(ctx, s.active)
		if err != nil {
			return nil, err
		}
		p.StatusID = id
	} else if err := s.checkStatus(ctx, p.StatusID); err != nil {
		return nil, err
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	s.record(ctx, "patient", audit.ActionCreate, actorID, fmt.Sprintf("created patient %d", p.ID))
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient, actorID *int64) (*Patient, error) {
	current, err := s.patients.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.EPS = strings.TrimSpace(p.EPS)
	if p.EPS == "" {
		return nil, apperr.Validationf("eps is required")
	}
	if p.UserID == 0 {
		p.UserID = current.UserID
	} else if err := s.checkUser(ctx, p.UserID); err != nil {
		return nil, err
	}
	if p.StatusID == 0 {
		p.StatusID = current.StatusID
	} else if err := s.checkStatus(ctx, p.StatusID); err != nil {
		return nil, err
	}
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	s.record(ctx, "patient", audit.ActionUpdate, actorID, fmt.Sprintf("updated patient %d", p.ID))
	return p, nil
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) ActivatePatient(ctx context.Context, id int64, actorID *int64) (*Patient, error) {
	return s.setPatientStatus(ctx, id, s.active, actorID)
}

func (s *Service) DeactivatePatient(ctx context.Context, id int64, actorID *int64) (*Patient, error) {
	return s.setPatientStatus(ctx, id, s.inactive, actorID)
}

func (s *Service) setPatientStatus(ctx context.Context, id int64, statusName string, actorID *int64) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	statusID, err := s.resolveConfigured(ctx, statusName)
	if err != nil {
		return nil, err
	}
	p.StatusID = statusID
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	s.record(ctx, "patient", audit.ActionUpdate, actorID,
		fmt.Sprintf("set patient %d status to %q", id, statusName))
	return p, nil
}

// -- Directory lookups used by the scheduler --

func (s *Service) DoctorExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.doctors.GetByID(ctx, id)
	if apperr.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) PatientExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.patients.GetByID(ctx, id)
	if apperr.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) StatusExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.statuses.GetByID(ctx, id)
	if apperr.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) StatusIDByName(ctx context.Context, name string) (int64, bool, error) {
	st, err := s.statuses.GetByName(ctx, name)
	if apperr.IsNotFound(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return st.ID, true, nil
}
