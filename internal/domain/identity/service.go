package identity

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Brandonscs/HealPoint/internal/domain/audit"
	"github.com/Brandonscs/HealPoint/internal/platform/apperr"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+$`)

// Service manages users and roles. Status reference data lives in the
// registry domain and is consulted through StatusDirectory.
type Service struct {
	users    UserRepository
	roles    RoleRepository
	statuses StatusDirectory
	recorder audit.Recorder

	active   string
	inactive string
}

func NewService(
	users UserRepository,
	roles RoleRepository,
	statuses StatusDirectory,
	recorder audit.Recorder,
	activeStatus, inactiveStatus string,
) *Service {
	return &Service{
		users:    users,
		roles:    roles,
		statuses: statuses,
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

// SetStatusDirectory wires the registry lookup after construction. The
// registry service itself depends on user lookups, so one side of the pair
// is attached late in main.
func (s *Service) SetStatusDirectory(statuses StatusDirectory) {
	s.statuses = statuses
}

// -- Roles --

func (s *Service) CreateRole(ctx context.Context, r *Role, actorID *int64) (*Role, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return nil, apperr.Validationf("role name is required")
	}
	if err := s.roles.Create(ctx, r); err != nil {
		return nil, err
	}
	s.record(ctx, "role", audit.ActionCreate, actorID, fmt.Sprintf("created role %q", r.Name))
	return r, nil
}

func (s *Service) GetRole(ctx context.Context, id int64) (*Role, error) {
	return s.roles.GetByID(ctx, id)
}

func (s *Service) UpdateRole(ctx context.Context, r *Role, actorID *int64) (*Role, error) {
	if _, err := s.roles.GetByID(ctx, r.ID); err != nil {
		return nil, err
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return nil, apperr.Validationf("role name is required")
	}
	if err := s.roles.Update(ctx, r); err != nil {
		return nil, err
	}
	s.record(ctx, "role", audit.ActionUpdate, actorID, fmt.Sprintf("updated role %d", r.ID))
	return r, nil
}

func (s *Service) DeleteRole(ctx context.Context, id int64, actorID *int64) error {
	if _, err := s.roles.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "role", audit.ActionDelete, actorID, fmt.Sprintf("deleted role %d", id))
	return nil
}

func (s *Service) ListRoles(ctx context.Context, limit, offset int) ([]*Role, int, error) {
	return s.roles.List(ctx, limit, offset)
}

// -- Users --

func (s *Service) validateUser(ctx context.Context, u *User) error {
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	u.Email = strings.TrimSpace(u.Email)

	if u.FirstName == "" {
		return apperr.Validationf("first name is required")
	}
	if u.LastName == "" {
		return apperr.Validationf("last name is required")
	}
	if !emailPattern.MatchString(u.Email) {
		return apperr.Validationf("email %q is not a valid address", u.Email)
	}

	if _, err := s.roles.GetByID(ctx, u.RoleID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Validationf("role %d does not exist", u.RoleID)
		}
		return fmt.Errorf("check role: %w", err)
	}

	ok, err := s.statuses.StatusExists(ctx, u.StatusID)
	if err != nil {
		return fmt.Errorf("check status: %w", err)
	}
	if !ok {
		return apperr.Validationf("status %d does not exist", u.StatusID)
	}
	return nil
}

// checkEmailFree guards against duplicate addresses; the unique constraint on
// app_user.email backstops the race.
func (s *Service) checkEmailFree(ctx context.Context, email string, excludeID int64) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if apperr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if existing.ID != excludeID {
		return apperr.Validationf("email %q is already registered", email)
	}
	return nil
}

func (s *Service) CreateUser(ctx context.Context, u *User, actorID *int64) (*User, error) {
	if err := s.validateUser(ctx, u); err != nil {
		return nil, err
	}
	if u.Password == "" {
		return nil, apperr.Validationf("password is required")
	}
	if err := s.checkEmailFree(ctx, u.Email, 0); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.record(ctx, "user", audit.ActionCreate, actorID, fmt.Sprintf("created user %d", u.ID))
	return u.Sanitize(), nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Sanitize(), nil
}

func (s *Service) UpdateUser(ctx context.Context, u *User, actorID *int64) (*User, error) {
	current, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validateUser(ctx, u); err != nil {
		return nil, err
	}
	if err := s.checkEmailFree(ctx, u.Email, u.ID); err != nil {
		return nil, err
	}
	if u.Password == "" {
		u.Password = current.Password
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.record(ctx, "user", audit.ActionUpdate, actorID, fmt.Sprintf("updated user %d", u.ID))
	return u.Sanitize(), nil
}

func (s *Service) ActivateUser(ctx context.Context, id int64, actorID *int64) (*User, error) {
	return s.setUserStatus(ctx, id, s.active, actorID)
}

// DeactivateUser is also the delete semantics for users. The row stays so
// audit attribution and doctor/patient links keep a valid reference.
func (s *Service) DeactivateUser(ctx context.Context, id int64, actorID *int64) (*User, error) {
	return s.setUserStatus(ctx, id, s.inactive, actorID)
}

func (s *Service) setUserStatus(ctx context.Context, id int64, statusName string, actorID *int64) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	statusID, ok, err := s.statuses.StatusIDByName(ctx, statusName)
	if err != nil {
		return nil, fmt.Errorf("resolve status %q: %w", statusName, err)
	}
	if !ok {
		return nil, apperr.Internalf("status %q is not configured", statusName)
	}
	u.StatusID = statusID
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.record(ctx, "user", audit.ActionUpdate, actorID,
		fmt.Sprintf("set user %d status to %q", id, statusName))
	return u.Sanitize(), nil
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, u := range users {
		u.Sanitize()
	}
	return users, total, nil
}

// UserExists feeds the registry's user link checks and the audit recorder's
// actor resolution.
func (s *Service) UserExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.users.GetByID(ctx, id)
	if apperr.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
