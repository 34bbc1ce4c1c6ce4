package scheduling

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Brandonscs/HealPoint/internal/domain/audit"
	"github.com/Brandonscs/HealPoint/internal/platform/apperr"
)

// -- Mock repositories --

type mockApptRepo struct {
	appts  map[int64]*Appointment
	nextID int64
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{appts: make(map[int64]*Appointment), nextID: 1}
}

func (m *mockApptRepo) slotTaken(doctorID int64, date Date, t TimeOfDay, excludeID int64) bool {
	for _, a := range m.appts {
		if a.ID != excludeID && a.DoctorID == doctorID && a.Date.Equal(date) && a.Time == t {
			return true
		}
	}
	return false
}

func (m *mockApptRepo) Create(_ context.Context, a *Appointment) error {
	// Mirrors the unique constraint on (doctor_id, date, start_time).
	if m.slotTaken(a.DoctorID, a.Date, a.Time, 0) {
		return apperr.Conflictf("doctor %d already has an appointment on %s at %s", a.DoctorID, a.Date, a.Time)
	}
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockApptRepo) GetByID(_ context.Context, id int64) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, apperr.NotFoundf("appointment %d not found", id)
	}
	dup := *a
	return &dup, nil
}

func (m *mockApptRepo) Update(_ context.Context, a *Appointment) error {
	if m.slotTaken(a.DoctorID, a.Date, a.Time, a.ID) {
		return apperr.Conflictf("doctor %d already has an appointment on %s at %s", a.DoctorID, a.Date, a.Time)
	}
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockApptRepo) Delete(_ context.Context, id int64) error {
	delete(m.appts, id)
	return nil
}

func (m *mockApptRepo) FindBySlot(_ context.Context, doctorID int64, date Date, t TimeOfDay) (*Appointment, error) {
	for _, a := range m.appts {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Time == t {
			dup := *a
			return &dup, nil
		}
	}
	return nil, apperr.NotFoundf("no appointment for doctor %d on %s at %s", doctorID, date, t)
}

func (m *mockApptRepo) List(_ context.Context, filter AppointmentFilter, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		result = append(result, a)
	}
	return result, len(result), nil
}

type mockWindowRepo struct {
	windows map[int64]*AvailabilityWindow
	nextID  int64
}

func newMockWindowRepo() *mockWindowRepo {
	return &mockWindowRepo{windows: make(map[int64]*AvailabilityWindow), nextID: 1}
}

func (m *mockWindowRepo) Create(_ context.Context, w *AvailabilityWindow) error {
	w.ID = m.nextID
	m.nextID++
	w.CreatedAt = time.Now()
	m.windows[w.ID] = w
	return nil
}

func (m *mockWindowRepo) GetByID(_ context.Context, id int64) (*AvailabilityWindow, error) {
	w, ok := m.windows[id]
	if !ok {
		return nil, apperr.NotFoundf("availability window %d not found", id)
	}
	return w, nil
}

func (m *mockWindowRepo) Update(_ context.Context, w *AvailabilityWindow) error {
	m.windows[w.ID] = w
	return nil
}

func (m *mockWindowRepo) Delete(_ context.Context, id int64) error {
	delete(m.windows, id)
	return nil
}

func (m *mockWindowRepo) WindowsFor(_ context.Context, doctorID int64) ([]*AvailabilityWindow, error) {
	var result []*AvailabilityWindow
	for _, w := range m.windows {
		if w.DoctorID == doctorID {
			result = append(result, w)
		}
	}
	return result, nil
}

func (m *mockWindowRepo) List(_ context.Context, limit, offset int) ([]*AvailabilityWindow, int, error) {
	var result []*AvailabilityWindow
	for _, w := range m.windows {
		result = append(result, w)
	}
	return result, len(result), nil
}

// mockDirectory provides the registry lookups the scheduler depends on.
type mockDirectory struct {
	patients map[int64]bool
	doctors  map[int64]bool
	statuses map[int64]string
}

func (m *mockDirectory) PatientExists(_ context.Context, id int64) (bool, error) {
	return m.patients[id], nil
}

func (m *mockDirectory) DoctorExists(_ context.Context, id int64) (bool, error) {
	return m.doctors[id], nil
}

func (m *mockDirectory) StatusExists(_ context.Context, id int64) (bool, error) {
	_, ok := m.statuses[id]
	return ok, nil
}

func (m *mockDirectory) StatusIDByName(_ context.Context, name string) (int64, bool, error) {
	for id, n := range m.statuses {
		if n == name {
			return id, true, nil
		}
	}
	return 0, false, nil
}

type captureRecorder struct {
	entries []audit.Entry
}

func (r *captureRecorder) Record(_ context.Context, e audit.Entry) {
	r.entries = append(r.entries, e)
}

// -- Fixtures --

const (
	statusScheduled = int64(10)
	statusCancelled = int64(20)
)

type testEnv struct {
	svc      *Service
	appts    *mockApptRepo
	windows  *mockWindowRepo
	dir      *mockDirectory
	recorder *captureRecorder
}

// newTestService wires a service over mocks with the clock pinned to
// 2026-03-10 09:30 and business hours 06:00 to 20:00.
func newTestService(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		appts:   newMockApptRepo(),
		windows: newMockWindowRepo(),
		dir: &mockDirectory{
			patients: map[int64]bool{1: true},
			doctors:  map[int64]bool{1: true},
			statuses: map[int64]string{statusScheduled: "Scheduled", statusCancelled: "Cancelled"},
		},
		recorder: &captureRecorder{},
	}
	env.svc = NewService(
		env.appts, env.windows, env.dir, env.dir, env.dir, env.recorder,
		BusinessHours{Open: NewTimeOfDay(6, 0), Close: NewTimeOfDay(20, 0)},
		"Cancelled",
	)
	env.svc.now = func() time.Time { return testNow }
	return env
}

func (env *testEnv) addWindow(t *testing.T, doctorID int64, date string, start, end TimeOfDay) {
	t.Helper()
	err := env.windows.Create(context.Background(), &AvailabilityWindow{
		DoctorID: doctorID,
		Date:     mustDate(t, date),
		Start:    start,
		End:      end,
	})
	if err != nil {
		t.Fatalf("add window: %v", err)
	}
}

func datePtr(d Date) *Date           { return &d }
func timePtr(t TimeOfDay) *TimeOfDay { return &t }

func validBooking(t *testing.T) *Appointment {
	t.Helper()
	return &Appointment{
		PatientID: 1,
		DoctorID:  1,
		StatusID:  statusScheduled,
		Date:      mustDate(t, "2026-03-11"),
		Time:      NewTimeOfDay(10, 0),
	}
}

// -- Book --

func TestBook_Success(t *testing.T) {
	env := newTestService(t)
	env.addWindow(t, 1, "2026-03-11", NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))

	booked, err := env.svc.Book(context.Background(), validBooking(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booked.ID == 0 {
		t.Error("expected assigned ID")
	}

	if len(env.recorder.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(env.recorder.entries))
	}
	entry := env.recorder.entries[0]
	if entry.Entity != "appointment" || entry.Action != audit.ActionCreate {
		t.Errorf("unexpected audit entry: %+v", entry)
	}
	if entry.ActorID == nil || *entry.ActorID != 1 {
		t.Errorf("expected booking attributed to patient 1, got %v", entry.ActorID)
	}
}

func TestBook_RejectionOrdering(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(t *testing.T, env *testEnv)
		mutate   func(t *testing.T, a *Appointment)
		wantKind apperr.Kind
		wantMsg  string
	}{
		{
			name:     "missing fields rejected before anything else",
			mutate:   func(t *testing.T, a *Appointment) { a.PatientID = 0; a.DoctorID = 99 },
			wantKind: apperr.KindValidation,
			wantMsg:  "required",
		},
		{
			name: "unknown patient rejected before slot validation",
			mutate: func(t *testing.T, a *Appointment) {
				a.PatientID = 99
				a.Time = NewTimeOfDay(23, 0) // would also fail business hours
			},
			wantKind: apperr.KindNotFound,
			wantMsg:  "patient 99",
		},
		{
			name:     "unknown doctor",
			mutate:   func(t *testing.T, a *Appointment) { a.DoctorID = 99 },
			wantKind: apperr.KindNotFound,
			wantMsg:  "doctor 99",
		},
		{
			name:     "unknown status",
			mutate:   func(t *testing.T, a *Appointment) { a.StatusID = 99 },
			wantKind: apperr.KindNotFound,
			wantMsg:  "status 99",
		},
		{
			name: "slot conflict rejected before date validation",
			prepare: func(t *testing.T, env *testEnv) {
				// Occupy a slot in the past; the conflict must win over the
				// past-date rejection.
				env.appts.appts[50] = &Appointment{
					ID: 50, PatientID: 1, DoctorID: 1, StatusID: statusScheduled,
					Date: mustDate(t, "2026-03-01"), Time: NewTimeOfDay(10, 0),
				}
			},
			mutate: func(t *testing.T, a *Appointment) {
				a.Date = mustDate(t, "2026-03-01")
			},
			wantKind: apperr.KindConflict,
			wantMsg:  "already has an appointment",
		},
		{
			name:     "past date",
			mutate:   func(t *testing.T, a *Appointment) { a.Date = mustDate(t, "2026-03-09") },
			wantKind: apperr.KindValidation,
			wantMsg:  "in the past",
		},
		{
			name:     "before opening",
			mutate:   func(t *testing.T, a *Appointment) { a.Time = NewTimeOfDay(5, 59) },
			wantKind: apperr.KindValidation,
			wantMsg:  "outside business hours",
		},
		{
			name:     "after closing",
			mutate:   func(t *testing.T, a *Appointment) { a.Time = NewTimeOfDay(20, 1) },
			wantKind: apperr.KindValidation,
			wantMsg:  "outside business hours",
		},
		{
			name: "time already passed today",
			prepare: func(t *testing.T, env *testEnv) {
				env.addWindow(t, 1, "2026-03-10", NewTimeOfDay(6, 0), NewTimeOfDay(20, 0))
			},
			mutate: func(t *testing.T, a *Appointment) {
				a.Date = mustDate(t, "2026-03-10") // today; now is 09:30
				a.Time = NewTimeOfDay(8, 0)
			},
			wantKind: apperr.KindValidation,
			wantMsg:  "already passed",
		},
		{
			name: "no covering availability window",
			mutate: func(t *testing.T, a *Appointment) {
				a.Time = NewTimeOfDay(13, 0) // outside the 08:00-12:00 window
			},
			wantKind: apperr.KindConflict,
			wantMsg:  "not available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestService(t)
			env.addWindow(t, 1, "2026-03-11", NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
			if tt.prepare != nil {
				tt.prepare(t, env)
			}

			a := validBooking(t)
			tt.mutate(t, a)

			_, err := env.svc.Book(context.Background(), a)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperr.KindOf(err); got != tt.wantKind {
				t.Errorf("kind = %v, want %v (err: %v)", got, tt.wantKind, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
			if len(env.recorder.entries) != 0 {
				t.Error("rejected booking must not produce an audit entry")
			}
		})
	}
}

func TestBook_BusinessHourBoundsAreBookable(t *testing.T) {
	env := newTestService(t)
	env.addWindow(t, 1, "2026-03-11", NewTimeOfDay(6, 0), NewTimeOfDay(20, 0))

	for _, tod := range []TimeOfDay{NewTimeOfDay(6, 0), NewTimeOfDay(20, 0)} {
		a := validBooking(t)
		a.Time = tod
		if _, err := env.svc.Book(context.Background(), a); err != nil {
			t.Errorf("booking at %s should succeed, got %v", tod, err)
		}
	}
}

func TestBook_WindowBoundsAreBookable(t *testing.T) {
	env := newTestService(t)
	env.addWindow(t, 1, "2026-03-11", NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))

	// Both window ends admit a booking; one minute outside either end is
	// rejected as unavailable.
	for _, tod := range []TimeOfDay{NewTimeOfDay(8, 0), NewTimeOfDay(12, 0)} {
		a := validBooking(t)
		a.Time = tod
		if _, err := env.svc.Book(context.Background(), a); err != nil {
			t.Errorf("booking at %s should succeed, got %v", tod, err)
		}
	}

	for _, tod := range []TimeOfDay{NewTimeOfDay(7, 59), NewTimeOfDay(12, 1)} {
		a := validBooking(t)
		a.Time = tod
		_, err := env.svc.Book(context.Background(), a)
		if !apperr.IsConflict(err) {
			t.Errorf("booking at %s should conflict, got %v", tod, err)
		}
	}
}

func TestBook_DuplicateSlotConflicts(t *testing.T) {
	env := newTestService(t)
	env.addWindow(t, 1, "2026-03-11", NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))

	if _, err := env.svc.Book(context.Background(), validBooking(t)); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := env.svc.Book(context.Background(), validBooking(t))
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate slot, got %v", err)
	}
}

func TestBook_NilRecorder(t *testing.T) {
	env := newTestService(t)
	env.addWindow(t, 1, "2026-03-11", NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
	env.svc.recorder = nil

	if _, err := env.svc.Book(context.Background(), validBooking(t)); err != nil {
		t.Fatalf("booking must not depend on the audit recorder: %v", err)
	}
}

// -- Reschedule --

func bookOne(t *testing.T, env *testEnv) *Appointment {
	t.Helper()
	env.addWindow(t, 1, "2026-03-11", NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
	booked, err := env.svc.Book(context.Background(), validBooking(t))
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	env.recorder.entries = nil
	return booked
}

func TestReschedule_SameSlotNeverConflicts(t *testing.T) {
	env := newTestService(t)
	booked := bookOne(t, env)

	updated, err := env.svc.Reschedule(context.Background(), booked.ID, RescheduleRequest{
		Date:     datePtr(booked.Date),
		Time:     timePtr(booked.Time),
		StatusID: statusScheduled,
	})
	if err != nil {
		t.Fatalf("self-reschedule must not conflict: %v", err)
	}
	if !updated.Date.Equal(booked.Date) || updated.Time != booked.Time {
		t.Error("slot should be unchanged")
	}
}

func TestReschedule_StatusOnlyKeepsSlot(t *testing.T) {
	env := newTestService(t)
	booked := bookOne(t, env)

	updated, err := env.svc.Reschedule(context.Background(), booked.ID, RescheduleRequest{
		StatusID: statusCancelled,
	})
	if err != nil {
		t.Fatalf("status-only reschedule: %v", err)
	}
	if updated.StatusID != statusCancelled {
		t.Errorf("status = %d, want %d", updated.StatusID, statusCancelled)
	}
	if !updated.Date.Equal(booked.Date) {
		t.Errorf("date = %s, want %s", updated.Date, booked.Date)
	}
	if updated.Time != booked.Time {
		t.Errorf("time = %s, want %s", updated.Time, booked.Time)
	}
}

func TestReschedule_OmittedTimeKeepsStoredTime(t *testing.T) {
	env := newTestService(t)
	booked := bookOne(t, env)

	updated, err := env.svc.Reschedule(context.Background(), booked.ID, RescheduleRequest{
		Date: datePtr(mustDate(t, "2026-03-12")),
	})
	if err != nil {
		t.Fatalf("date-only reschedule: %v", err)
	}
	if !updated.Date.Equal(mustDate(t, "2026-03-12")) {
		t.Errorf("date = %s, want 2026-03-12", updated.Date)
	}
	if updated.Time != booked.Time {
		t.Errorf("time = %s, want stored %s", updated.Time, booked.Time)
	}
}

func TestReschedule_ConflictWithOtherAppointment(t *testing.T) {
	env := newTestService(t)
	booked := bookOne(t, env)

	other := validBooking(t)
	other.Time = NewTimeOfDay(11, 0)
	if _, err := env.svc.Book(context.Background(), other); err != nil {
		t.Fatalf("second booking: %v", err)
	}

	_, err := env.svc.Reschedule(context.Background(), booked.ID, RescheduleRequest{
		Date: datePtr(other.Date),
		Time: timePtr(other.Time),
	})
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestReschedule_SkipsSlotValidation(t *testing.T) {
	env := newTestService(t)
	booked := bookOne(t, env)

	// Past date, outside business hours, no availability window. A booking
	// would fail all three; a reschedule only checks direct collisions.
	updated, err := env.svc.Reschedule(context.Background(), booked.ID, RescheduleRequest{
		Date: datePtr(mustDate(t, "2026-03-01")),
		Time: timePtr(NewTimeOfDay(23, 0)),
	})
	if err != nil {
		t.Fatalf("reschedule must skip slot validation: %v", err)
	}
	if updated.Time != NewTimeOfDay(23, 0) {
		t.Errorf("time = %s, want 23:00", updated.Time)
	}

	if len(env.recorder.entries) != 1 || env.recorder.entries[0].Action != audit.ActionUpdate {
		t.Errorf("expected one UPDATE audit entry, got %+v", env.recorder.entries)
	}
}

func TestReschedule_UnknownStatus(t *testing.T) {
	env := newTestService(t)
	booked := bookOne(t, env)

	_, err := env.svc.Reschedule(context.Background(), booked.ID, RescheduleRequest{
		Date:     datePtr(booked.Date),
		Time:     timePtr(booked.Time),
		StatusID: 99,
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReschedule_NotFound(t *testing.T) {
	env := newTestService(t)

	_, err := env.svc.Reschedule(context.Background(), 404, RescheduleRequest{
		Date: datePtr(mustDate(t, "2026-03-11")),
		Time: timePtr(NewTimeOfDay(10, 0)),
	})
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// -- Cancel --

func TestCancel_SoftWhenCancelledStatusExists(t *testing.T) {
	env := newTestService(t)
	booked := bookOne(t, env)

	result, err := env.svc.Cancel(context.Background(), booked.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Deleted {
		t.Error("expected soft cancel, not deletion")
	}
	if result.Appointment.StatusID != statusCancelled {
		t.Errorf("status = %d, want %d", result.Appointment.StatusID, statusCancelled)
	}

	// Row still present, still occupying its slot.
	if _, err := env.svc.GetAppointment(context.Background(), booked.ID); err != nil {
		t.Errorf("cancelled appointment should still exist: %v", err)
	}
	_, err = env.svc.Book(context.Background(), validBooking(t))
	if !apperr.IsConflict(err) {
		t.Errorf("cancelled appointment should still occupy its slot, got %v", err)
	}
}

func TestCancel_HardDeleteWhenStatusMissing(t *testing.T) {
	env := newTestService(t)
	booked := bookOne(t, env)
	delete(env.dir.statuses, statusCancelled)

	result, err := env.svc.Cancel(context.Background(), booked.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Deleted {
		t.Error("expected hard delete fallback")
	}
	if !strings.Contains(result.Message, "permanently") {
		t.Errorf("message %q should say the row was deleted permanently", result.Message)
	}

	if _, err := env.svc.GetAppointment(context.Background(), booked.ID); !apperr.IsNotFound(err) {
		t.Errorf("expected appointment gone, got %v", err)
	}
	if len(env.recorder.entries) != 1 || env.recorder.entries[0].Action != audit.ActionDelete {
		t.Errorf("expected one DELETE audit entry, got %+v", env.recorder.entries)
	}
}

func TestCancel_NotFound(t *testing.T) {
	env := newTestService(t)
	if _, err := env.svc.Cancel(context.Background(), 404, nil); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// -- Availability windows --

func TestCreateWindow(t *testing.T) {
	env := newTestService(t)

	tests := []struct {
		name     string
		window   AvailabilityWindow
		wantKind apperr.Kind
		wantOK   bool
	}{
		{
			name:   "valid",
			window: AvailabilityWindow{DoctorID: 1, Date: mustDate(t, "2026-03-11"), Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)},
			wantOK: true,
		},
		{
			name:     "missing doctor",
			window:   AvailabilityWindow{Date: mustDate(t, "2026-03-11"), Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "unknown doctor",
			window:   AvailabilityWindow{DoctorID: 99, Date: mustDate(t, "2026-03-11"), Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)},
			wantKind: apperr.KindNotFound,
		},
		{
			name:     "missing date",
			window:   AvailabilityWindow{DoctorID: 1, Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "inverted bounds",
			window:   AvailabilityWindow{DoctorID: 1, Date: mustDate(t, "2026-03-11"), Start: NewTimeOfDay(12, 0), End: NewTimeOfDay(8, 0)},
			wantKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.window
			created, err := env.svc.CreateWindow(context.Background(), &w, nil)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if created.ID == 0 {
					t.Error("expected assigned ID")
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperr.KindOf(err); got != tt.wantKind {
				t.Errorf("kind = %v, want %v", got, tt.wantKind)
			}
		})
	}
}

func TestWindowLifecycleIsAudited(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	actor := int64(7)

	created, err := env.svc.CreateWindow(ctx, &AvailabilityWindow{
		DoctorID: 1,
		Date:     mustDate(t, "2026-03-11"),
		Start:    NewTimeOfDay(8, 0),
		End:      NewTimeOfDay(12, 0),
	}, &actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.End = NewTimeOfDay(14, 0)
	if _, err := env.svc.UpdateWindow(ctx, created, &actor); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := env.svc.DeleteWindow(ctx, created.ID, &actor); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(env.recorder.entries) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(env.recorder.entries))
	}
	wantActions := []string{audit.ActionCreate, audit.ActionUpdate, audit.ActionDelete}
	for i, e := range env.recorder.entries {
		if e.Entity != "availability_window" {
			t.Errorf("entry %d entity = %q", i, e.Entity)
		}
		if e.Action != wantActions[i] {
			t.Errorf("entry %d action = %q, want %q", i, e.Action, wantActions[i])
		}
		if e.ActorID == nil || *e.ActorID != actor {
			t.Errorf("entry %d actor = %v, want %d", i, e.ActorID, actor)
		}
	}
}

func TestWindowsFor_EmptyIsNotAnError(t *testing.T) {
	env := newTestService(t)

	windows, err := env.svc.WindowsFor(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 0 {
		t.Errorf("expected no windows, got %d", len(windows))
	}
}

// Walks the full lifecycle: seed a window, book its edge slots, collide, and
// reject everything outside it.
func TestSchedulingScenario(t *testing.T) {
	env := newTestService(t)
	env.addWindow(t, 1, "2026-03-11", NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
	ctx := context.Background()

	book := func(tod TimeOfDay) error {
		a := validBooking(t)
		a.Time = tod
		_, err := env.svc.Book(ctx, a)
		return err
	}

	if err := book(NewTimeOfDay(8, 0)); err != nil {
		t.Fatalf("08:00 should be bookable: %v", err)
	}
	if err := book(NewTimeOfDay(12, 0)); err != nil {
		t.Fatalf("12:00 should be bookable: %v", err)
	}
	if err := book(NewTimeOfDay(8, 0)); !apperr.IsConflict(err) {
		t.Errorf("double booking 08:00 should conflict, got %v", err)
	}
	if err := book(NewTimeOfDay(7, 59)); !apperr.IsConflict(err) {
		t.Errorf("07:59 is outside the window, got %v", err)
	}
	if err := book(NewTimeOfDay(12, 1)); !apperr.IsConflict(err) {
		t.Errorf("12:01 is outside the window, got %v", err)
	}

	items, total, err := env.svc.ListAppointments(ctx, AppointmentFilter{}, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 appointments, got %d/%d", len(items), total)
	}
}
