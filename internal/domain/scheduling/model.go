package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// minutesPerDay bounds a TimeOfDay value.
const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time without a date, stored as minutes since
// midnight. It round-trips JSON as "HH:MM" and maps to a Postgres TIME column.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS"; seconds are discarded.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04:05", s)
	if err != nil {
		parsed, err = time.Parse("15:04", s)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return NewTimeOfDay(parsed.Hour(), parsed.Minute()), nil
}

// TimeOfDayOf extracts the wall-clock time from t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = 0
		return nil
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Date is a calendar day without a time component. It round-trips JSON as
// "YYYY-MM-DD" and maps to a Postgres DATE column.
type Date struct {
	time.Time
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Equal compares calendar days regardless of location.
func (d Date) Equal(other Date) bool {
	return d.Year() == other.Year() && d.YearDay() == other.YearDay()
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// AvailabilityWindow maps to the availability_window table. A window declares
// that a doctor accepts appointments on Date between Start and End, both ends
// inclusive.
type AvailabilityWindow struct {
	ID        int64     `db:"id" json:"id"`
	DoctorID  int64     `db:"doctor_id" json:"doctor_id"`
	Date      Date      `db:"date" json:"date"`
	Start     TimeOfDay `db:"start_time" json:"start"`
	End       TimeOfDay `db:"end_time" json:"end"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Covers reports whether the window admits an appointment at the given slot.
func (w AvailabilityWindow) Covers(date Date, t TimeOfDay) bool {
	return w.Date.Equal(date) && w.Start <= t && t <= w.End
}

// Appointment maps to the appointment table. The (doctor_id, date, start_time)
// triple is unique; cancelled appointments keep occupying their slot.
type Appointment struct {
	ID        int64     `db:"id" json:"id"`
	PatientID int64     `db:"patient_id" json:"patient_id"`
	DoctorID  int64     `db:"doctor_id" json:"doctor_id"`
	Date      Date      `db:"date" json:"date"`
	Time      TimeOfDay `db:"start_time" json:"time"`
	StatusID  int64     `db:"status_id" json:"status_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// BusinessHours are the inclusive bounds for bookable appointment times.
type BusinessHours struct {
	Open  TimeOfDay
	Close TimeOfDay
}
