package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type BookingStatus string

const (
	StatusScheduled BookingStatus = "scheduled"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func ParseGender(raw string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(raw))) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	case GenderOther:
		return GenderOther, true
	}
	return "", false
}

// Doctor is immutable for a scheduling period. The working-hours template
// (WorkStart..WorkEnd in SlotMinutes steps) is the source every bookable slot
// is derived from.
type Doctor struct {
	ID             uuid.UUID
	Name           string
	Specialization string
	RoomNumber     int
	WorkStart      string // "09:00"
	WorkEnd        string // "17:00"
	SlotMinutes    int
	CreatedAt      time.Time
}

// Slot is a bookable (date, time) pair for one doctor. Slots have no persisted
// identity; they are materialized on read by subtracting scheduled bookings
// from the doctor's template.
type Slot struct {
	Date string // DateLayout
	Time string // TimeLayout
}

func (s Slot) String() string {
	return s.Date + " " + s.Time
}

// ParseSlot parses the "2006-01-02 15:04" form used on the wire.
func ParseSlot(raw string) (Slot, error) {
	date, tod, ok := strings.Cut(strings.TrimSpace(raw), " ")
	if !ok {
		return Slot{}, fmt.Errorf("slot %q is not in %q form", raw, DateLayout+" "+TimeLayout)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return Slot{}, fmt.Errorf("slot date %q: %w", date, err)
	}
	if _, err := time.Parse(TimeLayout, tod); err != nil {
		return Slot{}, fmt.Errorf("slot time %q: %w", tod, err)
	}
	return Slot{Date: date, Time: tod}, nil
}

// Booking is the durable reservation of exactly one slot. IDs are assigned
// monotonically by the store. DoctorName, Specialization and RoomNumber are
// denormalized for presentation.
type Booking struct {
	ID             int64
	DoctorID       uuid.UUID
	DoctorName     string
	Specialization string
	RoomNumber     int
	PatientName    string
	Age            int
	Gender         Gender
	Date           string // DateLayout
	Time           string // TimeLayout
	Status         BookingStatus
	UserEmail      string
	CreatedAt      time.Time
}

// ValidationError reports malformed caller input. It is never retried
// automatically; the caller corrects the field and resubmits.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
