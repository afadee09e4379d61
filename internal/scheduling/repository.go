package scheduling

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrSlotUnavailable = errors.New("slot no longer available")
	ErrSlotBeingBooked = errors.New("slot is currently being booked, please retry")
)

// NewBooking carries the validated fields of a booking about to be committed.
type NewBooking struct {
	DoctorID    uuid.UUID
	PatientName string
	Age         int
	Gender      Gender
	Slot        Slot
	Owner       string
}

// Repository contains all store interactions needed by the availability index
// and the booking service.
type Repository interface {
	ListDoctors(ctx context.Context) ([]Doctor, error)
	GetDoctorByName(ctx context.Context, name string) (*Doctor, error)

	// Availability derivation
	ScheduledSlots(ctx context.Context, doctorID uuid.UUID, fromDate, toDate string) ([]Slot, error)

	// Commit path. InsertBooking is conditional: it returns ErrSlotUnavailable
	// when another scheduled booking already holds the slot.
	HasScheduledBooking(ctx context.Context, doctorID uuid.UUID, slot Slot) (bool, error)
	InsertBooking(ctx context.Context, nb NewBooking) (*Booking, error)

	ListBookingsByOwner(ctx context.Context, owner string) ([]Booking, error)

	// Completion worker
	CompletePastBookings(ctx context.Context, date, timeOfDay string) (int64, error)
}
