package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/carelink/patient-portal/internal/redis"
)

// BookingRequest is a caller's attempt to reserve one slot.
type BookingRequest struct {
	DoctorName  string
	PatientName string
	Age         int
	Gender      string
	ChosenSlot  string // "2006-01-02 15:04"
	Owner       string
}

// Service is the booking transaction manager. The free-slot check and the
// insert are indivisible: they run under a per-slot distributed lock, and the
// store's conditional insert is the final arbiter, so concurrent attempts on
// one slot yield exactly one scheduled booking.
type Service struct {
	repo        Repository
	locker      redisclient.Locker
	horizonDays int
	now         func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, horizonDays int) *Service {
	if horizonDays <= 0 {
		horizonDays = 7
	}
	return &Service{
		repo:        repo,
		locker:      locker,
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

// Book validates the request and commits the reservation. Validation order:
// doctor, age, gender, slot. A failed Book leaves no booking row behind.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Booking, error) {
	doc, err := s.repo.GetDoctorByName(ctx, req.DoctorName)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	if strings.TrimSpace(req.PatientName) == "" {
		return nil, &ValidationError{Field: "patient_name", Reason: "must not be empty"}
	}
	if req.Age < 1 || req.Age > 120 {
		return nil, &ValidationError{Field: "age", Reason: "must be between 1 and 120"}
	}
	gender, ok := ParseGender(req.Gender)
	if !ok {
		return nil, &ValidationError{Field: "gender", Reason: "must be one of male, female or other"}
	}
	slot, err := ParseSlot(req.ChosenSlot)
	if err != nil {
		return nil, &ValidationError{Field: "chosen_slot", Reason: err.Error()}
	}

	if !slotInTemplate(doc, slot, s.now(), s.horizonDays) {
		return nil, ErrSlotUnavailable
	}

	var created *Booking

	err = s.locker.WithSlotLock(ctx, slotLockKey(doc.ID, slot), func(lockCtx context.Context) error {
		// Re-check inside the critical section: availability read by the
		// caller earlier is not trusted at commit time.
		taken, err := s.repo.HasScheduledBooking(lockCtx, doc.ID, slot)
		if err != nil {
			return fmt.Errorf("check scheduled booking: %w", err)
		}
		if taken {
			return ErrSlotUnavailable
		}

		b, err := s.repo.InsertBooking(lockCtx, NewBooking{
			DoctorID:    doc.ID,
			PatientName: strings.TrimSpace(req.PatientName),
			Age:         req.Age,
			Gender:      gender,
			Slot:        slot,
			Owner:       req.Owner,
		})
		if err != nil {
			return err
		}
		created = b
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	created.DoctorName = doc.Name
	created.Specialization = doc.Specialization
	created.RoomNumber = doc.RoomNumber
	return created, nil
}

// ListBookings returns the caller's bookings, newest first, every status
// included. A caller with no bookings gets an empty slice, not an error.
func (s *Service) ListBookings(ctx context.Context, owner string) ([]Booking, error) {
	bookings, err := s.repo.ListBookingsByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []Booking{}
	}
	return bookings, nil
}

// CompletePastAppointments marks scheduled bookings whose slot has passed as
// completed. Called by the completion worker; availability derivation only
// subtracts scheduled bookings, so completed slots of past days never matter.
func CompletePastAppointments(ctx context.Context, repo Repository, now time.Time) (int64, error) {
	return repo.CompletePastBookings(ctx, now.Format(DateLayout), now.Format(TimeLayout))
}

func slotLockKey(doctorID uuid.UUID, slot Slot) string {
	return fmt.Sprintf("%s:%s", doctorID, slot)
}
