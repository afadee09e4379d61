package portal

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/carelink/patient-portal/internal/chat"
	"github.com/carelink/patient-portal/internal/metrics"
	"github.com/carelink/patient-portal/internal/scheduling"
)

// Availability is the read side of the slot engine.
type Availability interface {
	DoctorNames(ctx context.Context) ([]string, error)
	AvailableSlots(ctx context.Context, doctorName string) ([]scheduling.Slot, error)
}

// Scheduler is the booking transaction manager.
type Scheduler interface {
	Book(ctx context.Context, req scheduling.BookingRequest) (*scheduling.Booking, error)
	ListBookings(ctx context.Context, owner string) ([]scheduling.Booking, error)
}

// ChatRouter dispatches chat turns and replays histories.
type ChatRouter interface {
	Ask(ctx context.Context, sessionID, text, source string) (chat.Message, error)
	History(ctx context.Context, sessionID string) ([]chat.Message, error)
}

// Facade is the single entry point the presentation layer talks to. It
// composes the availability index, the booking transaction manager and the
// chat router, and owns cross-cutting telemetry for their operations.
type Facade struct {
	availability Availability
	scheduler    Scheduler
	chat         ChatRouter
	metrics      *metrics.PortalMetrics
}

func NewFacade(availability Availability, scheduler Scheduler, chatRouter ChatRouter, m *metrics.PortalMetrics) *Facade {
	return &Facade{
		availability: availability,
		scheduler:    scheduler,
		chat:         chatRouter,
		metrics:      m,
	}
}

func (f *Facade) GetDoctors(ctx context.Context) ([]string, error) {
	return f.availability.DoctorNames(ctx)
}

func (f *Facade) GetSlots(ctx context.Context, doctorName string) ([]scheduling.Slot, error) {
	start := time.Now()
	slots, err := f.availability.AvailableSlots(ctx, doctorName)
	f.metrics.ObserveSlotLookup(time.Since(start).Seconds())
	return slots, err
}

func (f *Facade) CreateBooking(ctx context.Context, req scheduling.BookingRequest) (*scheduling.Booking, error) {
	b, err := f.scheduler.Book(ctx, req)
	f.metrics.ObserveBooking(bookingOutcome(err))
	return b, err
}

func (f *Facade) ListBookings(ctx context.Context, owner string) ([]scheduling.Booking, error) {
	return f.scheduler.ListBookings(ctx, owner)
}

// SendChatTurn returns the assistant message for the turn. On a downstream
// failure the message is the stored apology and the error still reports the
// cause, so the caller can surface it while the conversation stays answered.
func (f *Facade) SendChatTurn(ctx context.Context, sessionID, text, source string) (chat.Message, error) {
	msg, err := f.chat.Ask(ctx, sessionID, text, source)
	switch {
	case err == nil:
		f.metrics.ObserveChatTurn(source, "ok")
	case errors.Is(err, chat.ErrResponder):
		f.metrics.ObserveChatTurn(source, "downstream_error")
		log.Printf("chat responder failure session=%s source=%s err=%v", sessionID, source, err)
	case errors.Is(err, chat.ErrUnknownSource):
		f.metrics.ObserveChatTurn(source, "unknown_source")
	default:
		f.metrics.ObserveChatTurn(source, "error")
	}
	return msg, err
}

func (f *Facade) GetChatHistory(ctx context.Context, sessionID string) ([]chat.Message, error) {
	return f.chat.History(ctx, sessionID)
}

func bookingOutcome(err error) string {
	var ve *scheduling.ValidationError
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, scheduling.ErrDoctorNotFound):
		return "doctor_not_found"
	case errors.Is(err, scheduling.ErrSlotUnavailable),
		errors.Is(err, scheduling.ErrSlotBeingBooked):
		return "conflict"
	case errors.As(err, &ve):
		return "invalid"
	default:
		return "error"
	}
}
