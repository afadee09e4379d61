package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/carelink/patient-portal/internal/chat"
	"github.com/carelink/patient-portal/internal/scheduling"
)

// Portal is the facade the HTTP layer is built against.
type Portal interface {
	GetDoctors(ctx context.Context) ([]string, error)
	GetSlots(ctx context.Context, doctorName string) ([]scheduling.Slot, error)
	CreateBooking(ctx context.Context, req scheduling.BookingRequest) (*scheduling.Booking, error)
	ListBookings(ctx context.Context, owner string) ([]scheduling.Booking, error)
	SendChatTurn(ctx context.Context, sessionID, text, source string) (chat.Message, error)
	GetChatHistory(ctx context.Context, sessionID string) ([]chat.Message, error)
}

func getDoctorsHandler(p Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := p.GetDoctors(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		if doctors == nil {
			doctors = []string{}
		}
		writeJSON(w, http.StatusOK, DoctorsResponse{Doctors: doctors})
	}
}

func getSlotsHandler(p Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorName := strings.TrimSpace(r.URL.Query().Get("doctor_name"))
		if doctorName == "" {
			writeError(w, http.StatusBadRequest, "missing_doctor_name", "doctor_name query parameter is required")
			return
		}

		slots, err := p.GetSlots(r.Context(), doctorName)
		if err != nil {
			if errors.Is(err, scheduling.ErrDoctorNotFound) {
				writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]string, 0, len(slots))
		for _, s := range slots {
			out = append(out, s.String())
		}
		writeJSON(w, http.StatusOK, SlotsResponse{Slots: out})
	}
}

func createBookingHandler(p Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "request identity was not resolved")
			return
		}

		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		booking, err := p.CreateBooking(r.Context(), scheduling.BookingRequest{
			DoctorName:  req.DoctorName,
			PatientName: req.PatientName,
			Age:         req.Age,
			Gender:      req.Gender,
			ChosenSlot:  req.ChosenSlot,
			Owner:       string(identity),
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBookingResponse(*booking))
	}
}

func listBookingsHandler(p Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "request identity was not resolved")
			return
		}

		bookings, err := p.ListBookings(r.Context(), string(identity))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]BookingResponse, 0, len(bookings))
		for _, b := range bookings {
			out = append(out, toBookingResponse(b))
		}
		writeJSON(w, http.StatusOK, BookingsResponse{Appointments: out})
	}
}

func sendChatHandler(p Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "request identity was not resolved")
			return
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeError(w, http.StatusBadRequest, "empty_message", "message must not be empty")
			return
		}

		msg, err := p.SendChatTurn(r.Context(), string(identity), req.Message, req.Source)
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrUnknownSource):
				writeError(w, http.StatusBadRequest, "unknown_source", err.Error())
			case errors.Is(err, chat.ErrResponder):
				// The apology reply is already in the session history.
				writeError(w, http.StatusBadGateway, "responder_failed", "the selected assistant could not answer")
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, ChatResponse{Response: msg.Body, Source: msg.Source})
	}
}

func chatHistoryHandler(p Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "request identity was not resolved")
			return
		}

		history, err := p.GetChatHistory(r.Context(), string(identity))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]MessageResponse, 0, len(history))
		for _, m := range history {
			out = append(out, toMessageResponse(m))
		}
		writeJSON(w, http.StatusOK, ChatHistoryResponse{Messages: out})
	}
}

func handleBookingError(w http.ResponseWriter, err error) {
	var ve *scheduling.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "validation_failed", ve.Error())
	case errors.Is(err, scheduling.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, scheduling.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", "slot no longer available, choose another slot")
	case errors.Is(err, scheduling.ErrSlotBeingBooked):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
