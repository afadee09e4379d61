package api

import (
	"time"

	"github.com/carelink/patient-portal/internal/chat"
	"github.com/carelink/patient-portal/internal/scheduling"
)

type DoctorsResponse struct {
	Doctors []string `json:"doctors"`
}

type SlotsResponse struct {
	Slots []string `json:"slots"`
}

type CreateBookingRequest struct {
	DoctorName  string `json:"doctor_name"`
	PatientName string `json:"patient_name"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	ChosenSlot  string `json:"chosen_slot"`
}

type BookingResponse struct {
	AppointmentID   int64     `json:"appointment_id"`
	DoctorName      string    `json:"doctor_name"`
	Specialization  string    `json:"specialization"`
	RoomNumber      int       `json:"room_number"`
	PatientName     string    `json:"patient_name"`
	Age             int       `json:"age"`
	Gender          string    `json:"gender"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	Status          string    `json:"status"`
	UserEmail       string    `json:"user_email"`
	CreatedAt       time.Time `json:"created_at"`
}

type BookingsResponse struct {
	Appointments []BookingResponse `json:"appointments"`
}

type ChatRequest struct {
	Message string `json:"message"`
	Source  string `json:"source"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Source   string `json:"source,omitempty"`
}

type MessageResponse struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Sender    string    `json:"sender"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatHistoryResponse struct {
	Messages []MessageResponse `json:"messages"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toBookingResponse(b scheduling.Booking) BookingResponse {
	return BookingResponse{
		AppointmentID:   b.ID,
		DoctorName:      b.DoctorName,
		Specialization:  b.Specialization,
		RoomNumber:      b.RoomNumber,
		PatientName:     b.PatientName,
		Age:             b.Age,
		Gender:          string(b.Gender),
		AppointmentDate: b.Date,
		AppointmentTime: b.Time,
		Status:          string(b.Status),
		UserEmail:       b.UserEmail,
		CreatedAt:       b.CreatedAt,
	}
}

func toMessageResponse(m chat.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Body:      m.Body,
		Sender:    m.Sender,
		Source:    m.Source,
		Timestamp: m.Timestamp,
	}
}
