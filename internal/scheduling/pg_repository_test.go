package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PgRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPgRepository(mock)
}

func doctorColumns() []string {
	return []string{"id", "name", "specialization", "room_number", "work_start", "work_end", "slot_minutes", "created_at"}
}

func TestPgGetDoctorByName(t *testing.T) {
	mock, repo := newMockRepo(t)

	id := uuid.New()
	created := time.Now()
	mock.ExpectQuery("SELECT id, name, specialization").
		WithArgs("Smith").
		WillReturnRows(pgxmock.NewRows(doctorColumns()).
			AddRow(id, "Smith", "Cardiology", 204, "09:00", "12:00", 60, created))

	doc, err := repo.GetDoctorByName(context.Background(), "Smith")
	require.NoError(t, err)
	require.Equal(t, id, doc.ID)
	require.Equal(t, "Cardiology", doc.Specialization)
	require.Equal(t, 60, doc.SlotMinutes)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgGetDoctorByNameNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT id, name, specialization").
		WithArgs("Ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetDoctorByName(context.Background(), "Ghost")
	require.ErrorIs(t, err, ErrDoctorNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgListDoctors(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery("SELECT id, name, specialization").
		WillReturnRows(pgxmock.NewRows(doctorColumns()).
			AddRow(uuid.New(), "Adler", "Neurology", 101, "09:00", "17:00", 60, now).
			AddRow(uuid.New(), "Watson", "General Practice", 102, "10:00", "16:00", 30, now))

	doctors, err := repo.ListDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	require.Equal(t, "Adler", doctors[0].Name)
	require.Equal(t, 30, doctors[1].SlotMinutes)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgInsertBooking(t *testing.T) {
	mock, repo := newMockRepo(t)

	docID := uuid.New()
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	created := time.Now()

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(docID, "Jane Roe", 34, "female", day, "09:00", "jane@example.com").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "doctor_id", "patient_name", "age", "gender",
			"appointment_date", "appointment_time", "status", "user_email", "created_at",
		}).AddRow(int64(7), docID, "Jane Roe", 34, "female", day, "09:00", "scheduled", "jane@example.com", created))

	b, err := repo.InsertBooking(context.Background(), NewBooking{
		DoctorID:    docID,
		PatientName: "Jane Roe",
		Age:         34,
		Gender:      GenderFemale,
		Slot:        Slot{Date: "2024-06-01", Time: "09:00"},
		Owner:       "jane@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), b.ID)
	require.Equal(t, StatusScheduled, b.Status)
	require.Equal(t, "2024-06-01", b.Date)

	require.NoError(t, mock.ExpectationsWereMet())
}

// ON CONFLICT ... DO NOTHING returns no row when another scheduled booking
// already holds the slot.
func TestPgInsertBookingConflict(t *testing.T) {
	mock, repo := newMockRepo(t)

	docID := uuid.New()
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(docID, "Jane Roe", 34, "female", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "09:00", "jane@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.InsertBooking(context.Background(), NewBooking{
		DoctorID:    docID,
		PatientName: "Jane Roe",
		Age:         34,
		Gender:      GenderFemale,
		Slot:        Slot{Date: "2024-06-01", Time: "09:00"},
		Owner:       "jane@example.com",
	})
	require.ErrorIs(t, err, ErrSlotUnavailable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgHasScheduledBooking(t *testing.T) {
	mock, repo := newMockRepo(t)

	docID := uuid.New()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(docID, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "09:00").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.HasScheduledBooking(context.Background(), docID, Slot{Date: "2024-06-01", Time: "09:00"})
	require.NoError(t, err)
	require.True(t, taken)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgScheduledSlots(t *testing.T) {
	mock, repo := newMockRepo(t)

	docID := uuid.New()
	mock.ExpectQuery("SELECT appointment_date, appointment_time").
		WithArgs(docID, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(pgxmock.NewRows([]string{"appointment_date", "appointment_time"}).
			AddRow(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), "10:00"))

	slots, err := repo.ScheduledSlots(context.Background(), docID, "2024-06-01", "2024-06-07")
	require.NoError(t, err)
	require.Equal(t, []Slot{{Date: "2024-06-02", Time: "10:00"}}, slots)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgListBookingsByOwnerQueryError(t *testing.T) {
	mock, repo := newMockRepo(t)

	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT b.id, b.doctor_id").
		WithArgs("jane@example.com").
		WillReturnError(boom)

	_, err := repo.ListBookingsByOwner(context.Background(), "jane@example.com")
	require.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgCompletePastBookings(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("UPDATE bookings").
		WithArgs(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "09:30").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	count, err := repo.CompletePastBookings(context.Background(), "2024-06-01", "09:30")
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	require.NoError(t, mock.ExpectationsWereMet())
}
