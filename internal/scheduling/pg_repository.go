package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgRepository struct {
	db DB
}

func NewPgRepository(db DB) *PgRepository {
	return &PgRepository{db: db}
}

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Specialization,
		&d.RoomNumber,
		&d.WorkStart,
		&d.WorkEnd,
		&d.SlotMinutes,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

// scanBooking leaves pgx.ErrNoRows to the call site: a missing row means
// "not found" on reads but "lost the slot" on the conditional insert.
func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var date time.Time
	var gender, status string

	err := row.Scan(
		&b.ID,
		&b.DoctorID,
		&b.PatientName,
		&b.Age,
		&gender,
		&date,
		&b.Time,
		&status,
		&b.UserEmail,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Gender = Gender(gender)
	b.Status = BookingStatus(status)
	b.Date = date.Format(DateLayout)
	return &b, nil
}

// Interface methods

func (r *PgRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, specialization, room_number, work_start, work_end, slot_minutes, created_at
		FROM doctors
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetDoctorByName(ctx context.Context, name string) (*Doctor, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, specialization, room_number, work_start, work_end, slot_minutes, created_at
		FROM doctors
		WHERE name = $1
	`, name)
	return scanDoctor(row)
}

func (r *PgRepository) ScheduledSlots(ctx context.Context, doctorID uuid.UUID, fromDate, toDate string) ([]Slot, error) {
	from, err := time.Parse(DateLayout, fromDate)
	if err != nil {
		return nil, fmt.Errorf("parse from date: %w", err)
	}
	to, err := time.Parse(DateLayout, toDate)
	if err != nil {
		return nil, fmt.Errorf("parse to date: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT appointment_date, appointment_time
		FROM bookings
		WHERE doctor_id = $1
		  AND status = 'scheduled'
		  AND appointment_date BETWEEN $2 AND $3
	`, doctorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Slot
	for rows.Next() {
		var date time.Time
		var tod string
		if err := rows.Scan(&date, &tod); err != nil {
			return nil, err
		}
		result = append(result, Slot{Date: date.Format(DateLayout), Time: tod})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) HasScheduledBooking(ctx context.Context, doctorID uuid.UUID, slot Slot) (bool, error) {
	date, err := time.Parse(DateLayout, slot.Date)
	if err != nil {
		return false, fmt.Errorf("parse slot date: %w", err)
	}

	var exists bool
	err = r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE doctor_id = $1
			  AND appointment_date = $2
			  AND appointment_time = $3
			  AND status = 'scheduled'
		)
	`, doctorID, date, slot.Time).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *PgRepository) InsertBooking(ctx context.Context, nb NewBooking) (*Booking, error) {
	date, err := time.Parse(DateLayout, nb.Slot.Date)
	if err != nil {
		return nil, fmt.Errorf("parse slot date: %w", err)
	}

	// The partial unique index on (doctor_id, appointment_date,
	// appointment_time) WHERE status = 'scheduled' is the final arbiter: a
	// conflicting insert returns no row.
	row := r.db.QueryRow(ctx, `
		INSERT INTO bookings (doctor_id, patient_name, age, gender, appointment_date, appointment_time, status, user_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'scheduled', $7, now())
		ON CONFLICT (doctor_id, appointment_date, appointment_time) WHERE status = 'scheduled' DO NOTHING
		RETURNING id, doctor_id, patient_name, age, gender, appointment_date, appointment_time, status, user_email, created_at
	`, nb.DoctorID, nb.PatientName, nb.Age, string(nb.Gender), date, nb.Slot.Time, nb.Owner)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	return b, nil
}

func (r *PgRepository) ListBookingsByOwner(ctx context.Context, owner string) ([]Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.doctor_id, d.name, d.specialization, d.room_number,
		       b.patient_name, b.age, b.gender, b.appointment_date, b.appointment_time,
		       b.status, b.user_email, b.created_at
		FROM bookings b
		JOIN doctors d ON d.id = b.doctor_id
		WHERE b.user_email = $1
		ORDER BY b.created_at DESC, b.id DESC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Booking
	for rows.Next() {
		var b Booking
		var date time.Time
		var gender, status string

		err := rows.Scan(
			&b.ID,
			&b.DoctorID,
			&b.DoctorName,
			&b.Specialization,
			&b.RoomNumber,
			&b.PatientName,
			&b.Age,
			&gender,
			&date,
			&b.Time,
			&status,
			&b.UserEmail,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		b.Gender = Gender(gender)
		b.Status = BookingStatus(status)
		b.Date = date.Format(DateLayout)
		result = append(result, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) CompletePastBookings(ctx context.Context, date, timeOfDay string) (int64, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("parse date: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET status = 'completed'
		WHERE status = 'scheduled'
		  AND (appointment_date < $1
		       OR (appointment_date = $1 AND appointment_time < $2))
	`, day, timeOfDay)
	if err != nil {
		return 0, fmt.Errorf("complete past bookings: %w", err)
	}

	return tag.RowsAffected(), nil
}
