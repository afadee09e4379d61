package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carelink/patient-portal/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedDoctors(context.Background(), pool, 12); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}

	log.Println("seed complete")
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d doctors", count)

	specializations := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}

	workingHours := [][2]string{
		{"09:00", "17:00"},
		{"10:00", "16:00"},
		{"08:00", "14:00"},
	}

	for i := 0; i < count; i++ {
		name := gofakeit.LastName()
		specialization := specializations[i%len(specializations)]
		room := 100 + gofakeit.Number(0, 299)
		hours := workingHours[i%len(workingHours)]

		_, err := pool.Exec(ctx, `
			INSERT INTO doctors (name, specialization, room_number, work_start, work_end, slot_minutes)
			VALUES ($1, $2, $3, $4, $5, 60)
			ON CONFLICT (name) DO NOTHING
		`, name, specialization, room, hours[0], hours[1])
		if err != nil {
			return err
		}
	}

	return nil
}
