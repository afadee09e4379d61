package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/carelink/patient-portal/internal/auth"
)

// simulate fires concurrent booking attempts at one (doctor, slot) through
// the public API and reports how many won. A correct deployment yields
// exactly one created booking no matter how many workers race.
type simConfig struct {
	APIBaseURL string
	JWTSecret  string
	DoctorName string
	Slot       string
	Workers    int
}

type bookingPayload struct {
	DoctorName  string `json:"doctor_name"`
	PatientName string `json:"patient_name"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	ChosenSlot  string `json:"chosen_slot"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := loadSimConfig()
	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("simulating %d concurrent bookings for doctor=%q slot=%q", cfg.Workers, cfg.DoctorName, cfg.Slot)

	var created, conflict, failed int64
	client := &http.Client{Timeout: 10 * time.Second}

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			email := gofakeit.Email()
			token, err := auth.SignIdentity(cfg.JWTSecret, email, time.Hour)
			if err != nil {
				log.Printf("worker %d: sign token: %v", worker, err)
				atomic.AddInt64(&failed, 1)
				return
			}

			status, body, err := attemptBooking(client, cfg, token)
			if err != nil {
				log.Printf("worker %d: request failed: %v", worker, err)
				atomic.AddInt64(&failed, 1)
				return
			}

			switch status {
			case http.StatusCreated:
				atomic.AddInt64(&created, 1)
			case http.StatusConflict:
				atomic.AddInt64(&conflict, 1)
			default:
				log.Printf("worker %d: unexpected status %d body=%s", worker, status, body)
				atomic.AddInt64(&failed, 1)
			}
		}(i)
	}
	wg.Wait()

	fmt.Printf("\nresults: created=%d conflict=%d failed=%d\n", created, conflict, failed)
	if created != 1 {
		log.Fatalf("invariant violated: expected exactly 1 created booking, got %d", created)
	}
	log.Println("uniqueness invariant held")
}

func attemptBooking(client *http.Client, cfg simConfig, token string) (int, string, error) {
	payload, err := json.Marshal(bookingPayload{
		DoctorName:  cfg.DoctorName,
		PatientName: gofakeit.Name(),
		Age:         gofakeit.Number(1, 120),
		Gender:      []string{"male", "female", "other"}[gofakeit.Number(0, 2)],
		ChosenSlot:  cfg.Slot,
	})
	if err != nil {
		return 0, "", err
	}

	req, err := http.NewRequest(http.MethodPost, cfg.APIBaseURL+"/api/appointments", bytes.NewReader(payload))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, string(body), nil
}

func loadSimConfig() simConfig {
	cfg := simConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://127.0.0.1:8080"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		DoctorName: os.Getenv("SIM_DOCTOR"),
		Slot:       os.Getenv("SIM_SLOT"),
		Workers:    10,
	}
	if v := os.Getenv("SIM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.DoctorName == "" || cfg.Slot == "" {
		log.Fatal("SIM_DOCTOR and SIM_SLOT are required, e.g. SIM_DOCTOR=Smith SIM_SLOT=\"2024-06-01 09:00\"")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
