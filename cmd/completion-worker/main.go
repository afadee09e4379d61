package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/carelink/patient-portal/internal/config"
	"github.com/carelink/patient-portal/internal/db"
	"github.com/carelink/patient-portal/internal/scheduling"
)

// The completion worker performs the administrative scheduled -> completed
// transition for bookings whose slot has passed.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("completion-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running completion worker in env=%s interval=%s", cfg.Env, cfg.WorkerInterval)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	repo := scheduling.NewPgRepository(pgPool)

	// Run once at startup
	runOnce(rootCtx, repo)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutting down completion-worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, repo)
		}
	}
}

func runOnce(ctx context.Context, repo scheduling.Repository) {
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	count, err := scheduling.CompletePastAppointments(runCtx, repo, time.Now())
	if err != nil {
		log.Printf("complete past appointments: %v", err)
		return
	}
	if count > 0 {
		log.Printf("marked %d past appointments as completed", count)
	}
}
