package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/carelink/patient-portal/internal/api"
	"github.com/carelink/patient-portal/internal/auth"
	"github.com/carelink/patient-portal/internal/chat"
	"github.com/carelink/patient-portal/internal/config"
	"github.com/carelink/patient-portal/internal/db"
	"github.com/carelink/patient-portal/internal/metrics"
	"github.com/carelink/patient-portal/internal/portal"
	redisclient "github.com/carelink/patient-portal/internal/redis"
	"github.com/carelink/patient-portal/internal/scheduling"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s horizon_days=%d", cfg.Env, cfg.HTTPPort, cfg.HorizonDays)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	resolver, err := auth.NewJWTResolver(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("identity resolver error: %v", err)
	}

	repo := scheduling.NewPgRepository(pgPool)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL, cfg.LockAttempts)
	availability := scheduling.NewAvailabilityIndex(repo, cfg.HorizonDays)
	scheduler := scheduling.NewService(repo, locker, cfg.HorizonDays)

	responders := map[string]chat.Responder{
		chat.SourceMedicalBot: chat.NewMedicalBotClient(cfg.MedicalBotURL),
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := chat.NewGeminiClient(rootCtx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("gemini client error: %v", err)
		}
		responders[chat.SourceGemini] = gemini
	} else {
		log.Println("GEMINI_API_KEY not set, gemini source will report downstream errors")
		responders[chat.SourceGemini] = chat.Unavailable("gemini api key not configured")
	}

	sessions := chat.NewSessionStore(rdb)
	chatRouter := chat.NewRouter(sessions, responders, cfg.ResponderTimeout, slog.Default())

	portalMetrics := metrics.NewPortalMetrics(nil)
	facade := portal.NewFacade(availability, scheduler, chatRouter, portalMetrics)

	handler := api.NewRouter(api.RouterConfig{
		Portal:   facade,
		Resolver: resolver,
		PgPool:   pgPool,
		Redis:    rdb,
		Env:      cfg.Env,
		Version:  version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()

	log.Println("shutting down api-server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
