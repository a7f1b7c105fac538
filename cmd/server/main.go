// main wires high-level dependencies, exposes the HTTP router, and keeps
// the server lifecycle small. Business logic lives in the internal service
// packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	attendancehandler "rollcall/internal/attendance/handler"
	attendancemetrics "rollcall/internal/attendance/metrics"
	attendanceservice "rollcall/internal/attendance/service"
	"rollcall/internal/attendance/store/record"
	"rollcall/internal/event"
	eventhandler "rollcall/internal/event/handler"
	"rollcall/internal/identity"
	"rollcall/internal/jwttoken"
	"rollcall/internal/member"
	memberhandler "rollcall/internal/member/handler"
	"rollcall/internal/organizer"
	"rollcall/internal/platform/config"
	"rollcall/internal/platform/db"
	"rollcall/internal/platform/httpserver"
	"rollcall/internal/platform/logger"
	platformredis "rollcall/internal/platform/redis"
	"rollcall/internal/verification"
	"rollcall/pkg/platform/audit"
	auditkafka "rollcall/pkg/platform/audit/kafka"
	"rollcall/pkg/platform/middleware/auth"
	"rollcall/pkg/platform/middleware/requestid"
	"rollcall/pkg/platform/middleware/requesttime"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		log.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Audit entries always reach the structured log; the Kafka publisher is
	// attached when brokers are configured.
	var auditPublisher audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := auditkafka.New(ctx, cfg.KafkaBrokers)
		if err != nil {
			log.Error("kafka audit publisher failed", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		auditPublisher = kafkaPublisher
	}

	eventStore := event.NewPostgres(conn)
	memberStore := member.NewPostgres(conn)
	recordStore := record.NewPostgres(conn)

	var sessions verification.SessionStore
	if redisClient != nil {
		sessions = verification.NewRedisSessionStore(redisClient.Client, cfg.SessionTTL)
	} else {
		sessions = verification.NewInMemorySessionStore(cfg.SessionTTL)
	}

	// Stand-in directory client; real deployments swap in the production
	// identity directory behind the same interface.
	directory := identity.MockDirectory{Latency: 250 * time.Millisecond}

	verifier, err := verification.New(directory, sessions,
		verification.WithAttemptLimit(cfg.AttemptLimit),
		verification.WithTimeout(cfg.VerifyTimeout),
		verification.WithLogger(log),
		verification.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		log.Error("verification service init failed", "error", err)
		os.Exit(1)
	}

	eventService, err := event.NewService(eventStore, recordStore,
		event.WithDefaultWindows(cfg.CheckInWindow, cfg.CheckOutWindow),
		event.WithLogger(log),
		event.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		log.Error("event service init failed", "error", err)
		os.Exit(1)
	}

	memberService, err := member.NewService(memberStore,
		member.WithLogger(log),
		member.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		log.Error("member service init failed", "error", err)
		os.Exit(1)
	}

	engine, err := attendanceservice.New(eventService, recordStore,
		attendanceservice.WithLogger(log),
		attendanceservice.WithMetrics(attendancemetrics.New()),
		attendanceservice.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		log.Error("reconciliation engine init failed", "error", err)
		os.Exit(1)
	}

	tokens := jwttoken.New(cfg.JWTSigningKey)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(requestid.Middleware)
	router.Use(requesttime.Middleware)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := conn.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	organizer.New(cfg.OrganizerUser, cfg.OrganizerPasswordHash, tokens, log).Register(router)

	// Kiosk routes stay open; the optional middleware lets the manual
	// member-reference path recognize an organizer token when one is sent.
	router.Group(func(r chi.Router) {
		r.Use(auth.OptionalOrganizer(tokens))
		attendancehandler.New(engine, verifier, memberService, log).Register(r)
	})

	events := eventhandler.New(eventService, log)
	events.RegisterPublic(router)
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireOrganizer(tokens, log))
		events.RegisterOrganizer(r)
		memberhandler.New(memberService, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting rollcall", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
