package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/waliamehak/staff-attendance-portal/internal/config"
	"github.com/waliamehak/staff-attendance-portal/internal/database"
	"github.com/waliamehak/staff-attendance-portal/internal/handlers"
	"github.com/waliamehak/staff-attendance-portal/internal/ingest"
	"github.com/waliamehak/staff-attendance-portal/internal/repository"
	"github.com/waliamehak/staff-attendance-portal/internal/routes"
	"github.com/waliamehak/staff-attendance-portal/internal/session"
	"github.com/waliamehak/staff-attendance-portal/internal/utils"
	"github.com/waliamehak/staff-attendance-portal/internal/websocket"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := utils.InitTokens(utils.TokenConfig{
		Auth0Domain:    cfg.Auth0Domain,
		Auth0Audience:  cfg.Auth0Audience,
		Auth0Namespace: cfg.Auth0Namespace,
		Secret:         cfg.JWTSecret,
	}); err != nil {
		slog.Error("Failed to initialize token verification", "error", err)
		os.Exit(1)
	}

	if err := database.ConnectDB(cfg.MongoURI, cfg.MongoDatabase); err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer database.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(ctx, database.DB); err != nil {
		slog.Warn("index setup failed", "error", err)
	}
	cancel()

	attendance := repository.NewMongoAttendance(database.DB, cfg.DBTimeout)
	staff := repository.NewMongoStaff(database.DB, cfg.DBTimeout)
	uploads := session.NewUploads()
	clock := time.Now
	hub := websocket.NewHub(uploads, attendance, cfg.AdminRole, func(v string) string {
		return ingest.NormalizeMonth(v, clock())
	})

	svc := ingest.NewService(attendance,
		ingest.WithClock(clock),
		ingest.WithStaffResolver(staff),
		ingest.WithNotifier(hub),
		ingest.WithMaxUploadBytes(cfg.MaxUploadBytes),
		ingest.WithLogger(logger),
	)

	r := routes.NewRouter(routes.Deps{
		Attendance:  handlers.NewAttendanceHandler(svc, attendance, cfg.MaxUploadBytes),
		Hub:         hub,
		Uploads:     uploads,
		AdminRole:   cfg.AdminRole,
		DebugRoutes: cfg.DebugRoutes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, gctx := errgroup.WithContext(sigCtx)
	eg.Go(func() error {
		slog.Info("Server running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		database.Disconnect()
		os.Exit(1)
	}
}
