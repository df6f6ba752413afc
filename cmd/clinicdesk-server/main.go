package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"clinicdesk/internal/config"
	"clinicdesk/internal/domain"
	"clinicdesk/internal/notify"
	"clinicdesk/internal/service/booking"
	"clinicdesk/internal/store/csvfile"
	"clinicdesk/internal/transport/rest"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "clinicdesk-server"),
	)
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn(".env load failed", slog.Any("err", err))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "clinicdesk-server"),
	)
	slog.SetDefault(log)

	log.Info("starting", slog.String("http_addr", cfg.HTTPAddr), slog.String("log_level", cfg.LogLevel))

	schedule := domain.Schedule{
		OpeningHour:    cfg.OpeningHour,
		ClosingHour:    cfg.ClosingHour,
		LunchStartHour: cfg.LunchStartHour,
		LunchEndHour:   cfg.LunchEndHour,
		SlotMinutes:    cfg.SlotMinutes,
	}
	if len(domain.GenerateSlots(schedule)) == 0 {
		log.Warn(
			"schedule yields no bookable slots",
			slog.Int("opening_hour", schedule.OpeningHour),
			slog.Int("closing_hour", schedule.ClosingHour),
			slog.Int("slot_minutes", schedule.SlotMinutes),
		)
	}

	repo := csvfile.NewAppointmentRepo(cfg.StorePath)
	svc := booking.NewService(repo, schedule)

	clinic := notify.ClinicInfo{
		Name:       cfg.ClinicName,
		DoctorName: cfg.DoctorName,
		Email:      cfg.ClinicEmail,
		Phone:      cfg.ClinicPhone,
		Website:    cfg.ClinicWebsite,
	}
	notifier := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Username:   cfg.SMTPUsername,
		Password:   cfg.SMTPPassword,
		From:       cfg.MailFrom,
		AdminEmail: cfg.AdminEmail,
	}, clinic)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           rest.NewServer(svc, notifier, clinic, cfg.NotifyTimeout, log).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	log.Info(
		"http server started",
		slog.String("http_addr", cfg.HTTPAddr),
		slog.String("store_path", cfg.StorePath),
	)

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdown(log, server, cfg.ShutdownTimeout)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped with error", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func shutdown(log *slog.Logger, s *http.Server, timeout time.Duration) {
	log.Info("shutting down http server", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Warn("http graceful shutdown timed out; forcing close", slog.Any("err", err))
		_ = s.Close()
		return
	}
	log.Info("http server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
