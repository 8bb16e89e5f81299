package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nekogravitycat/clinic-booking-backend/internal/auth"
	"github.com/nekogravitycat/clinic-booking-backend/internal/bookingform"
	"github.com/nekogravitycat/clinic-booking-backend/internal/config"
	"github.com/nekogravitycat/clinic-booking-backend/internal/db"
	"github.com/nekogravitycat/clinic-booking-backend/internal/logger"
	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              rt.cfg.HTTPAddr,
		Handler:           rt.container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("server running", zap.String("addr", rt.cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		rt.log.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		rt.log.Error("server forced to shutdown", zap.Error(err))
	}

	rt.log.Info("server exited gracefully")
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DBDSN == "" {
				return errors.New("DB_DSN is required for migrate")
			}

			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}

func slotsCmd() *cobra.Command {
	var doctorID, dateStr string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the free slots of a doctor on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := schedule.ParseDate(dateStr)
			if err != nil {
				return err
			}

			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			day, err := rt.container.AppointmentService.AvailableSlots(cmd.Context(), doctorID, date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s) %s-%s\n", date, date.Weekday(), day.Window.From, day.Window.To)
			if len(day.Slots) == 0 {
				fmt.Fprintln(out, "  no free slots")
			}
			for _, s := range day.Slots {
				fmt.Fprintf(out, "  %s\n", s.Label())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&doctorID, "doctor", "", "Doctor ID")
	cmd.Flags().StringVar(&dateStr, "date", "", "Date as YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("doctor")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func bookCmd() *cobra.Command {
	var apiURL, token, patientID, doctorID, dateStr, slot string

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment through a running API, as the booking form would",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			date, err := schedule.ParseDate(dateStr)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			l, err := logger.New(cfg.IsProduction, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			if token == "" {
				if patientID == "" {
					return errors.New("either --token or --patient is required")
				}
				token, err = auth.NewJWTManager(cfg.JWTSecret, cliTokenTTL).GenerateAccessToken(patientID)
				if err != nil {
					return err
				}
			}

			gen := schedule.NewGenerator(schedule.SystemClock{},
				schedule.WithLocation(cfg.ClinicLocation),
				schedule.WithSkipPolicy(cfg.SlotSkipPolicy),
			)
			form := bookingform.New(
				bookingform.NewClient(apiURL, token, nil),
				gen,
				patientID,
				bookingform.WithHorizon(cfg.BookingHorizon),
				bookingform.WithLogger(l),
			)

			out := cmd.OutOrStdout()
			if err := form.Load(ctx, doctorID); err != nil {
				return errors.New(bookingform.UserMessage(err))
			}
			slots, err := form.SelectDate(ctx, date)
			if err != nil {
				return errors.New(bookingform.UserMessage(err))
			}
			if slot == "" {
				fmt.Fprintf(out, "Free slots on %s:\n", date)
				for _, s := range slots {
					fmt.Fprintf(out, "  %s\n", s.Label())
				}
				return nil
			}
			if err := form.SelectSlot(slot); err != nil {
				return errors.New(bookingform.UserMessage(err))
			}

			redirect, err := form.Submit(ctx)
			if err != nil {
				return errors.New(bookingform.UserMessage(err))
			}
			fmt.Fprintf(out, "Booked. Continue to %s\n", redirect.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "http://localhost:8080", "Base URL of the booking API")
	cmd.Flags().StringVar(&token, "token", "", "Patient bearer token")
	cmd.Flags().StringVar(&patientID, "patient", "", "Patient ID to mint a token for with JWT_SECRET")
	cmd.Flags().StringVar(&doctorID, "doctor", "", "Doctor ID")
	cmd.Flags().StringVar(&dateStr, "date", "", "Date as YYYY-MM-DD")
	cmd.Flags().StringVar(&slot, "slot", "", `Slot label, e.g. "10:00 AM - 11:00 AM"; omit to list free slots`)
	_ = cmd.MarkFlagRequired("doctor")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
