package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Brandonscs/HealPoint/internal/config"
	"github.com/Brandonscs/HealPoint/internal/domain/audit"
	"github.com/Brandonscs/HealPoint/internal/domain/identity"
	"github.com/Brandonscs/HealPoint/internal/domain/records"
	"github.com/Brandonscs/HealPoint/internal/domain/registry"
	"github.com/Brandonscs/HealPoint/internal/domain/scheduling"
	"github.com/Brandonscs/HealPoint/internal/platform/apperr"
	"github.com/Brandonscs/HealPoint/internal/platform/db"
	"github.com/Brandonscs/HealPoint/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "healpoint-server",
		Short: "HealPoint clinic appointment API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// Logger
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	hours, err := parseBusinessHours(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid business hours")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Repositories
	roleRepo := identity.NewRoleRepoPG(pool)
	userRepo := identity.NewUserRepoPG(pool)
	statusRepo := registry.NewStatusRepoPG(pool)
	doctorRepo := registry.NewDoctorRepoPG(pool)
	patientRepo := registry.NewPatientRepoPG(pool)
	apptRepo := scheduling.NewAppointmentRepoPG(pool)
	windowRepo := scheduling.NewAvailabilityRepoPG(pool)
	recordRepo := records.NewRepoPG(pool)
	auditRepo := audit.NewRepoPG(pool)

	// Audit recorder runs in the background; business operations never wait
	// for it. The actor resolver closes over the identity service assigned
	// below, after the recorder it feeds.
	var identitySvc *identity.Service
	recorder := audit.NewAsyncRecorder(auditRepo, audit.ActorResolverFunc(func(ctx context.Context, id int64) (bool, error) {
		return identitySvc.UserExists(ctx, id)
	}), logger, cfg.AuditBuffer)
	recorderCtx, recorderCancel := context.WithCancel(ctx)
	defer recorderCancel()
	go recorder.Start(recorderCtx)

	// Services
	identitySvc = identity.NewService(userRepo, roleRepo, nil, recorder, cfg.StatusActive, cfg.StatusInactive)
	registrySvc := registry.NewService(statusRepo, doctorRepo, patientRepo, identitySvc, recorder, cfg.StatusActive, cfg.StatusInactive)
	identitySvc.SetStatusDirectory(registrySvc)
	schedulingSvc := scheduling.NewService(apptRepo, windowRepo, registrySvc, registrySvc, registrySvc, recorder, hours, cfg.StatusCancelled)
	recordsSvc := records.NewService(recordRepo, schedulingSvc, recorder)
	auditSvc := audit.NewService(auditRepo)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	// Handlers
	identity.NewHandler(identitySvc).RegisterRoutes(apiV1)
	registry.NewHandler(registrySvc).RegisterRoutes(apiV1)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(apiV1)
	records.NewHandler(recordsSvc).RegisterRoutes(apiV1)
	audit.NewHandler(auditSvc).RegisterRoutes(apiV1)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}

	// Drain queued audit entries before exiting.
	recorderCancel()
	recorder.Wait()
	logger.Info().Msg("server stopped")
	return nil
}

func parseBusinessHours(cfg *config.Config) (scheduling.BusinessHours, error) {
	open, err := scheduling.ParseTimeOfDay(cfg.BusinessOpen)
	if err != nil {
		return scheduling.BusinessHours{}, fmt.Errorf("BUSINESS_OPEN: %w", err)
	}
	closing, err := scheduling.ParseTimeOfDay(cfg.BusinessClose)
	if err != nil {
		return scheduling.BusinessHours{}, fmt.Errorf("BUSINESS_CLOSE: %w", err)
	}
	return scheduling.BusinessHours{Open: open, Close: closing}, nil
}
