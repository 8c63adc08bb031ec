package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medbook/medbook/internal/config"
	"github.com/medbook/medbook/internal/domain/appointment"
	"github.com/medbook/medbook/internal/domain/availability"
	"github.com/medbook/medbook/internal/domain/blockedtime"
	"github.com/medbook/medbook/internal/domain/payment"
	"github.com/medbook/medbook/internal/platform/auth"
	"github.com/medbook/medbook/internal/platform/clock"
	"github.com/medbook/medbook/internal/platform/db"
	"github.com/medbook/medbook/internal/platform/lock"
	"github.com/medbook/medbook/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medbook-server",
		Short: "Medical appointment booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(schedulerCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and the appointment status loop",
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

			_, pool, err := loadConfigAndPool()
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(context.Background())
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

			_, pool, err := loadConfigAndPool()
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(context.Background())
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

func schedulerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Appointment status scheduler",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run-pass",
		Short: "Run a single scheduler pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, pool, err := loadConfigAndPool()
			if err != nil {
				return err
			}
			defer pool.Close()

			apptRepo := appointment.NewAppointmentRepoPG(pool)
			paymentSvc := payment.NewService(payment.NewPaymentRepoPG(pool), apptResolver{},
				payment.NewSimulatedGateway(nil), nil, logger)
			sched := appointment.NewScheduler(apptRepo, paymentSvc, clock.System(),
				cfg.SchedulerInterval, cfg.SchedulerPassTimeout, logger)

			ctx, cancel := context.WithTimeout(context.Background(), cfg.SchedulerPassTimeout)
			defer cancel()
			return sched.RunPass(ctx)
		},
	})

	return cmd
}

func loadConfigAndPool() (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// apptResolver is a stub resolver for the standalone run-pass command,
// which only needs CompleteTransfer and never processes new payments.
type apptResolver struct{}

func (apptResolver) Resolve(ctx context.Context, id uuid.UUID) error { return nil }
func (apptResolver) LinkPayment(ctx context.Context, appointmentID, paymentID uuid.UUID) error {
	return nil
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Per-doctor lock: distributed when redis is configured, otherwise a
	// per-process fallback (single-instance deployments).
	locker := lock.NewLocal()
	if cfg.RedisURL != "" {
		redisClient, err := lock.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		locker = lock.NewRedis(redisClient, cfg.LockTTL)
		logger.Info().Msg("using redis doctor locks")
	} else {
		logger.Warn().Msg("REDIS_URL not set; doctor locks are process-local")
	}

	clk := clock.System()

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware([]byte(cfg.AuthSigningKey)))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	apiV1 := e.Group("/api/v1")

	// -- Domain wiring --

	availRepo := availability.NewSlotRepoPG(pool)
	availSvc := availability.NewService(availRepo)
	availability.NewHandler(availSvc).RegisterRoutes(apiV1)

	apptRepo := appointment.NewAppointmentRepoPG(pool)

	inTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}
	blockedRepo := blockedtime.NewBlockedSlotRepoPG(pool)
	blockedSvc := blockedtime.NewService(blockedRepo, apptRepo, locker, inTx)
	blockedtime.NewHandler(blockedSvc).RegisterRoutes(apiV1)

	apptSvc := appointment.NewService(apptRepo, blockedSvc, clk)
	appointment.NewHandler(apptSvc).RegisterRoutes(apiV1)

	paymentRepo := payment.NewPaymentRepoPG(pool)
	paymentSvc := payment.NewService(paymentRepo, apptSvc, payment.NewSimulatedGateway(clk), clk, logger)
	payment.NewHandler(paymentSvc).RegisterRoutes(apiV1)

	// Status loop: one goroutine per process, stopped with the server.
	sched := appointment.NewScheduler(apptRepo, paymentSvc, clk,
		cfg.SchedulerInterval, cfg.SchedulerPassTimeout, logger)
	go sched.Run(ctx)

	// Serve until the stop signal, then drain.
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
