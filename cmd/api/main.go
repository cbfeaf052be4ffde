package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/busops/transit-backend-go/internal/config"
	"github.com/busops/transit-backend-go/internal/domain/maillog"
	appHTTP "github.com/busops/transit-backend-go/internal/handler/http"
	"github.com/busops/transit-backend-go/internal/pkg/clock"
	"github.com/busops/transit-backend-go/internal/pkg/cron"
	"github.com/busops/transit-backend-go/internal/pkg/database"
	"github.com/busops/transit-backend-go/internal/pkg/email"
	"github.com/busops/transit-backend-go/internal/pkg/jwt"
	"github.com/busops/transit-backend-go/internal/pkg/metrics"
	mongoClient "github.com/busops/transit-backend-go/internal/pkg/mongo"
	"github.com/busops/transit-backend-go/internal/pkg/pdf"
	"github.com/busops/transit-backend-go/internal/pkg/storage"
	"github.com/busops/transit-backend-go/internal/repository/mongodb"
	"github.com/busops/transit-backend-go/internal/repository/postgresql"
	advanceService "github.com/busops/transit-backend-go/internal/service/advance"
	serviceAuth "github.com/busops/transit-backend-go/internal/service/auth"
	bookingService "github.com/busops/transit-backend-go/internal/service/booking"
	budgetService "github.com/busops/transit-backend-go/internal/service/budget"
	"github.com/busops/transit-backend-go/internal/service/file"
	routeService "github.com/busops/transit-backend-go/internal/service/route"
	salaryService "github.com/busops/transit-backend-go/internal/service/salary"
	staffService "github.com/busops/transit-backend-go/internal/service/staff"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	// The delivery log is optional; without a Mongo URI attempts are not recorded.
	deliveryRepo := maillog.NewNoopRepository()
	if cfg.Mongo.URI != "" {
		client, err := mongoClient.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return fmt.Errorf("connect to mongo: %w", err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("Failed to disconnect mongo", "error", err)
			}
		}()
		deliveryRepo = mongodb.NewSlipDeliveryRepository(client.Database(cfg.Mongo.Database))
	} else {
		slog.Warn("MONGO_URI not set, slip delivery log disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics("transit", registry)

	clk := clock.New()
	loc := cfg.Location()

	// Repositories
	userRepo := postgresql.NewUserRepository(db)
	routeRepo := postgresql.NewRouteRepository(db)
	bookingRepo := postgresql.NewBookingRepository(db)
	staffRepo := postgresql.NewStaffRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	budgetRepo := postgresql.NewBudgetRepository(db)
	expenseRepo := postgresql.NewExpenseRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return err
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		return fmt.Errorf("initialize local storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage, cfg.Storage.MaxReceiptSize)

	if cfg.SMTP.Host == "" {
		slog.Warn("SMTP_HOST not set, salary slips cannot be emailed")
	}
	mailer, err := email.NewSlipMailer(cfg.SMTP, cfg.App.CompanyName)
	if err != nil {
		return err
	}
	renderer := pdf.NewSlipRenderer(cfg.App.CompanyName)

	// Services
	authSvc := serviceAuth.NewAuthService(userRepo, JWTService)
	routeSvc := routeService.NewRouteService(routeRepo)
	bookingSvc := bookingService.NewBookingService(bookingRepo, routeRepo, fileService, clk, appMetrics)
	staffSvc := staffService.NewStaffService(staffRepo, attendanceRepo, clk, loc)
	salarySvc := salaryService.NewSalaryService(salaryRepo, staffRepo, attendanceRepo, renderer, mailer, deliveryRepo, clk, appMetrics)
	advanceSvc := advanceService.NewAdvanceService(advanceRepo, staffRepo, clk, loc)
	budgetSvc := budgetService.NewBudgetService(budgetRepo, expenseRepo, clk, loc)

	// Scheduler
	scheduler := cron.NewScheduler()
	cron.NewBookingJobs(bookingSvc, cfg.Booking.SweepInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		LogLevel:       level,
		AllowedOrigins: cfg.App.AllowedOrigins,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, JWTService, appHTTP.Handlers{
		Auth:    appHTTP.NewAuthHandler(authSvc),
		Route:   appHTTP.NewRouteHandler(routeSvc),
		Booking: appHTTP.NewBookingHandler(bookingSvc, cfg.Storage.MaxReceiptSize),
		Staff:   appHTTP.NewStaffHandler(staffSvc),
		Salary:  appHTTP.NewSalaryHandler(salarySvc),
		Advance: appHTTP.NewAdvanceHandler(advanceSvc),
		Budget:  appHTTP.NewBudgetHandler(budgetSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
