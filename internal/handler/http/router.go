package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/busops/transit-backend-go/internal/handler/http/middleware"
	"github.com/busops/transit-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

type Handlers struct {
	Auth    AuthHandler
	Route   RouteHandler
	Booking BookingHandler
	Staff   StaffHandler
	Salary  SalaryHandler
	Advance AdvanceHandler
	Budget  BudgetHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "transit-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/routes", func(r chi.Router) {
			r.Get("/", h.Route.List)
			r.Get("/{id}", h.Route.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthRequired)
				r.Use(middleware.AdminOnly)
				r.Post("/", h.Route.Create)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			// Guests can book and manage a booking by its reference
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth)
				r.Post("/", h.Booking.Create)
				r.Get("/booked-seats", h.Booking.BookedSeats)
				r.Get("/{id}", h.Booking.Get)
				r.Post("/{id}/cancel", h.Booking.Cancel)
				r.Post("/{id}/receipt", h.Booking.UploadReceipt)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthRequired)
				r.Get("/my", h.Booking.ListMine)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Booking.List)
					r.Patch("/{id}", h.Booking.Update)
					r.Post("/{id}/confirm-payment", h.Booking.ConfirmPayment)
					r.Patch("/{id}/refund", h.Booking.UpdateRefund)
					r.Post("/{id}/approve", h.Booking.ApproveTransfer)
					r.Post("/{id}/reject", h.Booking.RejectTransfer)
					r.Get("/{id}/receipt", h.Booking.DownloadReceipt)
					r.Post("/auto-cancel", h.Booking.AutoCancel)
				})
			})
		})

		// Back office, admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRequired)
			r.Use(middleware.AdminOnly)

			r.Route("/staff", func(r chi.Router) {
				r.Get("/", h.Staff.List)
				r.Post("/", h.Staff.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Staff.Get)
					r.Put("/", h.Staff.Update)
					r.Delete("/", h.Staff.Delete)
					r.Post("/check-in", h.Staff.CheckIn)
					r.Post("/check-out", h.Staff.CheckOut)
					r.Post("/attendance", h.Staff.MarkAttendance)
					r.Get("/attendance-summary", h.Staff.AttendanceSummary)
				})
			})

			r.Route("/salaries", func(r chi.Router) {
				r.Get("/", h.Salary.List)
				r.Post("/", h.Salary.Save)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Salary.Get)
					r.Delete("/", h.Salary.Delete)
					r.Get("/prep", h.Salary.UpdatePrep)
					r.Post("/send-slip", h.Salary.SendSlip)
					r.Get("/slip", h.Salary.DownloadSlip)
					r.Get("/deliveries", h.Salary.Deliveries)
				})
			})

			r.Route("/advances", func(r chi.Router) {
				r.Get("/", h.Advance.List)
				r.Post("/", h.Advance.Create)
				r.Get("/{id}", h.Advance.Get)
				r.Put("/{id}", h.Advance.Update)
				r.Delete("/{id}", h.Advance.Delete)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", h.Budget.ListActive)
				r.Post("/", h.Budget.Create)
				r.Get("/history", h.Budget.History)
				r.Get("/vs-actual", h.Budget.VsActual)
				r.Put("/{id}", h.Budget.Update)
				r.Delete("/{id}", h.Budget.Delete)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", h.Budget.ListExpenses)
				r.Post("/", h.Budget.CreateExpense)
				r.Delete("/{id}", h.Budget.DeleteExpense)
			})
		})
	})
	return r
}
