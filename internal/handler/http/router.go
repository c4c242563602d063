package http

import (
	"log/slog"
	"os"

	"github.com/cinetrack/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	tilHandler TILHandler,
	employeeHandler EmployeeHandler,
	adminHandler AdminHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "cinetrack-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		// Kiosk endpoints authenticate by PIN or NFC tag, not by JWT. The
		// terminal in the projection booth has no user session. POST for the
		// status check keeps PINs out of query strings and access logs.
		r.Post("/clock", attendanceHandler.Clock)
		r.Post("/clock/status", attendanceHandler.KioskStatus)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/attendance/status/{employeeID}", attendanceHandler.Status)

			r.Route("/til", func(r chi.Router) {
				r.Post("/", tilHandler.Request)
				r.Get("/balance/{employeeID}", tilHandler.Balance)
				r.Get("/employee/{employeeID}", tilHandler.ListByEmployee)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Get("/pending", tilHandler.ListPending)
					r.Post("/{recordID}/approve", tilHandler.Approve)
					r.Post("/{recordID}/reject", tilHandler.Reject)
				})
			})

			// Manager only
			r.Group(func(r chi.Router) {
				r.Use(middleware.ManagerOnly)

				r.Route("/attendance/summaries", func(r chi.Router) {
					r.Get("/", attendanceHandler.ListSummaries)
					r.Post("/", attendanceHandler.ManualEntry)
					r.Put("/{summaryID}", attendanceHandler.ManualEdit)
				})
				r.Get("/attendance/edits", attendanceHandler.ListEdits)

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", employeeHandler.List)
					r.Post("/", employeeHandler.Create)
					r.Get("/{id}", employeeHandler.Get)
					r.Put("/{id}", employeeHandler.Update)
					r.Delete("/{id}", employeeHandler.Deactivate)
				})

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", adminHandler.GetSettings)
					r.Put("/", adminHandler.UpdateSettings)
				})

				r.Get("/email-logs", adminHandler.ListEmailLogs)
			})
		})
	})
	return r
}
