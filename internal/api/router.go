package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/alexmed/clinic-booking/internal/booking"
	"github.com/alexmed/clinic-booking/internal/directory"
	"github.com/alexmed/clinic-booking/internal/notification"
	"github.com/alexmed/clinic-booking/internal/schedule"
)

type RouterConfig struct {
	Bookings      *booking.Service
	Schedules     *schedule.Service
	Slots         *schedule.Generator
	Directory     *directory.Service
	Notifications notification.Store
	PgPool        *pgxpool.Pool
	Redis         *redis.Client
	JWTSecret     string
	TimeZone      *time.Location
	Env           string
	Version       string
	Logger        zerolog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version, cfg.Logger)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Public discovery
	r.Get("/doctors", listDoctorsHandler(cfg.Directory))
	r.Get("/doctors/{id}/slots", doctorSlotsHandler(cfg.Slots, cfg.TimeZone))
	r.Get("/clinics", listClinicsHandler(cfg.Directory))

	// Authenticated surface
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.JWTSecret))

		r.With(RequireRole(directory.RolePatient)).
			Post("/appointments", bookAppointmentHandler(cfg.Bookings))
		r.Get("/appointments", listAppointmentsHandler(cfg.Bookings, cfg.TimeZone))
		r.Get("/appointments/{id}", getAppointmentHandler(cfg.Bookings))
		r.With(RequireRole(directory.RolePatient, directory.RoleDoctor)).
			Post("/appointments/{id}/status", transitionAppointmentHandler(cfg.Bookings))

		r.Route("/schedule/windows", func(r chi.Router) {
			r.Use(RequireRole(directory.RoleDoctor))
			r.Post("/", createWindowHandler(cfg.Schedules))
			r.Post("/batch", createWeekHandler(cfg.Schedules))
			r.Get("/", listWindowsHandler(cfg.Schedules))
			r.Patch("/{id}", updateWindowHandler(cfg.Schedules))
			r.Delete("/{id}", deleteWindowHandler(cfg.Schedules))
		})

		r.Route("/my/clinics", func(r chi.Router) {
			r.Use(RequireRole(directory.RoleDoctor))
			r.Get("/", listMyClinicsHandler(cfg.Directory))
			r.Post("/", addMyClinicHandler(cfg.Directory))
			r.Patch("/{clinicId}", updateMyClinicHandler(cfg.Directory))
		})

		r.Get("/notifications", listNotificationsHandler(cfg.Notifications))
		r.Post("/notifications/{id}/read", markNotificationReadHandler(cfg.Notifications))
		r.Post("/notifications/read-all", markAllNotificationsReadHandler(cfg.Notifications))
	})

	return r
}
