package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP API. metrics may be nil to leave /metrics
// unmounted.
func NewRouter(events *EventHandler, regs *RegistrationHandler, metrics http.Handler, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(log))
	r.Use(CORS)

	r.Get("/health", HealthCheck)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/events", func(r chi.Router) {
		r.Post("/", events.CreateEvent)
		r.Get("/", events.ListEvents)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", events.GetEvent)
			r.Post("/publish", events.Publish)
			r.Post("/cancel", events.Cancel)
			r.Post("/quote", events.Quote)
			r.Post("/register", regs.Register)
			r.Get("/registrations", events.ListRegistrations)
			r.Post("/refunds/run", events.RunRefunds)

			r.Get("/waitlist", regs.ListWaitlist)
			r.Post("/waitlist", regs.JoinWaitlist)
			r.Post("/waitlist/promote", regs.PromoteNext)
			r.Delete("/waitlist/{userID}", regs.LeaveWaitlist)
		})
	})

	r.Route("/registrations/{id}", func(r chi.Router) {
		r.Get("/", regs.GetRegistration)
		r.Put("/", regs.UpdateRegistration)
		r.Post("/cancel", regs.CancelRegistration)
		r.Post("/payment", regs.CompletePayment)
		r.Post("/payment/failure", regs.FailPayment)
	})

	return r
}
