package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireEvent(
	r chi.Router,
	eventHandler *adaptor.EventHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================

	// GET /api/events - Browse events
	r.Get("/api/events", eventHandler.GetAllEvents)

	// GET /api/events/{id} - Event details
	r.Get("/api/events/{id}", eventHandler.GetEventByID)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/events/with-booking - Create event backed by a venue booking
		r.Post("/api/events/with-booking", eventHandler.CreateEventWithBooking)

		// POST /api/events - Create standalone event
		r.Post("/api/events", eventHandler.CreateEvent)

		// POST /api/events/{id}/join - Join as participant
		r.Post("/api/events/{id}/join", eventHandler.JoinEvent)

		// POST /api/events/{id}/leave - Leave event
		r.Post("/api/events/{id}/leave", eventHandler.LeaveEvent)

		// DELETE /api/events/{id} - Delete own event (cancels linked booking)
		r.Delete("/api/events/{id}", eventHandler.DeleteEvent)
	})
}
