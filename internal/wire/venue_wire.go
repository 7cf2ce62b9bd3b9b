package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireVenue(
	r chi.Router,
	venueHandler *adaptor.VenueHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================

	// GET /api/venues - Browse venues with optional ?city= filter
	r.Get("/api/venues", venueHandler.GetVenues)

	// GET /api/venues/{id} - Venue details with derived free slots
	r.Get("/api/venues/{id}", venueHandler.GetVenueByID)

	// GET /api/venues/{id}/availability/{day} - Free slot labels for a day
	r.Get("/api/venues/{id}/availability/{day}", venueHandler.GetFreeSlots)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/venues - Create venue (venue owners only)
		r.Post("/api/venues", venueHandler.CreateVenue)

		// PUT /api/venues/{id} - Update own venue
		r.Put("/api/venues/{id}", venueHandler.UpdateVenue)

		// DELETE /api/venues/{id} - Delete own venue
		r.Delete("/api/venues/{id}", venueHandler.DeleteVenue)
	})
}
