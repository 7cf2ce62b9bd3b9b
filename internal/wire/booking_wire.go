package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	webhookHandler *adaptor.WebhookHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================

	// GET /api/bookings/venue/{venueId}/date/{date} - Booked slots for a date
	r.Get("/api/bookings/venue/{venueId}/date/{date}", bookingHandler.GetBookedSlotsByDate)

	// POST /api/payments/webhook - Gateway notifications (signature-verified)
	r.Post("/api/payments/webhook", webhookHandler.HandlePaymentWebhook)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// GET /api/user/bookings - View own booking history
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

		// DELETE /api/bookings/cancel/{id} - Cancel own booking (with refund)
		r.Delete("/api/bookings/cancel/{id}", bookingHandler.CancelBooking)

		// POST /api/bookings/{id}/confirm - Client-driven payment confirm
		r.Post("/api/bookings/{id}/confirm", bookingHandler.ConfirmBookingPayment)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(repo.User, log))

		// GET /api/admin/bookings - List all bookings
		r.Get("/", bookingHandler.GetAllBookings)

		// PUT /api/admin/bookings/{id}/complete - Mark a booking completed
		r.Put("/{id}/complete", bookingHandler.CompleteBooking)
	})
}
