package usecase

import (
	"venue-booking/internal/data/repository"
	"venue-booking/internal/payment"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

// Service bundles the use case layer for wiring.
type Service struct {
	Venue   VenueService
	Slot    SlotService
	Booking BookingService
	Event   EventService
}

func NewService(repo *repository.Repository, gateway payment.Gateway, config *utils.Config, log *zap.Logger) *Service {
	slot := NewSlotService(repo, log)
	booking := NewBookingService(repo, gateway, slot, config.Payment.Currency, log)

	return &Service{
		Venue:   NewVenueService(repo, slot, log),
		Slot:    slot,
		Booking: booking,
		Event:   NewEventService(repo, booking, log),
	}
}
