package repository

import (
	"venue-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	Session   SessionRepository
	Venue     VenueRepository
	VenueSlot VenueSlotRepository
	Booking   BookingRepository
	Event     EventRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Session:   NewSessionRepository(db, log),
		Venue:     NewVenueRepository(db, log),
		VenueSlot: NewVenueSlotRepository(db, log),
		Booking:   NewBookingRepository(db, log),
		Event:     NewEventRepository(db, log),
	}
}
