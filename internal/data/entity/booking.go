package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// IsTerminal reports whether no transition may leave the status
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCanceled  PaymentStatus = "canceled"
)

type Booking struct {
	Base
	UserID          uuid.UUID     `db:"user_id"`
	VenueID         uuid.UUID     `db:"venue_id"`
	EventID         *uuid.UUID    `db:"event_id"`
	SlotStart       time.Time     `db:"slot_start"`
	SlotEnd         time.Time     `db:"slot_end"`
	Status          BookingStatus `db:"status"`
	PaymentStatus   PaymentStatus `db:"payment_status"`
	PaymentIntentID string        `db:"payment_intent_id"` // empty for zero-cost bookings
}
