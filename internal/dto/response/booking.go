package response

import (
	"time"

	"venue-booking/internal/data/entity"
)

type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type BookingResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	VenueID       string               `json:"venue_id"`
	EventID       string               `json:"event_id,omitempty"`
	Slot          SlotResponse         `json:"slot"`
	Status        entity.BookingStatus `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time            `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:      booking.ID.String(),
		UserID:  booking.UserID.String(),
		VenueID: booking.VenueID.String(),
		Slot: SlotResponse{
			Start: booking.SlotStart,
			End:   booking.SlotEnd,
		},
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		CreatedAt:     booking.CreatedAt,
	}
	if booking.EventID != nil {
		resp.EventID = booking.EventID.String()
	}
	return resp
}

// BookedSlotsResponse is the wire shape for availability-by-date queries
type BookedSlotsResponse struct {
	BookedSlots []string `json:"booked_slots"`
}
