package response

import (
	"time"

	"venue-booking/internal/data/entity"

	"github.com/google/uuid"
)

type EventResponse struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	SportType       string             `json:"sport_type"`
	SkillLevel      string             `json:"skill_level"`
	Date            string             `json:"date"`
	Time            string             `json:"time"`
	MaxParticipants int                `json:"max_participants"`
	VenueID         string             `json:"venue_id,omitempty"`
	CustomLocation  string             `json:"custom_location,omitempty"`
	BookingID       string             `json:"booking_id,omitempty"`
	OrganizerID     string             `json:"organizer_id"`
	Participants    []string           `json:"participants"`
	Status          entity.EventStatus `json:"status"`
	UserJoined      bool               `json:"user_joined"`
	IsFull          bool               `json:"is_full"`
	CreatedAt       time.Time          `json:"created_at"`
}

func EventToResponse(event *entity.Event, viewer uuid.UUID) EventResponse {
	participants := make([]string, len(event.Participants))
	for i, p := range event.Participants {
		participants[i] = p.String()
	}

	resp := EventResponse{
		ID:              event.ID.String(),
		Title:           event.Title,
		Description:     event.Description,
		SportType:       event.SportType,
		SkillLevel:      event.SkillLevel,
		Date:            event.Date.Format("2006-01-02"),
		Time:            event.Time,
		MaxParticipants: event.MaxParticipants,
		CustomLocation:  event.CustomLocation,
		OrganizerID:     event.OrganizerID.String(),
		Participants:    participants,
		Status:          event.Status,
		UserJoined:      viewer != uuid.Nil && event.HasParticipant(viewer),
		IsFull:          event.IsFull(),
		CreatedAt:       event.CreatedAt,
	}
	if event.VenueID != nil {
		resp.VenueID = event.VenueID.String()
	}
	if event.BookingID != nil {
		resp.BookingID = event.BookingID.String()
	}
	return resp
}

// EventBookingResponse is returned by event-with-booking creation. The client
// secret lets the caller complete payment with the gateway; empty for
// zero-cost bookings.
type EventBookingResponse struct {
	Event        EventResponse   `json:"event"`
	Booking      BookingResponse `json:"booking"`
	ClientSecret string          `json:"client_secret,omitempty"`
}
