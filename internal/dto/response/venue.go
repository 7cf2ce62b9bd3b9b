package response

import (
	"time"

	"venue-booking/internal/data/entity"
)

type LocationResponse struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// AvailabilityResponse exposes the stored weekday window together with the
// derived offerable labels for that day.
type AvailabilityResponse struct {
	Day       string   `json:"day"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	TimeSlots []string `json:"time_slots"`
}

type BookedSlotResponse struct {
	Day  string `json:"day"`
	Slot string `json:"slot"`
}

type VenueResponse struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description,omitempty"`
	Location       LocationResponse       `json:"location"`
	Sports         []string               `json:"sports"`
	PricingPerHour int64                  `json:"pricing_per_hour"`
	OwnerID        string                 `json:"owner_id"`
	Images         []string               `json:"images,omitempty"`
	Availability   []AvailabilityResponse `json:"availability"`
	BookedSlots    []BookedSlotResponse   `json:"booked_slots"`
	CreatedAt      time.Time              `json:"created_at"`
}

// VenueToResponse derives the free time_slots view per day; the booked index
// is the stored truth.
func VenueToResponse(venue *entity.Venue) VenueResponse {
	availability := make([]AvailabilityResponse, len(venue.Availability))
	for i, tmpl := range venue.Availability {
		availability[i] = AvailabilityResponse{
			Day:       tmpl.Day,
			StartTime: tmpl.StartTime,
			EndTime:   tmpl.EndTime,
			TimeSlots: venue.FreeSlotsForDay(tmpl.Day),
		}
	}

	bookedSlots := make([]BookedSlotResponse, len(venue.BookedSlots))
	for i, bs := range venue.BookedSlots {
		bookedSlots[i] = BookedSlotResponse{Day: bs.Day, Slot: bs.Slot}
	}

	return VenueResponse{
		ID:          venue.ID.String(),
		Name:        venue.Name,
		Description: venue.Description,
		Location: LocationResponse{
			Address: venue.Location.Address,
			City:    venue.Location.City,
			Lat:     venue.Location.Lat,
			Lng:     venue.Location.Lng,
		},
		Sports:         venue.Sports,
		PricingPerHour: venue.PricingPerHour,
		OwnerID:        venue.OwnerID.String(),
		Images:         venue.Images,
		Availability:   availability,
		BookedSlots:    bookedSlots,
		CreatedAt:      venue.CreatedAt,
	}
}
