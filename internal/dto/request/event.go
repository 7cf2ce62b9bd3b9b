package request

import "time"

type SlotInput struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

type CreateEventWithBookingRequest struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description"`
	SportType       string    `json:"sport_type" validate:"required"`
	SkillLevel      string    `json:"skill_level" validate:"required,oneof=beginner intermediate advanced"`
	Date            string    `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string    `json:"time" validate:"required,datetime=15:04"`
	MaxParticipants int       `json:"max_participants" validate:"required,min=1"`
	VenueID         string    `json:"venue_id" validate:"required,uuid4"`
	Slot            SlotInput `json:"slot" validate:"required"`
}

type CreateEventRequest struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	SportType       string `json:"sport_type" validate:"required"`
	SkillLevel      string `json:"skill_level" validate:"required,oneof=beginner intermediate advanced"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" validate:"required,datetime=15:04"`
	MaxParticipants int    `json:"max_participants" validate:"required,min=1"`
	VenueID         string `json:"venue_id,omitempty" validate:"omitempty,uuid4"`
	CustomLocation  string `json:"custom_location,omitempty"`
}
