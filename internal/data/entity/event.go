package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

type Event struct {
	Base
	Title           string      `db:"title"`
	Description     string      `db:"description"`
	SportType       string      `db:"sport_type"`
	SkillLevel      string      `db:"skill_level"`
	Date            time.Time   `db:"date"`
	Time            string      `db:"time"` // "HH:MM"
	MaxParticipants int         `db:"max_participants"`
	VenueID         *uuid.UUID  `db:"venue_id"`
	CustomLocation  string      `db:"custom_location"`
	BookingID       *uuid.UUID  `db:"booking_id"`
	OrganizerID     uuid.UUID   `db:"organizer_id"`
	CreatedBy       uuid.UUID   `db:"created_by"`
	Participants    []uuid.UUID `db:"participants"`
	Status          EventStatus `db:"status"`
}

// HasParticipant checks membership in the participants list
func (e *Event) HasParticipant(userID uuid.UUID) bool {
	for _, p := range e.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the participant cap is reached
func (e *Event) IsFull() bool {
	return len(e.Participants) >= e.MaxParticipants
}
