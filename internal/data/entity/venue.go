package entity

import (
	"github.com/google/uuid"

	"venue-booking/pkg/utils"
)

// AvailabilityTemplate is one weekday's bookable window. The hour-grid slot
// labels are derived from the window, never stored.
type AvailabilityTemplate struct {
	Day       string `db:"day"`
	StartTime string `db:"start_time"` // "HH:MM"
	EndTime   string `db:"end_time"`   // "HH:MM"
}

// BookedSlot is one reserved label in the venue's booked index.
type BookedSlot struct {
	Day  string `db:"day"`
	Slot string `db:"slot"` // "HH:MM-HH:MM"
}

type Location struct {
	Address string  `db:"address"`
	City    string  `db:"city"`
	Lat     float64 `db:"lat"`
	Lng     float64 `db:"lng"`
}

type Venue struct {
	Base
	Name           string    `db:"name"`
	Description    string    `db:"description"`
	Location       Location  `db:""`
	Sports         []string  `db:"sports"`
	PricingPerHour int64     `db:"pricing_per_hour"` // minor units per hour
	OwnerID        uuid.UUID `db:"owner_id"`
	Images         []string  `db:"images"`

	// Loaded alongside the venue row
	Availability []AvailabilityTemplate
	BookedSlots  []BookedSlot
}

// TemplateForDay returns the weekday template, or nil when the day is closed
func (v *Venue) TemplateForDay(day string) *AvailabilityTemplate {
	for i := range v.Availability {
		if v.Availability[i].Day == day {
			return &v.Availability[i]
		}
	}
	return nil
}

// SupportsSport checks the venue's sport tags
func (v *Venue) SupportsSport(sport string) bool {
	for _, s := range v.Sports {
		if s == sport {
			return true
		}
	}
	return false
}

// FreeSlotsForDay recomputes the offerable labels for a day: the template's
// hour-grid expansion minus every label booked for that day. The booked index
// is the single source of truth; the free list is always derived, so the two
// views cannot drift.
func (v *Venue) FreeSlotsForDay(day string) []string {
	tmpl := v.TemplateForDay(day)
	if tmpl == nil {
		return nil
	}

	booked := make(map[string]struct{}, len(v.BookedSlots))
	for _, bs := range v.BookedSlots {
		if bs.Day == day {
			booked[bs.Slot] = struct{}{}
		}
	}

	var free []string
	for _, label := range utils.ExpandTimeSlots(tmpl.StartTime, tmpl.EndTime) {
		if _, taken := booked[label]; !taken {
			free = append(free, label)
		}
	}
	return free
}
