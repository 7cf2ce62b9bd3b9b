package usecase

import (
	"context"
	"fmt"

	"venue-booking/internal/data/repository"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SlotService decides slot feasibility and applies the reversible
// book/release transition. Matching is exact string equality on the
// canonical "HH:MM-HH:MM" label; a request spanning several hour labels is a
// conflict, never composed from multiple slots.
type SlotService interface {
	Reserve(ctx context.Context, venueID uuid.UUID, day, label string) error
	Release(ctx context.Context, venueID uuid.UUID, day, label string) error
	FreeSlotsForDay(ctx context.Context, venueID uuid.UUID, day string) ([]string, error)
}

type slotService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewSlotService(repo *repository.Repository, log *zap.Logger) SlotService {
	return &slotService{
		repo: repo,
		log:  log.With(zap.String("service", "slot")),
	}
}

func (s *slotService) Reserve(ctx context.Context, venueID uuid.UUID, day, label string) error {
	if !utils.IsValidDay(day) {
		return fmt.Errorf("day %q: %w", day, ErrInvalidInput)
	}

	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		return fmt.Errorf("load venue for reserve: %w", err)
	}
	if venue == nil {
		return fmt.Errorf("venue %s: %w", venueID.String(), ErrNotFound)
	}

	// The label must sit on the day's hour grid. Days without a template and
	// labels outside the window are conflicts, same as already-booked labels.
	tmpl := venue.TemplateForDay(day)
	if tmpl == nil {
		return fmt.Errorf("venue %s has no template for %s: %w", venueID.String(), day, ErrSlotConflict)
	}
	if !containsLabel(utils.ExpandTimeSlots(tmpl.StartTime, tmpl.EndTime), label) {
		return fmt.Errorf("label %s outside %s window: %w", label, day, ErrSlotConflict)
	}

	// Conditional insert is the arbiter between concurrent reservations
	reserved, err := s.repo.VenueSlot.Reserve(ctx, venueID, day, label)
	if err != nil {
		return fmt.Errorf("reserve slot: %w", err)
	}
	if !reserved {
		return fmt.Errorf("slot %s/%s already booked: %w", day, label, ErrSlotConflict)
	}

	s.log.Info("Slot reserved",
		zap.String("venue_id", venueID.String()),
		zap.String("day", day),
		zap.String("slot", label),
	)

	return nil
}

func (s *slotService) Release(ctx context.Context, venueID uuid.UUID, day, label string) error {
	released, err := s.repo.VenueSlot.Release(ctx, venueID, day, label)
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	if !released {
		return fmt.Errorf("slot %s/%s: %w", day, label, ErrSlotNotReserved)
	}

	// If the owner removed the day's template in the meantime, the label is
	// silently dropped from the free view rather than resurrecting the day:
	// the offerable list is derived from the current templates only.
	s.log.Info("Slot released",
		zap.String("venue_id", venueID.String()),
		zap.String("day", day),
		zap.String("slot", label),
	)

	return nil
}

func (s *slotService) FreeSlotsForDay(ctx context.Context, venueID uuid.UUID, day string) ([]string, error) {
	if !utils.IsValidDay(day) {
		return nil, fmt.Errorf("day %q: %w", day, ErrInvalidInput)
	}

	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("load venue for free slots: %w", err)
	}
	if venue == nil {
		return nil, fmt.Errorf("venue %s: %w", venueID.String(), ErrNotFound)
	}

	tmpl := venue.TemplateForDay(day)
	if tmpl == nil {
		return nil, nil
	}

	// Recompute against the booked index instead of trusting any stored
	// complement, so the two views cannot drift.
	booked, err := s.repo.VenueSlot.FindBookedLabels(ctx, venueID, day)
	if err != nil {
		return nil, fmt.Errorf("load booked labels: %w", err)
	}

	var free []string
	for _, label := range utils.ExpandTimeSlots(tmpl.StartTime, tmpl.EndTime) {
		if !containsLabel(booked, label) {
			free = append(free, label)
		}
	}

	return free, nil
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
