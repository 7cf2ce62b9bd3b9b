package repository

import (
	"context"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VenueSlotRepository owns the booked-slot index. A {venue, day} pair is an
// arena of hour labels; reservation and release are single conditional
// statements, so two writers racing for the same label never both win.
type VenueSlotRepository interface {
	// Reserve marks a label booked. Returns false when the label is already
	// held by someone else.
	Reserve(ctx context.Context, venueID uuid.UUID, day, slot string) (bool, error)

	// Release frees a booked label. Returns false when the {day, slot} pair
	// is not in the index (already released, or never reserved).
	Release(ctx context.Context, venueID uuid.UUID, day, slot string) (bool, error)

	FindBookedLabels(ctx context.Context, venueID uuid.UUID, day string) ([]string, error)
	FindBookedSlots(ctx context.Context, venueID uuid.UUID) ([]entity.BookedSlot, error)
}

type venueSlotRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVenueSlotRepository(db database.PgxIface, log *zap.Logger) VenueSlotRepository {
	return &venueSlotRepository{
		db:  db,
		log: log.With(zap.String("repository", "venue_slot")),
	}
}

func (r *venueSlotRepository) Reserve(ctx context.Context, venueID uuid.UUID, day, slot string) (bool, error) {
	// UNIQUE(venue_id, day, slot) makes the insert the arbiter: exactly one
	// of two concurrent reservations inserts a row.
	query := `
		INSERT INTO venue_booked_slots (venue_id, day, slot, booked_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (venue_id, day, slot) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query, venueID, day, slot)
	if err != nil {
		r.log.Error("Failed to reserve slot",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
			zap.String("day", day),
			zap.String("slot", slot),
		)
		return false, fmt.Errorf("reserve slot %s/%s for venue %s: %w", day, slot, venueID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *venueSlotRepository) Release(ctx context.Context, venueID uuid.UUID, day, slot string) (bool, error) {
	query := `DELETE FROM venue_booked_slots WHERE venue_id = $1 AND day = $2 AND slot = $3`

	result, err := r.db.Exec(ctx, query, venueID, day, slot)
	if err != nil {
		r.log.Error("Failed to release slot",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
			zap.String("day", day),
			zap.String("slot", slot),
		)
		return false, fmt.Errorf("release slot %s/%s for venue %s: %w", day, slot, venueID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *venueSlotRepository) FindBookedLabels(ctx context.Context, venueID uuid.UUID, day string) ([]string, error) {
	query := `SELECT slot FROM venue_booked_slots WHERE venue_id = $1 AND day = $2 ORDER BY slot`

	rows, err := r.db.Query(ctx, query, venueID, day)
	if err != nil {
		r.log.Error("Failed to find booked labels",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
			zap.String("day", day),
		)
		return nil, fmt.Errorf("find booked labels for venue %s day %s: %w", venueID.String(), day, err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan booked label row: %w", err)
		}
		labels = append(labels, label)
	}

	return labels, nil
}

func (r *venueSlotRepository) FindBookedSlots(ctx context.Context, venueID uuid.UUID) ([]entity.BookedSlot, error) {
	query := `SELECT day, slot FROM venue_booked_slots WHERE venue_id = $1 ORDER BY day, slot`

	rows, err := r.db.Query(ctx, query, venueID)
	if err != nil {
		r.log.Error("Failed to find booked slots",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
		)
		return nil, fmt.Errorf("find booked slots for venue %s: %w", venueID.String(), err)
	}
	defer rows.Close()

	var slots []entity.BookedSlot
	for rows.Next() {
		var bs entity.BookedSlot
		if err := rows.Scan(&bs.Day, &bs.Slot); err != nil {
			return nil, fmt.Errorf("scan booked slot row: %w", err)
		}
		slots = append(slots, bs)
	}

	return slots, nil
}
