package repository

import (
	"context"
	"fmt"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Event, error)
	CountAll(ctx context.Context) (int64, error)
	FindByVenueDateTime(ctx context.Context, venueID uuid.UUID, date time.Time, timeStr string) (*entity.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Participant mutations are conditional single statements so the
	// maxParticipants bound holds under concurrent joins.
	AddParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

type eventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventRepository(db database.PgxIface, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

const eventColumns = `id, title, description, sport_type, skill_level, date, time, max_participants, venue_id, custom_location, booking_id, organizer_id, created_by, participants, status, created_at, updated_at`

func scanEvent(row pgx.Row, event *entity.Event) error {
	return row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.SportType,
		&event.SkillLevel,
		&event.Date,
		&event.Time,
		&event.MaxParticipants,
		&event.VenueID,
		&event.CustomLocation,
		&event.BookingID,
		&event.OrganizerID,
		&event.CreatedBy,
		&event.Participants,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.SportType,
		event.SkillLevel,
		event.Date,
		event.Time,
		event.MaxParticipants,
		event.VenueID,
		event.CustomLocation,
		event.BookingID,
		event.OrganizerID,
		event.CreatedBy,
		event.Participants,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create event",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
			zap.String("title", event.Title),
		)
		return fmt.Errorf("create event %s: %w", event.ID.String(), err)
	}

	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := scanEvent(r.db.QueryRow(ctx, query, id), &event)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event by ID",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return nil, fmt.Errorf("find event by ID %s: %w", id.String(), err)
	}

	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY date, time
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find events",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var event entity.Event
		if err := scanEvent(rows, &event); err != nil {
			r.log.Error("Failed to scan event row", zap.Error(err))
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, &event)
	}

	return events, nil
}

func (r *eventRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		r.log.Error("Failed to count events", zap.Error(err))
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

func (r *eventRepository) FindByVenueDateTime(ctx context.Context, venueID uuid.UUID, date time.Time, timeStr string) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE venue_id = $1 AND date = $2 AND time = $3`

	var event entity.Event
	err := scanEvent(r.db.QueryRow(ctx, query, venueID, date, timeStr), &event)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event by venue/date/time",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
		)
		return nil, fmt.Errorf("find event by venue %s date time: %w", venueID.String(), err)
	}

	return &event, nil
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete event",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return fmt.Errorf("delete event %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s not found", id.String())
	}

	r.log.Info("Event deleted", zap.String("event_id", id.String()))
	return nil
}

func (r *eventRepository) AddParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE events
		SET participants = array_append(participants, $2), updated_at = NOW()
		WHERE id = $1
		  AND NOT ($2 = ANY(participants))
		  AND cardinality(participants) < max_participants
	`

	result, err := r.db.Exec(ctx, query, eventID, userID)
	if err != nil {
		r.log.Error("Failed to add participant",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("add participant %s to event %s: %w", userID.String(), eventID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *eventRepository) RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE events
		SET participants = array_remove(participants, $2), updated_at = NOW()
		WHERE id = $1 AND $2 = ANY(participants)
	`

	result, err := r.db.Exec(ctx, query, eventID, userID)
	if err != nil {
		r.log.Error("Failed to remove participant",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("remove participant %s from event %s: %w", userID.String(), eventID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
