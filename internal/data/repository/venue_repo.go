package repository

import (
	"context"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VenueRepository interface {
	Create(ctx context.Context, venue *entity.Venue) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Venue, error)
	FindAll(ctx context.Context, limit, offset int, cityFilter *string) ([]*entity.Venue, error)
	CountAll(ctx context.Context, cityFilter *string) (int64, error)
	Update(ctx context.Context, venue *entity.Venue) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type venueRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVenueRepository(db database.PgxIface, log *zap.Logger) VenueRepository {
	return &venueRepository{
		db:  db,
		log: log.With(zap.String("repository", "venue")),
	}
}

func (r *venueRepository) Create(ctx context.Context, venue *entity.Venue) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create venue tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO venues (id, name, description, address, city, lat, lng, sports, pricing_per_hour, owner_id, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = tx.Exec(ctx, query,
		venue.ID,
		venue.Name,
		venue.Description,
		venue.Location.Address,
		venue.Location.City,
		venue.Location.Lat,
		venue.Location.Lng,
		venue.Sports,
		venue.PricingPerHour,
		venue.OwnerID,
		venue.Images,
		venue.CreatedAt,
		venue.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create venue",
			zap.Error(err),
			zap.String("venue_id", venue.ID.String()),
			zap.String("owner_id", venue.OwnerID.String()),
		)
		return fmt.Errorf("create venue %s: %w", venue.ID.String(), err)
	}

	for _, tmpl := range venue.Availability {
		_, err = tx.Exec(ctx,
			`INSERT INTO venue_availability (venue_id, day, start_time, end_time) VALUES ($1, $2, $3, $4)`,
			venue.ID, tmpl.Day, tmpl.StartTime, tmpl.EndTime,
		)
		if err != nil {
			r.log.Error("Failed to create availability template",
				zap.Error(err),
				zap.String("venue_id", venue.ID.String()),
				zap.String("day", tmpl.Day),
			)
			return fmt.Errorf("create availability template %s/%s: %w", venue.ID.String(), tmpl.Day, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *venueRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Venue, error) {
	query := `
		SELECT id, name, description, address, city, lat, lng, sports, pricing_per_hour, owner_id, images, created_at, updated_at
		FROM venues
		WHERE id = $1
	`

	var venue entity.Venue
	err := r.db.QueryRow(ctx, query, id).Scan(
		&venue.ID,
		&venue.Name,
		&venue.Description,
		&venue.Location.Address,
		&venue.Location.City,
		&venue.Location.Lat,
		&venue.Location.Lng,
		&venue.Sports,
		&venue.PricingPerHour,
		&venue.OwnerID,
		&venue.Images,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find venue by ID",
			zap.Error(err),
			zap.String("venue_id", id.String()),
		)
		return nil, fmt.Errorf("find venue by ID %s: %w", id.String(), err)
	}

	if err := r.loadAvailability(ctx, &venue); err != nil {
		return nil, err
	}

	return &venue, nil
}

func (r *venueRepository) loadAvailability(ctx context.Context, venue *entity.Venue) error {
	rows, err := r.db.Query(ctx,
		`SELECT day, start_time, end_time FROM venue_availability WHERE venue_id = $1 ORDER BY array_position(ARRAY['Mon','Tue','Wed','Thu','Fri','Sat','Sun'], day)`,
		venue.ID,
	)
	if err != nil {
		r.log.Error("Failed to load availability templates",
			zap.Error(err),
			zap.String("venue_id", venue.ID.String()),
		)
		return fmt.Errorf("load availability for venue %s: %w", venue.ID.String(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var tmpl entity.AvailabilityTemplate
		if err := rows.Scan(&tmpl.Day, &tmpl.StartTime, &tmpl.EndTime); err != nil {
			return fmt.Errorf("scan availability row: %w", err)
		}
		venue.Availability = append(venue.Availability, tmpl)
	}

	slotRows, err := r.db.Query(ctx,
		`SELECT day, slot FROM venue_booked_slots WHERE venue_id = $1 ORDER BY day, slot`,
		venue.ID,
	)
	if err != nil {
		r.log.Error("Failed to load booked slots",
			zap.Error(err),
			zap.String("venue_id", venue.ID.String()),
		)
		return fmt.Errorf("load booked slots for venue %s: %w", venue.ID.String(), err)
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var bs entity.BookedSlot
		if err := slotRows.Scan(&bs.Day, &bs.Slot); err != nil {
			return fmt.Errorf("scan booked slot row: %w", err)
		}
		venue.BookedSlots = append(venue.BookedSlots, bs)
	}

	return nil
}

func (r *venueRepository) FindAll(ctx context.Context, limit, offset int, cityFilter *string) ([]*entity.Venue, error) {
	query := `
		SELECT id, name, description, address, city, lat, lng, sports, pricing_per_hour, owner_id, images, created_at, updated_at
		FROM venues
	`
	args := []any{}
	if cityFilter != nil {
		query += ` WHERE city ILIKE $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, *cityFilter, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find venues",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find venues: %w", err)
	}
	defer rows.Close()

	var venues []*entity.Venue
	for rows.Next() {
		var venue entity.Venue
		err := rows.Scan(
			&venue.ID,
			&venue.Name,
			&venue.Description,
			&venue.Location.Address,
			&venue.Location.City,
			&venue.Location.Lat,
			&venue.Location.Lng,
			&venue.Sports,
			&venue.PricingPerHour,
			&venue.OwnerID,
			&venue.Images,
			&venue.CreatedAt,
			&venue.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan venue row", zap.Error(err))
			return nil, fmt.Errorf("scan venue row: %w", err)
		}
		venues = append(venues, &venue)
	}

	for _, venue := range venues {
		if err := r.loadAvailability(ctx, venue); err != nil {
			return nil, err
		}
	}

	return venues, nil
}

func (r *venueRepository) CountAll(ctx context.Context, cityFilter *string) (int64, error) {
	var count int64
	var err error
	if cityFilter != nil {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM venues WHERE city ILIKE $1`, *cityFilter).Scan(&count)
	} else {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM venues`).Scan(&count)
	}
	if err != nil {
		r.log.Error("Failed to count venues", zap.Error(err))
		return 0, fmt.Errorf("count venues: %w", err)
	}
	return count, nil
}

func (r *venueRepository) Update(ctx context.Context, venue *entity.Venue) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update venue tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE venues
		SET name = $2, description = $3, address = $4, city = $5, lat = $6, lng = $7,
		    sports = $8, pricing_per_hour = $9, images = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query,
		venue.ID,
		venue.Name,
		venue.Description,
		venue.Location.Address,
		venue.Location.City,
		venue.Location.Lat,
		venue.Location.Lng,
		venue.Sports,
		venue.PricingPerHour,
		venue.Images,
		venue.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update venue",
			zap.Error(err),
			zap.String("venue_id", venue.ID.String()),
		)
		return fmt.Errorf("update venue %s: %w", venue.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue %s not found", venue.ID.String())
	}

	// Replace weekday templates wholesale. Slot labels are derived from the
	// new windows on the next read; booked labels that fall outside the new
	// window are reconciled by the allocator on the next booking attempt.
	if _, err := tx.Exec(ctx, `DELETE FROM venue_availability WHERE venue_id = $1`, venue.ID); err != nil {
		return fmt.Errorf("clear availability for venue %s: %w", venue.ID.String(), err)
	}

	for _, tmpl := range venue.Availability {
		_, err = tx.Exec(ctx,
			`INSERT INTO venue_availability (venue_id, day, start_time, end_time) VALUES ($1, $2, $3, $4)`,
			venue.ID, tmpl.Day, tmpl.StartTime, tmpl.EndTime,
		)
		if err != nil {
			return fmt.Errorf("replace availability template %s/%s: %w", venue.ID.String(), tmpl.Day, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *venueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete venue",
			zap.Error(err),
			zap.String("venue_id", id.String()),
		)
		return fmt.Errorf("delete venue %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue %s not found", id.String())
	}

	r.log.Info("Venue deleted", zap.String("venue_id", id.String()))
	return nil
}
