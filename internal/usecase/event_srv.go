package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	// CreateEventWithBooking creates an event backed by a venue booking in one
	// operation. The booking holds the slot; the event links to the booking
	// and the organizer joins as the first participant.
	CreateEventWithBooking(ctx context.Context, userID uuid.UUID, req *request.CreateEventWithBookingRequest) (*response.EventBookingResponse, error)

	// CreateEvent creates a standalone event at a venue or a custom location,
	// without holding a slot.
	CreateEvent(ctx context.Context, userID uuid.UUID, req *request.CreateEventRequest) (*response.EventResponse, error)

	GetAllEvents(ctx context.Context, viewer uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.EventResponse], error)
	GetEventByID(ctx context.Context, viewer uuid.UUID, eventID string) (*response.EventResponse, error)
	JoinEvent(ctx context.Context, eventID string, userID uuid.UUID) error
	LeaveEvent(ctx context.Context, eventID string, userID uuid.UUID) error
	DeleteEvent(ctx context.Context, eventID string, userID uuid.UUID) error
}

type eventService struct {
	repo     *repository.Repository
	bookings BookingService
	log      *zap.Logger
}

func NewEventService(repo *repository.Repository, bookings BookingService, log *zap.Logger) EventService {
	return &eventService{
		repo:     repo,
		bookings: bookings,
		log:      log.With(zap.String("service", "event")),
	}
}

func (s *eventService) CreateEventWithBooking(ctx context.Context, userID uuid.UUID, req *request.CreateEventWithBookingRequest) (*response.EventBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create event with booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), ErrInvalidInput)
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue ID format %s: %w", req.VenueID, ErrInvalidInput)
	}

	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("get venue for event booking: %w", err)
	}
	if venue == nil {
		return nil, fmt.Errorf("venue %s: %w", req.VenueID, ErrNotFound)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %s: %w", req.Date, ErrInvalidInput)
	}

	if !req.Slot.End.After(req.Slot.Start) {
		return nil, fmt.Errorf("slot end must be after start: %w", ErrInvalidInput)
	}

	// Partial hours bill as full hours
	durationHours := int64(math.Ceil(req.Slot.End.Sub(req.Slot.Start).Hours()))
	amount := venue.PricingPerHour * durationHours

	// The booking service holds the slot; it is not reserved again here
	booking, clientSecret, err := s.bookings.CreateBooking(ctx, userID, venueID, req.Slot.Start, req.Slot.End, amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	event := &entity.Event{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:           req.Title,
		Description:     req.Description,
		SportType:       req.SportType,
		SkillLevel:      req.SkillLevel,
		Date:            date,
		Time:            req.Time,
		MaxParticipants: req.MaxParticipants,
		VenueID:         &venueID,
		BookingID:       &booking.ID,
		OrganizerID:     userID,
		CreatedBy:       userID,
		Participants:    []uuid.UUID{userID},
		Status:          entity.EventStatusUpcoming,
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if err := s.repo.Booking.SetEventID(ctx, booking.ID, event.ID); err != nil {
		return nil, fmt.Errorf("link booking to event: %w", err)
	}
	event.BookingID = &booking.ID
	booking.EventID = &event.ID

	if amount > 0 {
		// The balance check runs after the intent and booking already exist.
		// An insufficient balance therefore leaves a pending booking holding
		// the slot; the payment-failure notification or an explicit cancel
		// reclaims it.
		user, err := s.repo.User.FindByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get user for balance check: %w", err)
		}
		if user == nil {
			return nil, fmt.Errorf("user %s: %w", userID.String(), ErrNotFound)
		}
		if user.Balance < amount {
			return nil, fmt.Errorf("balance %d below %d: %w", user.Balance, amount, ErrInsufficientBalance)
		}

		if err := s.repo.User.DebitBalance(ctx, userID, amount); err != nil {
			return nil, fmt.Errorf("debit organizer: %w", err)
		}
		if err := s.repo.User.CreditBalance(ctx, venue.OwnerID, amount); err != nil {
			return nil, fmt.Errorf("credit venue owner: %w", err)
		}
	}

	s.log.Info("Event with booking created",
		zap.String("event_id", event.ID.String()),
		zap.String("booking_id", booking.ID.String()),
		zap.String("venue_id", venueID.String()),
		zap.Int64("amount", amount),
	)

	return &response.EventBookingResponse{
		Event:        response.EventToResponse(event, userID),
		Booking:      response.BookingToResponse(booking),
		ClientSecret: clientSecret,
	}, nil
}

func (s *eventService) CreateEvent(ctx context.Context, userID uuid.UUID, req *request.CreateEventRequest) (*response.EventResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create event validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), ErrInvalidInput)
	}

	if (req.VenueID == "") == (req.CustomLocation == "") {
		return nil, fmt.Errorf("exactly one of venue_id or custom_location is required: %w", ErrInvalidInput)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %s: %w", req.Date, ErrInvalidInput)
	}

	var venueID *uuid.UUID
	if req.VenueID != "" {
		id, err := uuid.Parse(req.VenueID)
		if err != nil {
			return nil, fmt.Errorf("invalid venue ID format %s: %w", req.VenueID, ErrInvalidInput)
		}

		venue, err := s.repo.Venue.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get venue for event: %w", err)
		}
		if venue == nil {
			return nil, fmt.Errorf("venue %s: %w", req.VenueID, ErrNotFound)
		}

		if !venue.SupportsSport(req.SportType) {
			return nil, fmt.Errorf("venue %s does not support %s: %w", req.VenueID, req.SportType, ErrInvalidInput)
		}

		if err := checkVenueWindow(venue, date, req.Time); err != nil {
			return nil, err
		}

		existing, err := s.repo.Event.FindByVenueDateTime(ctx, id, date, req.Time)
		if err != nil {
			return nil, fmt.Errorf("check venue event conflict: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("venue %s already has an event at %s %s: %w", req.VenueID, req.Date, req.Time, ErrSlotConflict)
		}

		venueID = &id
	}

	now := time.Now()
	event := &entity.Event{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:           req.Title,
		Description:     req.Description,
		SportType:       req.SportType,
		SkillLevel:      req.SkillLevel,
		Date:            date,
		Time:            req.Time,
		MaxParticipants: req.MaxParticipants,
		VenueID:         venueID,
		CustomLocation:  req.CustomLocation,
		OrganizerID:     userID,
		CreatedBy:       userID,
		Participants:    []uuid.UUID{userID},
		Status:          entity.EventStatusUpcoming,
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("organizer_id", userID.String()),
	)

	resp := response.EventToResponse(event, userID)
	return &resp, nil
}

func (s *eventService) GetAllEvents(ctx context.Context, viewer uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.EventResponse], error) {
	events, err := s.repo.Event.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get events", zap.Error(err))
		return nil, fmt.Errorf("get events: %w", err)
	}

	total, err := s.repo.Event.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count events", zap.Error(err))
		return nil, fmt.Errorf("count events: %w", err)
	}

	eventResponses := make([]response.EventResponse, len(events))
	for i, event := range events {
		eventResponses[i] = response.EventToResponse(event, viewer)
	}

	return response.NewPaginatedResponse(eventResponses, req.Page, req.PerPage, total), nil
}

func (s *eventService) GetEventByID(ctx context.Context, viewer uuid.UUID, eventID string) (*response.EventResponse, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := response.EventToResponse(event, viewer)
	return &resp, nil
}

func (s *eventService) JoinEvent(ctx context.Context, eventID string, userID uuid.UUID) error {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if event.Status != entity.EventStatusUpcoming {
		return fmt.Errorf("event %s is %s, cannot join: %w", eventID, event.Status, ErrInvalidInput)
	}

	added, err := s.repo.Event.AddParticipant(ctx, event.ID, userID)
	if err != nil {
		return err
	}
	if !added {
		// The conditional update rejected the join: either already a member
		// or the cap is reached
		if event.HasParticipant(userID) {
			return fmt.Errorf("user %s already joined event %s: %w", userID.String(), eventID, ErrInvalidInput)
		}
		return fmt.Errorf("event %s is full: %w", eventID, ErrSlotConflict)
	}

	s.log.Info("Participant joined event",
		zap.String("event_id", eventID),
		zap.String("user_id", userID.String()),
	)

	return nil
}

func (s *eventService) LeaveEvent(ctx context.Context, eventID string, userID uuid.UUID) error {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if event.OrganizerID == userID {
		return fmt.Errorf("organizer cannot leave event %s: %w", eventID, ErrInvalidInput)
	}

	removed, err := s.repo.Event.RemoveParticipant(ctx, event.ID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("user %s is not a participant of event %s: %w", userID.String(), eventID, ErrInvalidInput)
	}

	s.log.Info("Participant left event",
		zap.String("event_id", eventID),
		zap.String("user_id", userID.String()),
	)

	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID string, userID uuid.UUID) error {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if event.OrganizerID != userID {
		return fmt.Errorf("event %s is not organized by %s: %w", eventID, userID.String(), ErrForbidden)
	}

	// A linked live booking is cancelled first so the slot and any payment
	// are reclaimed; a cancel failure aborts the delete.
	if event.BookingID != nil {
		booking, err := s.repo.Booking.FindByID(ctx, *event.BookingID)
		if err != nil {
			return fmt.Errorf("get linked booking: %w", err)
		}
		if booking != nil && !booking.Status.IsTerminal() {
			if err := s.bookings.CancelBooking(ctx, booking.ID.String(), userID); err != nil {
				return err
			}
		}
	}

	if err := s.repo.Event.Delete(ctx, event.ID); err != nil {
		return err
	}

	s.log.Info("Event deleted",
		zap.String("event_id", eventID),
		zap.String("organizer_id", userID.String()),
	)

	return nil
}

func (s *eventService) findEvent(ctx context.Context, eventID string) (*entity.Event, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, ErrInvalidInput)
	}

	event, err := s.repo.Event.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}

	return event, nil
}

// checkVenueWindow verifies the event time falls inside the venue's
// availability window for that weekday.
func checkVenueWindow(venue *entity.Venue, date time.Time, timeStr string) error {
	day := utils.DayAbbrev(date)

	tmpl := venue.TemplateForDay(day)
	if tmpl == nil {
		return fmt.Errorf("venue is closed on %s: %w", day, ErrSlotConflict)
	}

	t, err := utils.ParseClock(timeStr)
	if err != nil {
		return fmt.Errorf("invalid time %s: %w", timeStr, ErrInvalidInput)
	}
	start, err := utils.ParseClock(tmpl.StartTime)
	if err != nil {
		return fmt.Errorf("parse window start: %w", err)
	}
	end, err := utils.ParseClock(tmpl.EndTime)
	if err != nil {
		return fmt.Errorf("parse window end: %w", err)
	}

	if t.Before(start) || !t.Before(end) {
		return fmt.Errorf("time %s outside %s window %s-%s: %w", timeStr, day, tmpl.StartTime, tmpl.EndTime, ErrSlotConflict)
	}

	return nil
}
