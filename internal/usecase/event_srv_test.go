package usecase

import (
	"context"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type eventFixture struct {
	svc      EventService
	bookings BookingService
	gateway  *fakeGateway
	venue    *entity.Venue
	users    *fakeUserRepo
	slots    *fakeSlotRepo
	bookRepo *fakeBookingRepo
	events   *fakeEventRepo
}

func newEventFixture(t *testing.T, pricing int64) *eventFixture {
	t.Helper()

	repo, users, venues, slots, bookRepo, events := newTestRepository()
	gateway := newFakeGateway()
	slotSvc := NewSlotService(repo, zap.NewNop())
	bookingSvc := NewBookingService(repo, gateway, slotSvc, "usd", zap.NewNop())
	svc := NewEventService(repo, bookingSvc, zap.NewNop())

	venue := seedVenue(venues, uuid.New(), pricing,
		entity.AvailabilityTemplate{Day: "Mon", StartTime: "08:00", EndTime: "12:00"},
	)

	return &eventFixture{
		svc:      svc,
		bookings: bookingSvc,
		gateway:  gateway,
		venue:    venue,
		users:    users,
		slots:    slots,
		bookRepo: bookRepo,
		events:   events,
	}
}

func withBookingRequest(venueID uuid.UUID, start, end time.Time) *request.CreateEventWithBookingRequest {
	return &request.CreateEventWithBookingRequest{
		Title:           "Monday badminton",
		SportType:       "badminton",
		SkillLevel:      "intermediate",
		Date:            start.Format("2006-01-02"),
		Time:            start.Format("15:04"),
		MaxParticipants: 4,
		VenueID:         venueID.String(),
		Slot:            request.SlotInput{Start: start, End: end},
	}
}

func TestCreateEventWithBooking(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t, 50)
	organizer := seedUser(f.users, entity.RoleUser, 100)
	f.users.users[f.venue.OwnerID] = &entity.User{
		Base: entity.Base{ID: f.venue.OwnerID},
		Role: entity.RoleVenueOwner,
	}

	result, err := f.svc.CreateEventWithBooking(ctx, organizer, withBookingRequest(f.venue.ID, monday8, monday8.Add(time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusPending, result.Booking.Status)
	assert.Equal(t, "pi_1_secret", result.ClientSecret)
	assert.Equal(t, result.Booking.ID, result.Event.BookingID)
	assert.True(t, result.Event.UserJoined, "organizer joins as first participant")

	// Slot held, booking linked back to the event
	assert.True(t, f.slots.isBooked(f.venue.ID, "Mon", "08:00-09:00"))
	bookingID := uuid.MustParse(result.Booking.ID)
	stored := f.bookRepo.get(bookingID)
	require.NotNil(t, stored.EventID)
	assert.Equal(t, result.Event.ID, stored.EventID.String())

	// 1 hour at 50/hour moved organizer -> owner
	assert.Equal(t, int64(50), f.users.balance(organizer))
	assert.Equal(t, int64(50), f.users.balance(f.venue.OwnerID))
}

func TestCreateEventWithBookingZeroCost(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t, 0)
	organizer := seedUser(f.users, entity.RoleUser, 100)

	result, err := f.svc.CreateEventWithBooking(ctx, organizer, withBookingRequest(f.venue.ID, monday8, monday8.Add(time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusActive, result.Booking.Status)
	assert.Empty(t, result.ClientSecret)
	assert.Zero(t, f.gateway.createIntentCalls)
	assert.Equal(t, int64(100), f.users.balance(organizer), "no balance movement for free venues")
}

func TestCreateEventWithBookingInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t, 50)
	organizer := seedUser(f.users, entity.RoleUser, 10)

	_, err := f.svc.CreateEventWithBooking(ctx, organizer, withBookingRequest(f.venue.ID, monday8, monday8.Add(time.Hour)))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// The balance check runs after the intent and booking exist, so the
	// failure leaves a pending booking holding the slot behind.
	assert.Equal(t, 1, f.gateway.createIntentCalls)
	assert.True(t, f.slots.isBooked(f.venue.ID, "Mon", "08:00-09:00"))

	held, err := f.bookRepo.FindHeldByVenueBetween(ctx, f.venue.ID, monday8, monday8.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, entity.BookingStatusPending, held[0].Status)
	assert.Equal(t, int64(10), f.users.balance(organizer), "no partial debit")
}

func TestCreateEventWithBookingSlotConflict(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t, 0)
	first := seedUser(f.users, entity.RoleUser, 0)
	second := seedUser(f.users, entity.RoleUser, 0)

	_, err := f.svc.CreateEventWithBooking(ctx, first, withBookingRequest(f.venue.ID, monday8, monday8.Add(time.Hour)))
	require.NoError(t, err)

	_, err = f.svc.CreateEventWithBooking(ctx, second, withBookingRequest(f.venue.ID, monday8, monday8.Add(time.Hour)))
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestCreateEventWithBookingUnknownVenue(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t, 0)
	organizer := seedUser(f.users, entity.RoleUser, 0)

	_, err := f.svc.CreateEventWithBooking(ctx, organizer, withBookingRequest(uuid.New(), monday8, monday8.Add(time.Hour)))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.gateway.createIntentCalls)
}

func standaloneRequest(mutate func(*request.CreateEventRequest)) *request.CreateEventRequest {
	req := &request.CreateEventRequest{
		Title:           "Pickup game",
		SportType:       "badminton",
		SkillLevel:      "beginner",
		Date:            "2026-03-02",
		Time:            "09:00",
		MaxParticipants: 4,
	}
	if mutate != nil {
		mutate(req)
	}
	return req
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t, 50)
	organizer := seedUser(f.users, entity.RoleUser, 0)

	t.Run("at a venue", func(t *testing.T) {
		event, err := f.svc.CreateEvent(ctx, organizer, standaloneRequest(func(r *request.CreateEventRequest) {
			r.VenueID = f.venue.ID.String()
		}))
		require.NoError(t, err)
		assert.Equal(t, f.venue.ID.String(), event.VenueID)
		assert.True(t, event.UserJoined)
	})

	t.Run("same venue, date and time conflicts", func(t *testing.T) {
		_, err := f.svc.CreateEvent(ctx, organizer, standaloneRequest(func(r *request.CreateEventRequest) {
			r.VenueID = f.venue.ID.String()
		}))
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("at a custom location", func(t *testing.T) {
		event, err := f.svc.CreateEvent(ctx, organizer, standaloneRequest(func(r *request.CreateEventRequest) {
			r.CustomLocation = "Riverside park"
			r.Time = "10:00"
		}))
		require.NoError(t, err)
		assert.Empty(t, event.VenueID)
		assert.Equal(t, "Riverside park", event.CustomLocation)
	})

	t.Run("venue and custom location are mutually exclusive", func(t *testing.T) {
		_, err := f.svc.CreateEvent(ctx, organizer, standaloneRequest(func(r *request.CreateEventRequest) {
			r.VenueID = f.venue.ID.String()
			r.CustomLocation = "Riverside park"
		}))
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = f.svc.CreateEvent(ctx, organizer, standaloneRequest(nil))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unsupported sport is rejected", func(t *testing.T) {
		_, err := f.svc.CreateEvent(ctx, organizer, standaloneRequest(func(r *request.CreateEventRequest) {
			r.VenueID = f.venue.ID.String()
			r.SportType = "curling"
			r.Time = "11:00"
		}))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("time outside the venue window conflicts", func(t *testing.T) {
		_, err := f.svc.CreateEvent(ctx, organizer, standaloneRequest(func(r *request.CreateEventRequest) {
			r.VenueID = f.venue.ID.String()
			r.Time = "13:00"
		}))
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("closed day conflicts", func(t *testing.T) {
		_, err := f.svc.CreateEvent(ctx, organizer, standaloneRequest(func(r *request.CreateEventRequest) {
			r.VenueID = f.venue.ID.String()
			r.Date = "2026-03-03" // Tuesday, no template
		}))
		assert.ErrorIs(t, err, ErrSlotConflict)
	})
}

func TestJoinAndLeaveEvent(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t, 50)
	organizer := seedUser(f.users, entity.RoleUser, 0)

	resp, err := f.svc.CreateEvent(ctx, organizer, standaloneRequest(func(r *request.CreateEventRequest) {
		r.CustomLocation = "Riverside park"
		r.MaxParticipants = 2
	}))
	require.NoError(t, err)
	eventID := resp.ID

	member := seedUser(f.users, entity.RoleUser, 0)
	late := seedUser(f.users, entity.RoleUser, 0)

	require.NoError(t, f.svc.JoinEvent(ctx, eventID, member))

	t.Run("joining twice is rejected", func(t *testing.T) {
		err := f.svc.JoinEvent(ctx, eventID, member)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("full event rejects joins", func(t *testing.T) {
		err := f.svc.JoinEvent(ctx, eventID, late)
		assert.ErrorIs(t, err, ErrSlotConflict)

		event := f.events.get(uuid.MustParse(eventID))
		assert.Len(t, event.Participants, 2, "participant count stays within the cap")
	})

	t.Run("leaving frees a seat", func(t *testing.T) {
		require.NoError(t, f.svc.LeaveEvent(ctx, eventID, member))
		assert.NoError(t, f.svc.JoinEvent(ctx, eventID, late))
	})

	t.Run("non-participant cannot leave", func(t *testing.T) {
		err := f.svc.LeaveEvent(ctx, eventID, member)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("organizer cannot leave own event", func(t *testing.T) {
		err := f.svc.LeaveEvent(ctx, eventID, organizer)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown event", func(t *testing.T) {
		err := f.svc.JoinEvent(ctx, uuid.NewString(), member)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t, 0)
	organizer := seedUser(f.users, entity.RoleUser, 0)
	f.users.users[f.venue.OwnerID] = &entity.User{
		Base: entity.Base{ID: f.venue.OwnerID},
		Role: entity.RoleVenueOwner,
	}

	result, err := f.svc.CreateEventWithBooking(ctx, organizer, withBookingRequest(f.venue.ID, monday8, monday8.Add(time.Hour)))
	require.NoError(t, err)

	t.Run("only the organizer may delete", func(t *testing.T) {
		stranger := seedUser(f.users, entity.RoleUser, 0)
		err := f.svc.DeleteEvent(ctx, result.Event.ID, stranger)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("delete cancels the linked booking and frees the slot", func(t *testing.T) {
		require.NoError(t, f.svc.DeleteEvent(ctx, result.Event.ID, organizer))

		assert.Nil(t, f.events.get(uuid.MustParse(result.Event.ID)))
		booking := f.bookRepo.get(uuid.MustParse(result.Booking.ID))
		assert.Equal(t, entity.BookingStatusCancelled, booking.Status)
		assert.False(t, f.slots.isBooked(f.venue.ID, "Mon", "08:00-09:00"))
	})
}

func TestGetEvents(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t, 0)
	organizer := seedUser(f.users, entity.RoleUser, 0)
	viewer := seedUser(f.users, entity.RoleUser, 0)

	resp, err := f.svc.CreateEvent(ctx, organizer, standaloneRequest(func(r *request.CreateEventRequest) {
		r.CustomLocation = "Riverside park"
	}))
	require.NoError(t, err)

	t.Run("viewer-aware membership flag", func(t *testing.T) {
		event, err := f.svc.GetEventByID(ctx, viewer, resp.ID)
		require.NoError(t, err)
		assert.False(t, event.UserJoined)

		event, err = f.svc.GetEventByID(ctx, organizer, resp.ID)
		require.NoError(t, err)
		assert.True(t, event.UserJoined)
	})

	t.Run("list", func(t *testing.T) {
		page, err := f.svc.GetAllEvents(ctx, viewer, &request.PaginatedRequest{Page: 1, PerPage: 10})
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, resp.ID, page.Data[0].ID)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := f.svc.GetEventByID(ctx, viewer, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
