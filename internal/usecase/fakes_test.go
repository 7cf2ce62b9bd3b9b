package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/payment"

	"github.com/google/uuid"
)

// In-memory fakes backing the service tests. The conditional operations
// (slot reserve/release, balance debit, participant add) mirror the SQL
// repositories: a single check-and-mutate under one lock.

type slotKey struct {
	venueID uuid.UUID
	day     string
	slot    string
}

type fakeSlotRepo struct {
	mu     sync.Mutex
	booked map[slotKey]bool
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{booked: make(map[slotKey]bool)}
}

func (f *fakeSlotRepo) Reserve(_ context.Context, venueID uuid.UUID, day, slot string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := slotKey{venueID, day, slot}
	if f.booked[key] {
		return false, nil
	}
	f.booked[key] = true
	return true, nil
}

func (f *fakeSlotRepo) Release(_ context.Context, venueID uuid.UUID, day, slot string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := slotKey{venueID, day, slot}
	if !f.booked[key] {
		return false, nil
	}
	delete(f.booked, key)
	return true, nil
}

func (f *fakeSlotRepo) FindBookedLabels(_ context.Context, venueID uuid.UUID, day string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var labels []string
	for key := range f.booked {
		if key.venueID == venueID && key.day == day {
			labels = append(labels, key.slot)
		}
	}
	return labels, nil
}

func (f *fakeSlotRepo) FindBookedSlots(_ context.Context, venueID uuid.UUID) ([]entity.BookedSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var slots []entity.BookedSlot
	for key := range f.booked {
		if key.venueID == venueID {
			slots = append(slots, entity.BookedSlot{Day: key.day, Slot: key.slot})
		}
	}
	return slots, nil
}

func (f *fakeSlotRepo) isBooked(venueID uuid.UUID, day, slot string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.booked[slotKey{venueID, day, slot}]
}

type fakeVenueRepo struct {
	mu     sync.Mutex
	venues map[uuid.UUID]*entity.Venue
}

func newFakeVenueRepo() *fakeVenueRepo {
	return &fakeVenueRepo{venues: make(map[uuid.UUID]*entity.Venue)}
}

func (f *fakeVenueRepo) Create(_ context.Context, venue *entity.Venue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.venues[venue.ID] = venue
	return nil
}

func (f *fakeVenueRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.venues[id], nil
}

func (f *fakeVenueRepo) FindAll(_ context.Context, limit, offset int, _ *string) ([]*entity.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*entity.Venue
	for _, v := range f.venues {
		all = append(all, v)
	}
	return all, nil
}

func (f *fakeVenueRepo) CountAll(_ context.Context, _ *string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.venues)), nil
}

func (f *fakeVenueRepo) Update(_ context.Context, venue *entity.Venue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.venues[venue.ID] = venue
	return nil
}

func (f *fakeVenueRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.venues, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserRepo) CreditBalance(_ context.Context, id uuid.UUID, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	user.Balance += amount
	return nil
}

func (f *fakeUserRepo) DebitBalance(_ context.Context, id uuid.UUID, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok || user.Balance < amount {
		return fmt.Errorf("user %s has insufficient balance", id.String())
	}
	user.Balance -= amount
	return nil
}

func (f *fakeUserRepo) DebitBalanceFloored(_ context.Context, id uuid.UUID, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	user.Balance -= amount
	if user.Balance < 0 {
		user.Balance = 0
	}
	return nil
}

func (f *fakeUserRepo) balance(id uuid.UUID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id].Balance
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking

	failCreate bool
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("storage unavailable")
	}
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingRepo) FindByPaymentIntentID(_ context.Context, intentID string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.PaymentIntentID == intentID {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Booking
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			copied := *booking
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Booking
	for _, booking := range f.bookings {
		copied := *booking
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) CountAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.bookings)), nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) FindHeldByVenueBetween(_ context.Context, venueID uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Booking
	for _, booking := range f.bookings {
		if booking.VenueID != venueID {
			continue
		}
		if booking.Status != entity.BookingStatusPending && booking.Status != entity.BookingStatusActive {
			continue
		}
		if booking.SlotStart.Before(from) || booking.SlotStart.After(to) {
			continue
		}
		copied := *booking
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, bookingID uuid.UUID, status entity.BookingStatus, paymentStatus entity.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}
	booking.Status = status
	booking.PaymentStatus = paymentStatus
	return nil
}

func (f *fakeBookingRepo) SetEventID(_ context.Context, bookingID, eventID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}
	booking.EventID = &eventID
	return nil
}

func (f *fakeBookingRepo) get(id uuid.UUID) *entity.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking := f.bookings[id]
	if booking == nil {
		return nil
	}
	copied := *booking
	return &copied
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*entity.Event)}
}

func (f *fakeEventRepo) Create(_ context.Context, event *entity.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Event
	for _, event := range f.events {
		copied := *event
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeEventRepo) CountAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.events)), nil
}

func (f *fakeEventRepo) FindByVenueDateTime(_ context.Context, venueID uuid.UUID, date time.Time, timeStr string) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, event := range f.events {
		if event.VenueID != nil && *event.VenueID == venueID && event.Date.Equal(date) && event.Time == timeStr {
			copied := *event
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return fmt.Errorf("event %s not found", id.String())
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) AddParticipant(_ context.Context, eventID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return false, nil
	}
	for _, p := range event.Participants {
		if p == userID {
			return false, nil
		}
	}
	if len(event.Participants) >= event.MaxParticipants {
		return false, nil
	}
	event.Participants = append(event.Participants, userID)
	return true, nil
}

func (f *fakeEventRepo) RemoveParticipant(_ context.Context, eventID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return false, nil
	}
	for i, p := range event.Participants {
		if p == userID {
			event.Participants = append(event.Participants[:i], event.Participants[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEventRepo) get(id uuid.UUID) *entity.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	event := f.events[id]
	if event == nil {
		return nil
	}
	copied := *event
	return &copied
}

type fakeSessionRepo struct{}

func (fakeSessionRepo) FindValidSession(context.Context, string) (*entity.Session, error) {
	return nil, nil
}

// fakeGateway records calls and serves canned intent/charge/refund state.
type fakeGateway struct {
	mu sync.Mutex

	createIntentCalls int
	refundCalls       int

	intentStatus string
	chargeStatus string
	hasCharge    bool

	failCreateIntent bool
	failRefund       bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		intentStatus: payment.StatusSucceeded,
		chargeStatus: payment.StatusSucceeded,
		hasCharge:    true,
	}
}

func (f *fakeGateway) CreateIntent(_ context.Context, amount int64, currency string) (*payment.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createIntentCalls++
	if f.failCreateIntent {
		return nil, errors.New("gateway returned 500")
	}
	id := fmt.Sprintf("pi_%d", f.createIntentCalls)
	return &payment.Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
	}, nil
}

func (f *fakeGateway) GetIntent(_ context.Context, id string) (*payment.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &payment.Intent{ID: id, Status: f.intentStatus}, nil
}

func (f *fakeGateway) ListCharges(_ context.Context, intentID string) ([]payment.Charge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasCharge {
		return nil, nil
	}
	return []payment.Charge{{ID: "ch_1", Status: f.chargeStatus}}, nil
}

func (f *fakeGateway) CreateRefund(_ context.Context, intentID string) (*payment.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRefund {
		return nil, errors.New("gateway returned 500")
	}
	f.refundCalls++
	return &payment.Refund{ID: "re_1", Status: payment.StatusSucceeded}, nil
}

func newTestRepository() (*repository.Repository, *fakeUserRepo, *fakeVenueRepo, *fakeSlotRepo, *fakeBookingRepo, *fakeEventRepo) {
	users := newFakeUserRepo()
	venues := newFakeVenueRepo()
	slots := newFakeSlotRepo()
	bookings := newFakeBookingRepo()
	events := newFakeEventRepo()

	repo := &repository.Repository{
		User:      users,
		Session:   fakeSessionRepo{},
		Venue:     venues,
		VenueSlot: slots,
		Booking:   bookings,
		Event:     events,
	}
	return repo, users, venues, slots, bookings, events
}
