package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/internal/payment"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// CreateBooking holds the slot and persists the record. Zero-cost
	// bookings go straight to active with no gateway call; paid bookings are
	// created pending with a payment intent, and the slot is held
	// optimistically while payment completes. Returns the gateway client
	// secret for paid bookings.
	CreateBooking(ctx context.Context, userID, venueID uuid.UUID, slotStart, slotEnd time.Time, amount int64) (*entity.Booking, string, error)

	// Payment notification handlers. Both are idempotent: duplicate or late
	// deliveries beyond the first have no effect.
	ConfirmSucceeded(ctx context.Context, paymentIntentID string) error
	ConfirmFailed(ctx context.Context, paymentIntentID string) error

	// ConfirmBookingPayment is the client-driven confirm endpoint
	ConfirmBookingPayment(ctx context.Context, bookingID string) error

	CancelBooking(ctx context.Context, bookingID string, requesterID uuid.UUID) error
	CompleteBooking(ctx context.Context, bookingID string) error

	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetAllBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookedSlotsForVenueDate(ctx context.Context, venueID, date string) (*response.BookedSlotsResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	gateway  payment.Gateway
	slots    SlotService
	currency string
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, gateway payment.Gateway, slots SlotService, currency string, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		gateway:  gateway,
		slots:    slots,
		currency: currency,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID, venueID uuid.UUID, slotStart, slotEnd time.Time, amount int64) (*entity.Booking, string, error) {
	if !slotEnd.After(slotStart) {
		return nil, "", fmt.Errorf("slot end must be after start: %w", ErrInvalidInput)
	}
	if amount < 0 {
		return nil, "", fmt.Errorf("negative amount: %w", ErrInvalidInput)
	}

	day := utils.DayAbbrev(slotStart)
	label := utils.SlotLabel(slotStart, slotEnd)

	var intentID, clientSecret string
	if amount > 0 {
		intent, err := s.gateway.CreateIntent(ctx, amount, s.currency)
		if err != nil {
			s.log.Error("Failed to create payment intent",
				zap.Error(err),
				zap.Int64("amount", amount),
			)
			return nil, "", fmt.Errorf("create payment intent: %v: %w", err, ErrPaymentGateway)
		}
		intentID = intent.ID
		clientSecret = intent.ClientSecret
	}

	// Hold the slot before the booking exists. If persisting the booking
	// fails the reservation is compensated below, so neither side is left
	// half-applied.
	if err := s.slots.Reserve(ctx, venueID, day, label); err != nil {
		return nil, "", err
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:          userID,
		VenueID:         venueID,
		SlotStart:       slotStart,
		SlotEnd:         slotEnd,
		Status:          entity.BookingStatusPending,
		PaymentStatus:   entity.PaymentStatusPending,
		PaymentIntentID: intentID,
	}
	if amount == 0 {
		booking.Status = entity.BookingStatusActive
		booking.PaymentStatus = entity.PaymentStatusSucceeded
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		// Compensate the reservation so the slot is not leaked
		if relErr := s.slots.Release(ctx, venueID, day, label); relErr != nil {
			s.log.Error("Failed to release slot after booking create failure",
				zap.Error(relErr),
				zap.String("venue_id", venueID.String()),
				zap.String("slot", label),
			)
		}
		return nil, "", fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("venue_id", venueID.String()),
		zap.String("slot", label),
		zap.Int64("amount", amount),
		zap.String("status", string(booking.Status)),
	)

	return booking, clientSecret, nil
}

func (s *bookingService) ConfirmSucceeded(ctx context.Context, paymentIntentID string) error {
	booking, err := s.repo.Booking.FindByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return fmt.Errorf("confirm succeeded: %w", err)
	}
	if booking == nil {
		// Duplicate or late notification for an unknown intent: not an error
		s.log.Warn("Payment success for unknown intent", zap.String("payment_intent_id", paymentIntentID))
		return nil
	}
	if booking.Status != entity.BookingStatusPending {
		return nil
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusActive, entity.PaymentStatusSucceeded); err != nil {
		return fmt.Errorf("activate booking %s: %w", booking.ID.String(), err)
	}

	s.log.Info("Payment succeeded, booking activated",
		zap.String("booking_id", booking.ID.String()),
		zap.String("payment_intent_id", paymentIntentID),
	)

	return nil
}

func (s *bookingService) ConfirmFailed(ctx context.Context, paymentIntentID string) error {
	booking, err := s.repo.Booking.FindByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return fmt.Errorf("confirm failed: %w", err)
	}
	if booking == nil {
		s.log.Warn("Payment failure for unknown intent", zap.String("payment_intent_id", paymentIntentID))
		return nil
	}
	if booking.Status.IsTerminal() {
		return nil
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled, entity.PaymentStatusFailed); err != nil {
		return fmt.Errorf("cancel booking %s after payment failure: %w", booking.ID.String(), err)
	}

	// The held slot must come back; leaving it booked after a failed payment
	// leaks the slot permanently.
	if err := s.releaseBookingSlot(ctx, booking); err != nil {
		return err
	}

	s.log.Info("Payment failed, booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("payment_intent_id", paymentIntentID),
	)

	return nil
}

func (s *bookingService) ConfirmBookingPayment(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, ErrInvalidInput)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking for confirm: %w", err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	if booking.Status.IsTerminal() {
		return fmt.Errorf("booking %s is %s, cannot confirm: %w", bookingID, booking.Status, ErrInvalidInput)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, id, entity.BookingStatusActive, entity.PaymentStatusSucceeded); err != nil {
		return fmt.Errorf("confirm booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking confirmed", zap.String("booking_id", bookingID))
	return nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string, requesterID uuid.UUID) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, ErrInvalidInput)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking for cancel: %w", err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	if booking.UserID != requesterID {
		return fmt.Errorf("booking %s is not owned by %s: %w", bookingID, requesterID.String(), ErrForbidden)
	}

	if booking.Status.IsTerminal() {
		return fmt.Errorf("booking %s is %s, cannot cancel: %w", bookingID, booking.Status, ErrInvalidInput)
	}

	venue, err := s.repo.Venue.FindByID(ctx, booking.VenueID)
	if err != nil {
		return fmt.Errorf("get venue for cancel: %w", err)
	}
	if venue == nil {
		return fmt.Errorf("venue %s: %w", booking.VenueID.String(), ErrNotFound)
	}

	paymentStatus := booking.PaymentStatus

	if booking.PaymentIntentID != "" {
		// The local payment status can be stale (the webhook may not have
		// arrived yet), so ask the gateway whether the charge really landed.
		wasPaid, err := s.chargeSucceeded(ctx, booking.PaymentIntentID)
		if err != nil {
			return err
		}

		if wasPaid {
			// Any refund failure aborts the whole cancellation: the booking
			// stays untouched and the slot stays held so the caller can retry.
			refund, err := s.gateway.CreateRefund(ctx, booking.PaymentIntentID)
			if err != nil {
				s.log.Error("Refund failed",
					zap.Error(err),
					zap.String("booking_id", bookingID),
					zap.String("payment_intent_id", booking.PaymentIntentID),
				)
				return fmt.Errorf("refund booking %s: %v: %w", bookingID, err, ErrPaymentGateway)
			}

			durationHours := booking.SlotEnd.Sub(booking.SlotStart).Hours()
			amount := int64(math.Round(float64(venue.PricingPerHour) * durationHours))

			if err := s.repo.User.DebitBalanceFloored(ctx, venue.OwnerID, amount); err != nil {
				return fmt.Errorf("debit venue owner for refund: %w", err)
			}
			if err := s.repo.User.CreditBalance(ctx, booking.UserID, amount); err != nil {
				return fmt.Errorf("credit user for refund: %w", err)
			}

			paymentStatus = entity.PaymentStatusRefunded

			s.log.Info("Refund issued",
				zap.String("booking_id", bookingID),
				zap.String("refund_id", refund.ID),
				zap.Int64("amount", amount),
			)
		} else {
			s.log.Warn("Refund skipped: payment was not successful",
				zap.String("booking_id", bookingID),
				zap.String("payment_intent_id", booking.PaymentIntentID),
			)
		}
	}

	if err := s.repo.Booking.UpdateStatus(ctx, id, entity.BookingStatusCancelled, paymentStatus); err != nil {
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	if err := s.releaseBookingSlot(ctx, booking); err != nil {
		return err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("payment_status", string(paymentStatus)),
	)

	return nil
}

func (s *bookingService) CompleteBooking(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, ErrInvalidInput)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking for complete: %w", err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	if booking.Status.IsTerminal() {
		return fmt.Errorf("booking %s is %s, cannot complete: %w", bookingID, booking.Status, ErrInvalidInput)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, id, entity.BookingStatusCompleted, entity.PaymentStatusSucceeded); err != nil {
		return fmt.Errorf("complete booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking marked as completed", zap.String("booking_id", bookingID))
	return nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, ErrInvalidInput)
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetAllBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get all bookings", zap.Error(err))
		return nil, fmt.Errorf("get all bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetBookedSlotsForVenueDate(ctx context.Context, venueID, date string) (*response.BookedSlotsResponse, error) {
	id, err := uuid.Parse(venueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue ID format %s: %w", venueID, ErrInvalidInput)
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %s: %w", date, ErrInvalidInput)
	}

	from := day
	to := day.Add(24*time.Hour - time.Nanosecond)

	bookings, err := s.repo.Booking.FindHeldByVenueBetween(ctx, id, from, to)
	if err != nil {
		return nil, fmt.Errorf("get booked slots: %w", err)
	}

	slots := make([]string, len(bookings))
	for i, booking := range bookings {
		slots[i] = utils.SlotLabel(booking.SlotStart, booking.SlotEnd)
	}

	return &response.BookedSlotsResponse{BookedSlots: slots}, nil
}

// chargeSucceeded asks the gateway whether the intent's charge landed
func (s *bookingService) chargeSucceeded(ctx context.Context, intentID string) (bool, error) {
	intent, err := s.gateway.GetIntent(ctx, intentID)
	if err != nil {
		return false, fmt.Errorf("get payment intent %s: %v: %w", intentID, err, ErrPaymentGateway)
	}

	charges, err := s.gateway.ListCharges(ctx, intentID)
	if err != nil {
		return false, fmt.Errorf("list charges for intent %s: %v: %w", intentID, err, ErrPaymentGateway)
	}

	return intent.Status == payment.StatusSucceeded &&
		len(charges) > 0 &&
		charges[0].Status == payment.StatusSucceeded, nil
}

// releaseBookingSlot frees the label held by a booking. A booking frees its
// slot at most once: an already-released label is a no-op, not an error.
func (s *bookingService) releaseBookingSlot(ctx context.Context, booking *entity.Booking) error {
	day := utils.DayAbbrev(booking.SlotStart)
	label := utils.SlotLabel(booking.SlotStart, booking.SlotEnd)

	err := s.slots.Release(ctx, booking.VenueID, day, label)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSlotNotReserved) {
		s.log.Warn("Slot already released",
			zap.String("booking_id", booking.ID.String()),
			zap.String("slot", label),
		)
		return nil
	}
	return fmt.Errorf("release slot for booking %s: %w", booking.ID.String(), err)
}
