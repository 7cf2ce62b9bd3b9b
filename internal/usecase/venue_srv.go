package usecase

import (
	"context"
	"fmt"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VenueService interface {
	CreateVenue(ctx context.Context, userID string, role string, req *request.CreateVenueRequest) (*response.VenueResponse, error)
	GetVenues(ctx context.Context, req *request.PaginatedRequest, cityFilter *string) (*response.PaginatedResponse[response.VenueResponse], error)
	GetVenueByID(ctx context.Context, venueID string) (*response.VenueResponse, error)
	UpdateVenue(ctx context.Context, venueID, userID string, req *request.UpdateVenueRequest) (*response.VenueResponse, error)
	DeleteVenue(ctx context.Context, venueID, userID string) error
	GetFreeSlotsForDay(ctx context.Context, venueID, day string) ([]string, error)
}

type venueService struct {
	repo  *repository.Repository
	slots SlotService
	log   *zap.Logger
}

func NewVenueService(repo *repository.Repository, slots SlotService, log *zap.Logger) VenueService {
	return &venueService{
		repo:  repo,
		slots: slots,
		log:   log.With(zap.String("service", "venue")),
	}
}

func (s *venueService) CreateVenue(ctx context.Context, userID string, role string, req *request.CreateVenueRequest) (*response.VenueResponse, error) {
	if role != entity.RoleVenueOwner {
		return nil, fmt.Errorf("only venue owners can create venues: %w", ErrForbidden)
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create venue validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), ErrInvalidInput)
	}

	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, ErrInvalidInput)
	}

	availability, err := templatesFromInput(req.Availability)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	venue := &entity.Venue{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Description: req.Description,
		Location: entity.Location{
			Address: req.Location.Address,
			City:    req.Location.City,
			Lat:     req.Location.Lat,
			Lng:     req.Location.Lng,
		},
		Sports:         req.Sports,
		PricingPerHour: req.PricingPerHour,
		OwnerID:        ownerID,
		Images:         req.Images,
		Availability:   availability,
	}

	if err := s.repo.Venue.Create(ctx, venue); err != nil {
		s.log.Error("Failed to create venue",
			zap.Error(err),
			zap.String("owner_id", userID),
		)
		return nil, fmt.Errorf("create venue: %w", err)
	}

	s.log.Info("Venue created",
		zap.String("venue_id", venue.ID.String()),
		zap.String("owner_id", userID),
		zap.Int("template_days", len(venue.Availability)),
	)

	resp := response.VenueToResponse(venue)
	return &resp, nil
}

func (s *venueService) GetVenues(ctx context.Context, req *request.PaginatedRequest, cityFilter *string) (*response.PaginatedResponse[response.VenueResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	venues, err := s.repo.Venue.FindAll(ctx, limit, offset, cityFilter)
	if err != nil {
		s.log.Error("Failed to get venues",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get venues: %w", err)
	}

	total, err := s.repo.Venue.CountAll(ctx, cityFilter)
	if err != nil {
		s.log.Error("Failed to count venues", zap.Error(err))
		return nil, fmt.Errorf("count venues: %w", err)
	}

	venueResponses := make([]response.VenueResponse, len(venues))
	for i, venue := range venues {
		venueResponses[i] = response.VenueToResponse(venue)
	}

	s.log.Info("Venues retrieved",
		zap.Int("count", len(venues)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
	)

	return response.NewPaginatedResponse(venueResponses, req.Page, req.PerPage, total), nil
}

func (s *venueService) GetVenueByID(ctx context.Context, venueID string) (*response.VenueResponse, error) {
	id, err := uuid.Parse(venueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue ID format %s: %w", venueID, ErrInvalidInput)
	}

	venue, err := s.repo.Venue.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	if venue == nil {
		return nil, fmt.Errorf("venue %s: %w", venueID, ErrNotFound)
	}

	resp := response.VenueToResponse(venue)
	return &resp, nil
}

func (s *venueService) UpdateVenue(ctx context.Context, venueID, userID string, req *request.UpdateVenueRequest) (*response.VenueResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update venue validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s: %w", utils.FormatValidationErrors(errs), ErrInvalidInput)
	}

	id, err := uuid.Parse(venueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue ID format %s: %w", venueID, ErrInvalidInput)
	}

	venue, err := s.repo.Venue.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get venue for update: %w", err)
	}
	if venue == nil {
		return nil, fmt.Errorf("venue %s: %w", venueID, ErrNotFound)
	}

	if venue.OwnerID.String() != userID {
		return nil, fmt.Errorf("venue %s is not owned by %s: %w", venueID, userID, ErrForbidden)
	}

	if req.Name != nil {
		venue.Name = *req.Name
	}
	if req.Description != nil {
		venue.Description = *req.Description
	}
	if req.Location != nil {
		venue.Location = entity.Location{
			Address: req.Location.Address,
			City:    req.Location.City,
			Lat:     req.Location.Lat,
			Lng:     req.Location.Lng,
		}
	}
	if req.Sports != nil {
		venue.Sports = req.Sports
	}
	if req.PricingPerHour != nil {
		venue.PricingPerHour = *req.PricingPerHour
	}
	if req.Images != nil {
		venue.Images = req.Images
	}
	if req.Availability != nil {
		// Replacing a day's window re-derives its slot labels on the next
		// read. Booked labels that fall outside the new window stay in the
		// booked index; the allocator rejects matching attempts against the
		// new grid, so they fade out as their bookings end.
		availability, err := templatesFromInput(req.Availability)
		if err != nil {
			return nil, err
		}
		venue.Availability = availability
	}

	venue.UpdatedAt = time.Now()

	if err := s.repo.Venue.Update(ctx, venue); err != nil {
		s.log.Error("Failed to update venue",
			zap.Error(err),
			zap.String("venue_id", venueID),
		)
		return nil, fmt.Errorf("update venue %s: %w", venueID, err)
	}

	s.log.Info("Venue updated", zap.String("venue_id", venueID))

	resp := response.VenueToResponse(venue)
	return &resp, nil
}

func (s *venueService) DeleteVenue(ctx context.Context, venueID, userID string) error {
	id, err := uuid.Parse(venueID)
	if err != nil {
		return fmt.Errorf("invalid venue ID format %s: %w", venueID, ErrInvalidInput)
	}

	venue, err := s.repo.Venue.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get venue for delete: %w", err)
	}
	if venue == nil {
		return fmt.Errorf("venue %s: %w", venueID, ErrNotFound)
	}

	if venue.OwnerID.String() != userID {
		return fmt.Errorf("venue %s is not owned by %s: %w", venueID, userID, ErrForbidden)
	}

	if err := s.repo.Venue.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete venue %s: %w", venueID, err)
	}

	return nil
}

func (s *venueService) GetFreeSlotsForDay(ctx context.Context, venueID, day string) ([]string, error) {
	id, err := uuid.Parse(venueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue ID format %s: %w", venueID, ErrInvalidInput)
	}

	return s.slots.FreeSlotsForDay(ctx, id, day)
}

func templatesFromInput(inputs []request.AvailabilityInput) ([]entity.AvailabilityTemplate, error) {
	templates := make([]entity.AvailabilityTemplate, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))

	for _, in := range inputs {
		if _, dup := seen[in.Day]; dup {
			return nil, fmt.Errorf("duplicate availability day %s: %w", in.Day, ErrInvalidInput)
		}
		seen[in.Day] = struct{}{}

		if len(utils.ExpandTimeSlots(in.StartTime, in.EndTime)) == 0 {
			return nil, fmt.Errorf("window %s-%s on %s yields no bookable slots: %w", in.StartTime, in.EndTime, in.Day, ErrInvalidInput)
		}

		templates = append(templates, entity.AvailabilityTemplate{
			Day:       in.Day,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
		})
	}

	return templates, nil
}
