package usecase

import (
	"context"
	"testing"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createVenueRequest(mutate func(*request.CreateVenueRequest)) *request.CreateVenueRequest {
	req := &request.CreateVenueRequest{
		Name:        "Arena One",
		Description: "Indoor courts",
		Location: request.LocationInput{
			Address: "1 Main St",
			City:    "Springfield",
		},
		Sports:         []string{"badminton"},
		PricingPerHour: 50,
		Availability: []request.AvailabilityInput{
			{Day: "Mon", StartTime: "08:00", EndTime: "12:00"},
			{Day: "Wed", StartTime: "10:00", EndTime: "18:00"},
		},
	}
	if mutate != nil {
		mutate(req)
	}
	return req
}

func TestCreateVenue(t *testing.T) {
	ctx := context.Background()
	repo, users, _, _, _, _ := newTestRepository()
	slotSvc := NewSlotService(repo, zap.NewNop())
	svc := NewVenueService(repo, slotSvc, zap.NewNop())

	owner := seedUser(users, entity.RoleVenueOwner, 0)
	regular := seedUser(users, entity.RoleUser, 0)

	t.Run("venue owner can create", func(t *testing.T) {
		venue, err := svc.CreateVenue(ctx, owner.String(), entity.RoleVenueOwner, createVenueRequest(nil))
		require.NoError(t, err)
		assert.Equal(t, "Arena One", venue.Name)

		// Free slots derive from the template
		free, err := svc.GetFreeSlotsForDay(ctx, venue.ID, "Mon")
		require.NoError(t, err)
		assert.Equal(t, []string{"08:00-09:00", "09:00-10:00", "10:00-11:00", "11:00-12:00"}, free)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		_, err := svc.CreateVenue(ctx, regular.String(), entity.RoleUser, createVenueRequest(nil))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("duplicate availability day is rejected", func(t *testing.T) {
		_, err := svc.CreateVenue(ctx, owner.String(), entity.RoleVenueOwner, createVenueRequest(func(r *request.CreateVenueRequest) {
			r.Availability = append(r.Availability, request.AvailabilityInput{Day: "Mon", StartTime: "14:00", EndTime: "16:00"})
		}))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("window without a full hour is rejected", func(t *testing.T) {
		_, err := svc.CreateVenue(ctx, owner.String(), entity.RoleVenueOwner, createVenueRequest(func(r *request.CreateVenueRequest) {
			r.Availability = []request.AvailabilityInput{{Day: "Tue", StartTime: "08:00", EndTime: "08:30"}}
		}))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUpdateVenueOwnership(t *testing.T) {
	ctx := context.Background()
	repo, users, venues, _, _, _ := newTestRepository()
	slotSvc := NewSlotService(repo, zap.NewNop())
	svc := NewVenueService(repo, slotSvc, zap.NewNop())

	owner := seedUser(users, entity.RoleVenueOwner, 0)
	other := seedUser(users, entity.RoleVenueOwner, 0)
	venue := seedVenue(venues, owner, 50,
		entity.AvailabilityTemplate{Day: "Mon", StartTime: "08:00", EndTime: "12:00"},
	)

	t.Run("non-owner cannot update", func(t *testing.T) {
		name := "Taken Over"
		_, err := svc.UpdateVenue(ctx, venue.ID.String(), other.String(), &request.UpdateVenueRequest{Name: &name})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner partial update", func(t *testing.T) {
		pricing := int64(75)
		updated, err := svc.UpdateVenue(ctx, venue.ID.String(), owner.String(), &request.UpdateVenueRequest{PricingPerHour: &pricing})
		require.NoError(t, err)
		assert.Equal(t, int64(75), updated.PricingPerHour)
		assert.Equal(t, "Arena One", updated.Name, "unset fields keep their value")
	})

	t.Run("replacing availability narrows the derived slots", func(t *testing.T) {
		_, err := svc.UpdateVenue(ctx, venue.ID.String(), owner.String(), &request.UpdateVenueRequest{
			Availability: []request.AvailabilityInput{{Day: "Mon", StartTime: "09:00", EndTime: "11:00"}},
		})
		require.NoError(t, err)

		free, err := svc.GetFreeSlotsForDay(ctx, venue.ID.String(), "Mon")
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00-10:00", "10:00-11:00"}, free)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		err := svc.DeleteVenue(ctx, venue.ID.String(), other.String())
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown venue", func(t *testing.T) {
		_, err := svc.GetVenueByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
