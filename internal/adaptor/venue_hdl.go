package adaptor

import (
	"encoding/json"
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type VenueHandler struct {
	service usecase.VenueService
	log     *zap.Logger
}

func NewVenueHandler(service usecase.VenueService, log *zap.Logger) *VenueHandler {
	return &VenueHandler{
		service: service,
		log:     log.With(zap.String("handler", "venue")),
	}
}

// CreateVenue handles POST /api/venues (venue owners only)
func (h *VenueHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	var req request.CreateVenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	venue, err := h.service.CreateVenue(r.Context(), userID.String(), role, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create venue")
		return
	}

	utils.ResponseCreated(w, "success", venue)
}

// GetVenues handles GET /api/venues (public)
func (h *VenueHandler) GetVenues(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	var cityFilter *string
	if city := query.Get("city"); city != "" {
		cityFilter = &city
	}

	venues, err := h.service.GetVenues(r.Context(), req, cityFilter)
	if err != nil {
		handleServiceError(h.log, w, err, "get venues")
		return
	}

	utils.ResponseSuccess(w, "success", venues)
}

// GetVenueByID handles GET /api/venues/{id} (public)
func (h *VenueHandler) GetVenueByID(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "id")
	if venueID == "" {
		utils.ResponseBadRequest(w, "Venue ID is required", nil)
		return
	}

	venue, err := h.service.GetVenueByID(r.Context(), venueID)
	if err != nil {
		handleServiceError(h.log, w, err, "get venue by ID")
		return
	}

	utils.ResponseSuccess(w, "success", venue)
}

// UpdateVenue handles PUT /api/venues/{id} (owner only)
func (h *VenueHandler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	venueID := chi.URLParam(r, "id")
	if venueID == "" {
		utils.ResponseBadRequest(w, "Venue ID is required", nil)
		return
	}

	var req request.UpdateVenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	venue, err := h.service.UpdateVenue(r.Context(), venueID, userID.String(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update venue")
		return
	}

	utils.ResponseSuccess(w, "success", venue)
}

// DeleteVenue handles DELETE /api/venues/{id} (owner only)
func (h *VenueHandler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	venueID := chi.URLParam(r, "id")
	if venueID == "" {
		utils.ResponseBadRequest(w, "Venue ID is required", nil)
		return
	}

	if err := h.service.DeleteVenue(r.Context(), venueID, userID.String()); err != nil {
		handleServiceError(h.log, w, err, "delete venue")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetFreeSlots handles GET /api/venues/{id}/availability/{day} (public)
func (h *VenueHandler) GetFreeSlots(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "id")
	day := chi.URLParam(r, "day")
	if venueID == "" || day == "" {
		utils.ResponseBadRequest(w, "Venue ID and day are required", nil)
		return
	}

	slots, err := h.service.GetFreeSlotsForDay(r.Context(), venueID, day)
	if err != nil {
		handleServiceError(h.log, w, err, "get free slots")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]any{"day": day, "free_slots": slots})
}
