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

type EventHandler struct {
	service usecase.EventService
	log     *zap.Logger
}

func NewEventHandler(service usecase.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		log:     log.With(zap.String("handler", "event")),
	}
}

// CreateEventWithBooking handles POST /api/events/with-booking (protected)
func (h *EventHandler) CreateEventWithBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateEventWithBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.CreateEventWithBooking(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create event with booking")
		return
	}

	utils.ResponseCreated(w, "success", result)
}

// CreateEvent handles POST /api/events (protected)
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create event")
		return
	}

	utils.ResponseCreated(w, "success", event)
}

// GetAllEvents handles GET /api/events (public, viewer-aware when authed)
func (h *EventHandler) GetAllEvents(w http.ResponseWriter, r *http.Request) {
	viewer, _ := utils.GetUserIDFromContext(r.Context())

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	events, err := h.service.GetAllEvents(r.Context(), viewer, req)
	if err != nil {
		handleServiceError(h.log, w, err, "get all events")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// GetEventByID handles GET /api/events/{id} (public, viewer-aware when authed)
func (h *EventHandler) GetEventByID(w http.ResponseWriter, r *http.Request) {
	viewer, _ := utils.GetUserIDFromContext(r.Context())

	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	event, err := h.service.GetEventByID(r.Context(), viewer, eventID)
	if err != nil {
		handleServiceError(h.log, w, err, "get event by ID")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// JoinEvent handles POST /api/events/{id}/join (protected)
func (h *EventHandler) JoinEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	if err := h.service.JoinEvent(r.Context(), eventID, userID); err != nil {
		handleServiceError(h.log, w, err, "join event")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// LeaveEvent handles POST /api/events/{id}/leave (protected)
func (h *EventHandler) LeaveEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	if err := h.service.LeaveEvent(r.Context(), eventID, userID); err != nil {
		handleServiceError(h.log, w, err, "leave event")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// DeleteEvent handles DELETE /api/events/{id} (organizer only)
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	if err := h.service.DeleteEvent(r.Context(), eventID, userID); err != nil {
		handleServiceError(h.log, w, err, "delete event")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
