package handler

import (
	"errors"
	"net/http"

	"github.com/solotrip/solotrip-go/internal/middleware"
	"github.com/solotrip/solotrip-go/internal/model"
	"github.com/solotrip/solotrip-go/internal/service"
)

// TripHandler handles HTTP requests for trip operations.
type TripHandler struct {
	service   *service.TripService
	validator *Validator
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(svc *service.TripService, v *Validator) *TripHandler {
	return &TripHandler{service: svc, validator: v}
}

// HandleList handles GET /trips requests.
func (h *TripHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	trips, err := h.service.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// HandleGet handles GET /trips/{id} requests.
func (h *TripHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := tripID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	trip, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// HandleCreate handles POST /trips requests. The authenticated user becomes the owner.
func (h *TripHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.TripRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	trip, err := h.service.Create(r.Context(), req.Input(), username)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// HandleUpdate handles PUT /trips/{id} requests.
func (h *TripHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := tripID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	var req model.TripRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	trip, err := h.service.Update(r.Context(), id, req.Input())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// HandleDelete handles DELETE /trips/{id} requests.
func (h *TripHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := tripID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch handles GET /trips/search?destination= requests.
// An empty value matches every trip; only an absent parameter is rejected.
func (h *TripHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("destination") {
		writeJSON(w, http.StatusBadRequest, errorResponse("destination query parameter is required"))
		return
	}

	trips, err := h.service.Search(r.Context(), q.Get("destination"))
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

func (h *TripHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrTripNotFound), errors.Is(err, service.ErrOwnerNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		writeInternalError(w, r, err)
	}
}
