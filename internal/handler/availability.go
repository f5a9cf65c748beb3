package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

// Availability is the host slot administration used by the HTTP layer.
type Availability interface {
	Add(ctx context.Context, req model.AddAvailabilityRequest) (*model.HostAvailability, error)
	ListByHost(ctx context.Context, hostID string) ([]model.HostAvailability, error)
	Delete(ctx context.Context, id string) error
}

// AvailabilityHandler serves the host availability endpoints.
type AvailabilityHandler struct {
	svc Availability
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(svc Availability) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

// Routes mounts the availability endpoints on r.
func (h *AvailabilityHandler) Routes(r chi.Router) {
	r.Route("/host", func(r chi.Router) {
		r.Post("/add-availability", h.Add)
		r.Get("/{hostId}", h.ListByHost)
		r.Delete("/{availabilityId}", h.Delete)
	})
}

// Add handles POST /host/add-availability
func (h *AvailabilityHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.AddAvailabilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	slot, err := h.svc.Add(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

// ListByHost handles GET /host/{hostId}
func (h *AvailabilityHandler) ListByHost(w http.ResponseWriter, r *http.Request) {
	slots, err := h.svc.ListByHost(r.Context(), chi.URLParam(r, "hostId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

// Delete handles DELETE /host/{availabilityId}
func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "availabilityId")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Availability deleted successfully"})
}
