package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

// Gate is the check-in engine used by the security desk endpoints.
type Gate interface {
	Search(ctx context.Context, term string) (*model.VisitorSearchResult, error)
	CheckIn(ctx context.Context, appointmentID string) (*model.VisitorVerification, error)
	CheckOut(ctx context.Context, appointmentID string) (*model.VisitorVerification, error)
	RecentActivities(ctx context.Context) ([]model.Activity, error)
}

// VerificationHandler serves the security desk endpoints.
type VerificationHandler struct {
	svc Gate
}

// NewVerificationHandler constructs a VerificationHandler.
func NewVerificationHandler(svc Gate) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

// Routes mounts the check-in endpoints on r.
func (h *VerificationHandler) Routes(r chi.Router) {
	r.Route("/verify-visitors", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/activities", h.Activities)
		r.Patch("/{appointmentId}/checkin", h.CheckIn)
		r.Patch("/{appointmentId}/checkout", h.CheckOut)
	})
}

// Search handles GET /verify-visitors/search?term=
func (h *VerificationHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Search(r.Context(), r.URL.Query().Get("term"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CheckIn handles PATCH /verify-visitors/{appointmentId}/checkin
func (h *VerificationHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.CheckIn(r.Context(), chi.URLParam(r, "appointmentId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Visitor checked in successfully", Data: v})
}

// CheckOut handles PATCH /verify-visitors/{appointmentId}/checkout
func (h *VerificationHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.CheckOut(r.Context(), chi.URLParam(r, "appointmentId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Visitor checked out successfully", Data: v})
}

// Activities handles GET /verify-visitors/activities
func (h *VerificationHandler) Activities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.svc.RecentActivities(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}
