package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

// Notifications is the in-app notification feed.
type Notifications interface {
	List(ctx context.Context, page, limit int) (*model.NotificationPage, error)
	Latest(ctx context.Context) ([]model.Notification, error)
	SetRead(ctx context.Context, id string, req model.UpdateNotificationRequest) (*model.Notification, error)
	Delete(ctx context.Context, id string) error
}

// NotificationHandler serves the staff notification endpoints.
type NotificationHandler struct {
	svc Notifications
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(svc Notifications) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// Routes mounts the notification endpoints on r.
func (h *NotificationHandler) Routes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/latest", h.Latest)
		r.Patch("/{id}", h.SetRead)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /notifications?page=&limit=
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, http.StatusBadRequest, "page must be a number")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a number")
		return
	}

	result, err := h.svc.List(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Latest handles GET /notifications/latest
func (h *NotificationHandler) Latest(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Latest(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// SetRead handles PATCH /notifications/{id}
func (h *NotificationHandler) SetRead(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateNotificationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	n, err := h.svc.SetRead(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Delete handles DELETE /notifications/{id}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Notification deleted successfully"})
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
