package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

// Scheduler is the appointment lifecycle as the HTTP layer sees it.
type Scheduler interface {
	Create(ctx context.Context, req model.CreateAppointmentRequest) (*model.Appointment, error)
	Get(ctx context.Context, ref string) (*model.Appointment, error)
	Respond(ctx context.Context, ref string, req model.RespondRequest) (*model.Appointment, error)
	SelectTimeSlot(ctx context.Context, ref string, req model.SelectTimeSlotRequest) (*model.Appointment, error)
	Confirm(ctx context.Context, ref string) (*model.Appointment, error)
	VisitorReject(ctx context.Context, ref string) (*model.Appointment, error)
	Cancel(ctx context.Context, ref string) (*model.Appointment, error)
	Reschedule(ctx context.Context, ref string, req model.RescheduleRequest) (*model.Appointment, error)
	Delete(ctx context.Context, ref string) error

	AppointmentStatus(ctx context.Context, visitorID string) ([]model.AppointmentView, error)
	AcceptedAppointments(ctx context.Context, visitorID string) ([]model.AppointmentView, error)
	VisitHistory(ctx context.Context, visitorID string) ([]model.AppointmentView, error)
	HostPending(ctx context.Context, hostID string) ([]model.Appointment, error)
	HostConfirmed(ctx context.Context, hostID string) ([]model.Appointment, error)
	HostHistory(ctx context.Context, hostID string) ([]model.Appointment, error)
	HostCount(ctx context.Context, hostID string, status model.AppointmentStatus) (model.AppointmentCount, error)
	Hosts(ctx context.Context) ([]model.HostSummary, error)
}

// AppointmentHandler serves the visitor and host appointment endpoints.
type AppointmentHandler struct {
	svc Scheduler
}

// NewAppointmentHandler constructs an AppointmentHandler.
func NewAppointmentHandler(svc Scheduler) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

// Routes mounts the appointment endpoints on r.
func (h *AppointmentHandler) Routes(r chi.Router) {
	r.Route("/appointment", func(r chi.Router) {
		r.Post("/createAppointment", h.Create)
		r.Put("/selectTimeSlot/{appointmentId}", h.SelectTimeSlot)
		r.Put("/confirmAppointment/{appointmentId}", h.Confirm)
		r.Put("/rejectAppointments/{appointmentId}", h.VisitorReject)
		r.Get("/appointmentStatus/{visitorId}", h.AppointmentStatus)
		r.Get("/acceptedAppointment/{visitorId}", h.AcceptedAppointments)
		r.Get("/visitHistory/{visitorId}", h.VisitHistory)
		r.Get("/gethosts", h.Hosts)
		r.Get("/{appointmentId}", h.Get)
		r.Delete("/{appointmentId}", h.Delete)
	})
	r.Route("/appointments", func(r chi.Router) {
		r.Put("/status/{appointmentId}", h.Respond)
		r.Put("/reschedule/{appointmentId}", h.Reschedule)
		r.Put("/cancel/{appointmentId}", h.Cancel)
		r.Get("/host/{hostId}/pending", h.HostPending)
		r.Get("/host/{hostId}/pending/count", h.hostCount(model.StatusPending))
		r.Get("/host/{hostId}/confirmed", h.HostConfirmed)
		r.Get("/host/{hostId}/confirmed/count", h.hostCount(model.StatusConfirmed))
		r.Get("/host/{hostId}/history", h.HostHistory)
	})
}

// Create handles POST /appointment/createAppointment
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAppointmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	appt, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: "Appointment created successfully", Data: appt})
}

// Get handles GET /appointment/{appointmentId}
// Accepts either the system id or the human appointmentId.
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	appt, err := h.svc.Get(r.Context(), chi.URLParam(r, "appointmentId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// Respond handles PUT /appointments/status/{appointmentId}
func (h *AppointmentHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req model.RespondRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	h.reply(w, r, "Appointment updated successfully", func(ctx context.Context, ref string) (*model.Appointment, error) {
		return h.svc.Respond(ctx, ref, req)
	})
}

// SelectTimeSlot handles PUT /appointment/selectTimeSlot/{appointmentId}
func (h *AppointmentHandler) SelectTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req model.SelectTimeSlotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	h.reply(w, r, "Time slot selected successfully", func(ctx context.Context, ref string) (*model.Appointment, error) {
		return h.svc.SelectTimeSlot(ctx, ref, req)
	})
}

// Confirm handles PUT /appointment/confirmAppointment/{appointmentId}
func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.reply(w, r, "Appointment confirmed successfully", h.svc.Confirm)
}

// VisitorReject handles PUT /appointment/rejectAppointments/{appointmentId}
func (h *AppointmentHandler) VisitorReject(w http.ResponseWriter, r *http.Request) {
	h.reply(w, r, "Appointment rejected successfully", h.svc.VisitorReject)
}

// Cancel handles PUT /appointments/cancel/{appointmentId}
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.reply(w, r, "Appointment cancelled successfully", h.svc.Cancel)
}

// Reschedule handles PUT /appointments/reschedule/{appointmentId}
func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var req model.RescheduleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	h.reply(w, r, "Appointment rescheduled successfully", func(ctx context.Context, ref string) (*model.Appointment, error) {
		return h.svc.Reschedule(ctx, ref, req)
	})
}

// Delete handles DELETE /appointment/{appointmentId}
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "appointmentId")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Appointment deleted successfully"})
}

func (h *AppointmentHandler) reply(w http.ResponseWriter, r *http.Request, msg string,
	op func(ctx context.Context, ref string) (*model.Appointment, error)) {
	appt, err := op(r.Context(), chi.URLParam(r, "appointmentId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg, Data: appt})
}

// AppointmentStatus handles GET /appointment/appointmentStatus/{visitorId}
func (h *AppointmentHandler) AppointmentStatus(w http.ResponseWriter, r *http.Request) {
	h.visitorList(w, r, h.svc.AppointmentStatus)
}

// AcceptedAppointments handles GET /appointment/acceptedAppointment/{visitorId}
func (h *AppointmentHandler) AcceptedAppointments(w http.ResponseWriter, r *http.Request) {
	h.visitorList(w, r, h.svc.AcceptedAppointments)
}

// VisitHistory handles GET /appointment/visitHistory/{visitorId}
func (h *AppointmentHandler) VisitHistory(w http.ResponseWriter, r *http.Request) {
	h.visitorList(w, r, h.svc.VisitHistory)
}

func (h *AppointmentHandler) visitorList(w http.ResponseWriter, r *http.Request,
	list func(ctx context.Context, visitorID string) ([]model.AppointmentView, error)) {
	views, err := list(r.Context(), chi.URLParam(r, "visitorId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	// Return an empty array rather than null for better client compatibility.
	if views == nil {
		views = []model.AppointmentView{}
	}
	writeJSON(w, http.StatusOK, views)
}

// HostPending handles GET /appointments/host/{hostId}/pending
func (h *AppointmentHandler) HostPending(w http.ResponseWriter, r *http.Request) {
	appts, err := h.svc.HostPending(r.Context(), chi.URLParam(r, "hostId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// HostConfirmed handles GET /appointments/host/{hostId}/confirmed
func (h *AppointmentHandler) HostConfirmed(w http.ResponseWriter, r *http.Request) {
	appts, err := h.svc.HostConfirmed(r.Context(), chi.URLParam(r, "hostId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// HostHistory handles GET /appointments/host/{hostId}/history
func (h *AppointmentHandler) HostHistory(w http.ResponseWriter, r *http.Request) {
	appts, err := h.svc.HostHistory(r.Context(), chi.URLParam(r, "hostId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *AppointmentHandler) hostCount(status model.AppointmentStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := h.svc.HostCount(r.Context(), chi.URLParam(r, "hostId"), status)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, count)
	}
}

// Hosts handles GET /appointment/gethosts
func (h *AppointmentHandler) Hosts(w http.ResponseWriter, r *http.Request) {
	hosts, err := h.svc.Hosts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hosts)
}
