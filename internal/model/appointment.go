package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTransition is returned when a status change is not an edge of the lifecycle.
var ErrInvalidTransition = errors.New("invalid appointment status transition")

// AppointmentStatus is the lifecycle state of an appointment.
//
//	pending   → accepted | rejected
//	accepted  → confirmed | visitorRejected | hostRejected
//	confirmed → Incompleted (sweep) | completed (check-in) | hostRejected (cancel)
//	Incompleted → completed (late check-in)
type AppointmentStatus string

const (
	StatusPending         AppointmentStatus = "pending"
	StatusAccepted        AppointmentStatus = "accepted"
	StatusRejected        AppointmentStatus = "rejected"
	StatusConfirmed       AppointmentStatus = "confirmed"
	StatusVisitorRejected AppointmentStatus = "visitorRejected"
	StatusHostRejected    AppointmentStatus = "hostRejected"
	StatusCompleted       AppointmentStatus = "completed"
	StatusIncompleted     AppointmentStatus = "Incompleted"
)

var allStatuses = []AppointmentStatus{
	StatusPending, StatusAccepted, StatusRejected, StatusConfirmed,
	StatusVisitorRejected, StatusHostRejected, StatusCompleted, StatusIncompleted,
}

var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:         {StatusAccepted, StatusRejected},
	StatusAccepted:        {StatusConfirmed, StatusVisitorRejected, StatusHostRejected},
	StatusConfirmed:       {StatusIncompleted, StatusCompleted, StatusHostRejected},
	StatusIncompleted:     {StatusCompleted},
	StatusRejected:        {},
	StatusVisitorRejected: {},
	StatusHostRejected:    {},
	StatusCompleted:       {},
}

// ParseStatus maps any stored casing ("Completed", "incompleted", ...) onto the canonical value.
func ParseStatus(s string) (AppointmentStatus, bool) {
	for _, st := range allStatuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ResponseType says how the host answered a request.
type ResponseType string

const (
	ResponseExactSlot ResponseType = "exactSlot"
	ResponseAllSlots  ResponseType = "allSlots"
)

// TimeSlot is a (date, start, end) interval. Dates are YYYY-MM-DD, times HH:mm.
type TimeSlot struct {
	SlotID    string `json:"slotId,omitempty"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Complete reports whether date, start and end are all set.
func (t TimeSlot) Complete() bool {
	return t.Date != "" && t.StartTime != "" && t.EndTime != ""
}

func (t TimeSlot) String() string {
	return fmt.Sprintf("%s %s-%s", t.Date, t.StartTime, t.EndTime)
}

// Response is the host's answer to an appointment request.
type Response struct {
	Date         string       `json:"date,omitempty"`
	StartTime    string       `json:"startTime,omitempty"`
	EndTime      string       `json:"endTime,omitempty"`
	ResponseType ResponseType `json:"responseType,omitempty"`
}

// Slot returns the proposed or confirmed interval.
func (r Response) Slot() TimeSlot {
	return TimeSlot{Date: r.Date, StartTime: r.StartTime, EndTime: r.EndTime}
}

// Appointment is a visitor's request to meet a host.
type Appointment struct {
	ID                 string            `json:"id"`
	AppointmentID      string            `json:"appointmentId"`
	VisitorID          string            `json:"visitorId"`
	HostID             string            `json:"hostId"`
	FirstName          string            `json:"firstname"`
	LastName           string            `json:"lastname"`
	Contact            string            `json:"contact"`
	Vehicle            string            `json:"vehicle,omitempty"`
	Category           string            `json:"category"`
	Reason             string            `json:"reason"`
	RequestedAt        time.Time         `json:"requestedAt"`
	Status             AppointmentStatus `json:"status"`
	Response           Response          `json:"response"`
	AvailableTimeSlots []TimeSlot        `json:"availableTimeSlots"`
	SelectedTimeSlot   TimeSlot          `json:"selectedTimeSlot"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// RequesterName is the name the visitor typed on the request form.
func (a *Appointment) RequesterName() string {
	return joinName(a.FirstName, a.LastName)
}

// EffectiveSlot prefers the visitor's selection and falls back to the host's response.
func (a *Appointment) EffectiveSlot() TimeSlot {
	if a.SelectedTimeSlot.Complete() {
		return a.SelectedTimeSlot
	}
	return a.Response.Slot()
}

// TransitionTo moves the appointment along a lifecycle edge.
func (a *Appointment) TransitionTo(next AppointmentStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	return nil
}

// FindOfferedSlot looks a slot up among availableTimeSlots.
func (a *Appointment) FindOfferedSlot(slotID string) (TimeSlot, bool) {
	for _, s := range a.AvailableTimeSlots {
		if s.SlotID == slotID {
			return s, true
		}
	}
	return TimeSlot{}, false
}

const (
	pendingPrefix  = "M-"
	acceptedPrefix = "A-"
)

// PendingAppointmentID formats a sequence number as a pending human id.
func PendingAppointmentID(seq int64) string {
	return fmt.Sprintf("%s%04d", pendingPrefix, seq)
}

// PromoteAppointmentID rewrites M-NNNN to A-NNNN; other ids are returned as-is.
func PromoteAppointmentID(id string) string {
	if n, ok := strings.CutPrefix(id, pendingPrefix); ok {
		return acceptedPrefix + n
	}
	return id
}
