// Package service implements the appointment lifecycle, host availability
// reconciliation and the check-in engine on top of the repository layer.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/repository"
)

const dateLayout = "2006-01-02"

// AppointmentStore persists appointments.
type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByRef(ctx context.Context, ref string) (*model.Appointment, error)
	Update(ctx context.Context, a *model.Appointment) error
	CompareAndSetStatus(ctx context.Context, id string, from, to model.AppointmentStatus) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f repository.AppointmentFilter) ([]model.Appointment, error)
	Count(ctx context.Context, f repository.AppointmentFilter) (int, error)
}

// SlotStore persists host availability. The (host, date, start, end) tuple is unique.
type SlotStore interface {
	Create(ctx context.Context, slot *model.HostAvailability) error
	GetByID(ctx context.Context, id string) (*model.HostAvailability, error)
	Find(ctx context.Context, k model.SlotKey) (*model.HostAvailability, error)
	Book(ctx context.Context, k model.SlotKey) (*model.HostAvailability, error)
	MarkAvailable(ctx context.Context, k model.SlotKey) error
	DeleteBooked(ctx context.Context, k model.SlotKey) (bool, error)
	DeleteAvailable(ctx context.Context, id string) error
	ListByHost(ctx context.Context, hostID string) ([]model.HostAvailability, error)
	ListAvailable(ctx context.Context, hostID, fromDate string) ([]model.HostAvailability, error)
}

// VerificationStore persists gate records, at most one per appointmentId.
type VerificationStore interface {
	CreateIfAbsent(ctx context.Context, v *model.VisitorVerification) (bool, error)
	GetByAppointmentID(ctx context.Context, appointmentID string) (*model.VisitorVerification, error)
	Reschedule(ctx context.Context, appointmentID, date string) (bool, error)
	Search(ctx context.Context, term string) (*model.VisitorVerification, error)
	Transition(ctx context.Context, appointmentID string, from, to model.VerificationStatus, at time.Time) (bool, error)
}

// ActivityStore is the append-only gate log.
type ActivityStore interface {
	Append(ctx context.Context, a *model.Activity) error
	Recent(ctx context.Context, limit int) ([]model.Activity, error)
}

// Sequencer mints monotonic numbers per name.
type Sequencer interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Directory resolves visitors and hosts owned by other subsystems.
// Host may serve a cached record; ResolveHost always reads the source.
type Directory interface {
	Visitor(ctx context.Context, id string) (*model.Visitor, error)
	Host(ctx context.Context, id string) (*model.Host, error)
	ResolveHost(ctx context.Context, id string) (*model.Host, error)
	Hosts(ctx context.Context) ([]model.HostSummary, error)
}

// NotificationStore persists in-app notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, page, limit int) ([]model.Notification, int64, error)
	SetRead(ctx context.Context, id string, read bool) (*model.Notification, error)
	Delete(ctx context.Context, id string) error
}

// Transactor runs fn so that every store call made with the ctx it receives
// commits or rolls back together.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Stores groups the persistence dependencies shared by the services.
type Stores struct {
	Appointments  AppointmentStore
	Slots         SlotStore
	Verifications VerificationStore
	Activities    ActivityStore
	Counters      Sequencer
	Directory     Directory
	Notifications NotificationStore
	Tx            Transactor
}

// Clock tells the services what time it is and which calendar day that is.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock reads the wall clock and reports days in loc.
func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

// Today is the current date as YYYY-MM-DD.
func (c Clock) Today() string {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return c.Now().In(loc).Format(dateLayout)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
