package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/notify"
)

type fixture struct {
	ctx     context.Context
	store   *memStore
	sender  *recordingSender
	clock   Clock
	sched   *SchedulingService
	avail   *AvailabilityService
	gate    *CheckInService
	sweeper *Sweeper
}

// newFixture starts every test on 2025-01-10 08:00 in Colombo with one
// registered visitor (v1) and one host (h1).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Colombo")
	require.NoError(t, err)

	store := newMemStore()
	store.visitors["v1"] = model.Visitor{
		ID: "v1", FirstName: "Nimal", LastName: "Silva", Email: "nimal@example.lk", NIC: "200012345678",
	}
	store.hosts["h1"] = model.Host{ID: "h1", Name: "Dr. Perera", Email: "perera@uom.lk", Role: model.RoleHost}

	clock := Clock{
		Now:      func() time.Time { return time.Date(2025, 1, 10, 8, 0, 0, 0, loc) },
		Location: loc,
	}
	sender := &recordingSender{}
	stores := store.stores()
	mailer := NewMailer(notify.NewComposer("Visitor Management", "no-reply@uom.lk"), sender, stores.Directory)

	return &fixture{
		ctx:     context.Background(),
		store:   store,
		sender:  sender,
		clock:   clock,
		sched:   NewSchedulingService(stores, mailer, clock),
		avail:   NewAvailabilityService(stores.Slots),
		gate:    NewCheckInService(stores, clock),
		sweeper: NewSweeper(stores.Appointments, clock),
	}
}

func (f *fixture) create(t *testing.T) *model.Appointment {
	t.Helper()
	appt, err := f.sched.Create(f.ctx, model.CreateAppointmentRequest{
		VisitorID: "v1",
		HostID:    "h1",
		FirstName: "Nimal",
		LastName:  "Silva",
		Contact:   "0771234567",
		Vehicle:   "CAB-1234",
		Category:  "Academic",
		Reason:    "Project discussion",
	})
	require.NoError(t, err)
	return appt
}

func (f *fixture) acceptExact(t *testing.T, ref, date, start, end string) *model.Appointment {
	t.Helper()
	appt, err := f.sched.Respond(f.ctx, ref, model.RespondRequest{
		Status:       model.StatusAccepted,
		ResponseType: model.ResponseExactSlot,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
	})
	require.NoError(t, err)
	return appt
}

func (f *fixture) confirmed(t *testing.T, date, start, end string) *model.Appointment {
	t.Helper()
	appt := f.create(t)
	f.acceptExact(t, appt.ID, date, start, end)
	out, err := f.sched.Confirm(f.ctx, appt.ID)
	require.NoError(t, err)
	return out
}

func (f *fixture) addSlot(t *testing.T, date, start, end string) *model.HostAvailability {
	t.Helper()
	slot, err := f.avail.Add(f.ctx, model.AddAvailabilityRequest{HostID: "h1", Date: date, StartTime: start, EndTime: end})
	require.NoError(t, err)
	return slot
}

func (f *fixture) slot(date, start, end string) (model.HostAvailability, bool) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	s, ok := f.store.slots[model.SlotKey{HostID: "h1", Date: date, StartTime: start, EndTime: end}]
	return s, ok
}

func (f *fixture) status(t *testing.T, id string) model.AppointmentStatus {
	t.Helper()
	appt, err := f.sched.Get(f.ctx, id)
	require.NoError(t, err)
	return appt.Status
}
