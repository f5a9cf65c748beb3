package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) appointment(args mock.Arguments) (*model.Appointment, error) {
	if a, ok := args.Get(0).(*model.Appointment); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockScheduler) Create(ctx context.Context, req model.CreateAppointmentRequest) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, req))
}

func (m *MockScheduler) Get(ctx context.Context, ref string) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, ref))
}

func (m *MockScheduler) Respond(ctx context.Context, ref string, req model.RespondRequest) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, ref, req))
}

func (m *MockScheduler) SelectTimeSlot(ctx context.Context, ref string, req model.SelectTimeSlotRequest) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, ref, req))
}

func (m *MockScheduler) Confirm(ctx context.Context, ref string) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, ref))
}

func (m *MockScheduler) VisitorReject(ctx context.Context, ref string) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, ref))
}

func (m *MockScheduler) Cancel(ctx context.Context, ref string) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, ref))
}

func (m *MockScheduler) Reschedule(ctx context.Context, ref string, req model.RescheduleRequest) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, ref, req))
}

func (m *MockScheduler) Delete(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

func (m *MockScheduler) views(args mock.Arguments) ([]model.AppointmentView, error) {
	if v, ok := args.Get(0).([]model.AppointmentView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockScheduler) AppointmentStatus(ctx context.Context, visitorID string) ([]model.AppointmentView, error) {
	return m.views(m.Called(ctx, visitorID))
}

func (m *MockScheduler) AcceptedAppointments(ctx context.Context, visitorID string) ([]model.AppointmentView, error) {
	return m.views(m.Called(ctx, visitorID))
}

func (m *MockScheduler) VisitHistory(ctx context.Context, visitorID string) ([]model.AppointmentView, error) {
	return m.views(m.Called(ctx, visitorID))
}

func (m *MockScheduler) HostPending(ctx context.Context, hostID string) ([]model.Appointment, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]model.Appointment), args.Error(1)
}

func (m *MockScheduler) HostConfirmed(ctx context.Context, hostID string) ([]model.Appointment, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]model.Appointment), args.Error(1)
}

func (m *MockScheduler) HostHistory(ctx context.Context, hostID string) ([]model.Appointment, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]model.Appointment), args.Error(1)
}

func (m *MockScheduler) HostCount(ctx context.Context, hostID string, status model.AppointmentStatus) (model.AppointmentCount, error) {
	args := m.Called(ctx, hostID, status)
	return args.Get(0).(model.AppointmentCount), args.Error(1)
}

func (m *MockScheduler) Hosts(ctx context.Context) ([]model.HostSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.HostSummary), args.Error(1)
}

type MockAvailability struct {
	mock.Mock
}

func (m *MockAvailability) Add(ctx context.Context, req model.AddAvailabilityRequest) (*model.HostAvailability, error) {
	args := m.Called(ctx, req)
	if s, ok := args.Get(0).(*model.HostAvailability); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAvailability) ListByHost(ctx context.Context, hostID string) ([]model.HostAvailability, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]model.HostAvailability), args.Error(1)
}

func (m *MockAvailability) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockGate struct {
	mock.Mock
}

func (m *MockGate) Search(ctx context.Context, term string) (*model.VisitorSearchResult, error) {
	args := m.Called(ctx, term)
	if r, ok := args.Get(0).(*model.VisitorSearchResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGate) verification(args mock.Arguments) (*model.VisitorVerification, error) {
	if v, ok := args.Get(0).(*model.VisitorVerification); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGate) CheckIn(ctx context.Context, appointmentID string) (*model.VisitorVerification, error) {
	return m.verification(m.Called(ctx, appointmentID))
}

func (m *MockGate) CheckOut(ctx context.Context, appointmentID string) (*model.VisitorVerification, error) {
	return m.verification(m.Called(ctx, appointmentID))
}

func (m *MockGate) RecentActivities(ctx context.Context) ([]model.Activity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Activity), args.Error(1)
}

type MockNotifications struct {
	mock.Mock
}

func (m *MockNotifications) List(ctx context.Context, page, limit int) (*model.NotificationPage, error) {
	args := m.Called(ctx, page, limit)
	if p, ok := args.Get(0).(*model.NotificationPage); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNotifications) SetRead(ctx context.Context, id string, req model.UpdateNotificationRequest) (*model.Notification, error) {
	args := m.Called(ctx, id, req)
	if n, ok := args.Get(0).(*model.Notification); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNotifications) Latest(ctx context.Context) ([]model.Notification, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotifications) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
