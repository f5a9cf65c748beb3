package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/apperrors"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/repository"
)

var (
	activeStatuses = []model.AppointmentStatus{
		model.StatusPending, model.StatusAccepted, model.StatusRejected,
		model.StatusConfirmed, model.StatusVisitorRejected, model.StatusHostRejected,
	}
	historyStatuses = []model.AppointmentStatus{model.StatusCompleted, model.StatusIncompleted}
)

// AppointmentStatus lists the visitor's appointments that are still in progress
// or were answered but not visited.
func (s *SchedulingService) AppointmentStatus(ctx context.Context, visitorID string) ([]model.AppointmentView, error) {
	return s.visitorView(ctx, visitorID, activeStatuses...)
}

// AcceptedAppointments lists appointments waiting for the visitor to confirm or decline.
func (s *SchedulingService) AcceptedAppointments(ctx context.Context, visitorID string) ([]model.AppointmentView, error) {
	return s.visitorView(ctx, visitorID, model.StatusAccepted)
}

// VisitHistory lists visits that happened or were missed.
func (s *SchedulingService) VisitHistory(ctx context.Context, visitorID string) ([]model.AppointmentView, error) {
	return s.visitorView(ctx, visitorID, historyStatuses...)
}

func (s *SchedulingService) visitorView(ctx context.Context, visitorID string, statuses ...model.AppointmentStatus) ([]model.AppointmentView, error) {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return nil, apperrors.NewValidationError("visitor id is required")
	}
	appts, err := s.stores.Appointments.List(ctx, repository.AppointmentFilter{
		VisitorID: visitorID,
		Statuses:  statuses,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("list appointments", err)
	}
	return s.withHostNames(ctx, appts), nil
}

// withHostNames composes appointments with their host's display name.
// A host that no longer resolves leaves the name empty.
func (s *SchedulingService) withHostNames(ctx context.Context, appts []model.Appointment) []model.AppointmentView {
	views := make([]model.AppointmentView, 0, len(appts))
	names := make(map[string]string)
	for _, a := range appts {
		name, ok := names[a.HostID]
		if !ok {
			host, err := s.stores.Directory.Host(ctx, a.HostID)
			switch {
			case err == nil:
				name = host.Name
			case !isNotFound(err):
				zerolog.Ctx(ctx).Warn().Err(err).Str("host_id", a.HostID).Msg("host lookup failed")
			}
			names[a.HostID] = name
		}
		views = append(views, model.AppointmentView{Appointment: a, HostName: name})
	}
	return views
}

// HostPending lists requests waiting for the host's answer.
func (s *SchedulingService) HostPending(ctx context.Context, hostID string) ([]model.Appointment, error) {
	return s.hostList(ctx, hostID, model.StatusPending)
}

// HostConfirmed lists the host's confirmed visits.
func (s *SchedulingService) HostConfirmed(ctx context.Context, hostID string) ([]model.Appointment, error) {
	return s.hostList(ctx, hostID, model.StatusConfirmed)
}

// HostHistory lists the host's finished visits, attended or missed.
func (s *SchedulingService) HostHistory(ctx context.Context, hostID string) ([]model.Appointment, error) {
	return s.hostList(ctx, hostID, historyStatuses...)
}

// HostCount counts the host's appointments in one status.
func (s *SchedulingService) HostCount(ctx context.Context, hostID string, status model.AppointmentStatus) (model.AppointmentCount, error) {
	hostID = strings.TrimSpace(hostID)
	if hostID == "" {
		return model.AppointmentCount{}, apperrors.NewValidationError("host id is required")
	}
	n, err := s.stores.Appointments.Count(ctx, repository.AppointmentFilter{
		HostID:   hostID,
		Statuses: []model.AppointmentStatus{status},
	})
	if err != nil {
		return model.AppointmentCount{}, apperrors.NewInternalError("count appointments", err)
	}
	return model.AppointmentCount{Count: n}, nil
}

func (s *SchedulingService) hostList(ctx context.Context, hostID string, statuses ...model.AppointmentStatus) ([]model.Appointment, error) {
	hostID = strings.TrimSpace(hostID)
	if hostID == "" {
		return nil, apperrors.NewValidationError("host id is required")
	}
	appts, err := s.stores.Appointments.List(ctx, repository.AppointmentFilter{
		HostID:   hostID,
		Statuses: statuses,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("list appointments", err)
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	return appts, nil
}

// Hosts lists the staff a visitor can book.
func (s *SchedulingService) Hosts(ctx context.Context) ([]model.HostSummary, error) {
	hosts, err := s.stores.Directory.Hosts(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("list hosts", err)
	}
	if hosts == nil {
		hosts = []model.HostSummary{}
	}
	return hosts, nil
}
