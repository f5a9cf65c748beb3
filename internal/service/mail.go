package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/apperrors"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/notify"
)

// Mailer renders and enqueues visitor emails after a transition has committed.
// Failures are logged and never reach the caller.
type Mailer struct {
	composer  *notify.Composer
	sender    notify.Sender
	directory Directory
}

// NewMailer constructs a Mailer.
func NewMailer(composer *notify.Composer, sender notify.Sender, directory Directory) *Mailer {
	return &Mailer{composer: composer, sender: sender, directory: directory}
}

type renderFunc func(c *notify.Composer, visitor *model.Visitor, hostName string) (notify.Email, error)

func (m *Mailer) dispatch(ctx context.Context, appt *model.Appointment, render renderFunc) {
	if m == nil {
		return
	}
	logger := zerolog.Ctx(ctx).With().
		Str("appointment_id", appt.AppointmentID).
		Logger()

	visitor, err := m.directory.Visitor(ctx, appt.VisitorID)
	if err != nil {
		logger.Warn().Err(apperrors.NewDependencyError("visitor lookup for email failed", err)).Send()
		return
	}

	email, err := render(m.composer, visitor, m.hostName(ctx, appt.HostID))
	if err != nil {
		logger.Warn().Err(apperrors.NewDependencyError("email rendering failed", err)).Send()
		return
	}
	if err := m.sender.Send(ctx, email); err != nil {
		logger.Warn().
			Err(apperrors.NewDependencyError("email dispatch failed", err)).
			Str("kind", string(email.Kind)).
			Msg("visitor was not notified")
	}
}

func (m *Mailer) hostName(ctx context.Context, hostID string) string {
	host, err := m.directory.Host(ctx, hostID)
	if err != nil || host.Name == "" {
		return "your host"
	}
	return host.Name
}

func (m *Mailer) responded(ctx context.Context, appt *model.Appointment) {
	m.dispatch(ctx, appt, func(c *notify.Composer, v *model.Visitor, host string) (notify.Email, error) {
		return c.Response(appt, v, host)
	})
}

func (m *Mailer) confirmed(ctx context.Context, appt *model.Appointment, slot model.TimeSlot) {
	m.dispatch(ctx, appt, func(c *notify.Composer, v *model.Visitor, host string) (notify.Email, error) {
		return c.Confirmation(appt, v, host, slot)
	})
}

func (m *Mailer) cancelled(ctx context.Context, appt *model.Appointment, slot model.TimeSlot) {
	m.dispatch(ctx, appt, func(c *notify.Composer, v *model.Visitor, host string) (notify.Email, error) {
		return c.Cancellation(appt, v, host, slot)
	})
}

func (m *Mailer) rescheduled(ctx context.Context, appt *model.Appointment, old, updated model.TimeSlot) {
	m.dispatch(ctx, appt, func(c *notify.Composer, v *model.Visitor, host string) (notify.Email, error) {
		return c.Reschedule(appt, v, host, old, updated)
	})
}
