package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/apperrors"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/repository"
)

// Sweeper demotes confirmed appointments whose date has passed.
type Sweeper struct {
	appointments AppointmentStore
	clock        Clock
}

// NewSweeper constructs a Sweeper.
func NewSweeper(appointments AppointmentStore, clock Clock) *Sweeper {
	return &Sweeper{appointments: appointments, clock: clock}
}

// Run marks every confirmed appointment dated before today as Incompleted
// and returns how many changed. Running it again changes nothing.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	today := s.clock.Today()
	confirmed, err := s.appointments.List(ctx, repository.AppointmentFilter{
		Statuses:  []model.AppointmentStatus{model.StatusConfirmed},
		DatedOnly: true,
	})
	if err != nil {
		return 0, apperrors.NewInternalError("list confirmed appointments", err)
	}

	logger := zerolog.Ctx(ctx)
	changed := 0
	for _, a := range confirmed {
		// ISO dates order lexically.
		if a.Response.Date == "" || a.Response.Date >= today {
			continue
		}
		ok, err := s.appointments.CompareAndSetStatus(ctx, a.ID, model.StatusConfirmed, model.StatusIncompleted)
		if err != nil {
			return changed, apperrors.NewInternalError("mark appointment incompleted", err)
		}
		if ok {
			changed++
			logger.Debug().Str("appointment_id", a.AppointmentID).Str("date", a.Response.Date).Msg("appointment marked incompleted")
		}
	}

	logger.Info().Str("today", today).Int("scanned", len(confirmed)).Int("changed", changed).Msg("stale appointment sweep finished")
	return changed, nil
}
