package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/apperrors"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

// recentActivityLimit is the size of the gate activity feed.
const recentActivityLimit = 10

// CheckInService runs the security desk: lookup, check-in and check-out.
type CheckInService struct {
	stores Stores
	clock  Clock
}

// NewCheckInService constructs a CheckInService.
func NewCheckInService(stores Stores, clock Clock) *CheckInService {
	return &CheckInService{stores: stores, clock: clock}
}

// Search finds a gate record by partial appointmentId or NIC and resolves its host.
func (s *CheckInService) Search(ctx context.Context, term string) (*model.VisitorSearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.NewValidationError("search term is required")
	}

	v, err := s.stores.Verifications.Search(ctx, term)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("visitor not found")
		}
		return nil, apperrors.NewInternalError("search visitor", err)
	}
	host, err := s.stores.Directory.ResolveHost(ctx, v.HostID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("host not found")
		}
		return nil, apperrors.NewInternalError("get host", err)
	}
	return &model.VisitorSearchResult{Visitor: *v, Staff: *host}, nil
}

// CheckIn admits the visitor and marks the appointment completed.
// Appointments the sweep already marked Incompleted may still check in.
func (s *CheckInService) CheckIn(ctx context.Context, appointmentID string) (*model.VisitorVerification, error) {
	var v *model.VisitorVerification
	err := s.stores.Tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if v, err = s.verification(ctx, appointmentID); err != nil {
			return err
		}
		switch v.Status {
		case model.VerificationCheckedIn:
			return apperrors.NewInvalidStateError("visitor already checked in")
		case model.VerificationCheckedOut:
			return apperrors.NewInvalidStateError("visitor already checked out")
		}

		appt, err := s.stores.Appointments.GetByRef(ctx, v.AppointmentID)
		if err != nil {
			if isNotFound(err) {
				return apperrors.NewNotFoundError("appointment not found")
			}
			return apperrors.NewInternalError("get appointment", err)
		}
		from := appt.Status
		if err := appt.TransitionTo(model.StatusCompleted); err != nil {
			return apperrors.NewInvalidStateError(
				fmt.Sprintf("appointment is %s and cannot be checked in", from))
		}

		now := s.clock.Now().UTC()
		ok, err := s.stores.Verifications.Transition(ctx, v.AppointmentID, model.VerificationAwaiting, model.VerificationCheckedIn, now)
		if err != nil {
			return apperrors.NewInternalError("check in", err)
		}
		if !ok {
			return apperrors.NewInvalidStateError("visitor already checked in")
		}
		ok, err = s.stores.Appointments.CompareAndSetStatus(ctx, appt.ID, from, model.StatusCompleted)
		if err != nil {
			return apperrors.NewInternalError("complete appointment", err)
		}
		if !ok {
			return apperrors.NewInvalidStateError("appointment changed while checking in; retry")
		}

		v.Status = model.VerificationCheckedIn
		v.CheckInTime = &now
		v.UpdatedAt = now
		return s.log(ctx, v, model.ActionCheckedIn, now)
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("appointment_id", v.AppointmentID).Msg("visitor checked in")
	return v, nil
}

// CheckOut records the visitor leaving. Only checked-in visitors can leave.
func (s *CheckInService) CheckOut(ctx context.Context, appointmentID string) (*model.VisitorVerification, error) {
	var v *model.VisitorVerification
	err := s.stores.Tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if v, err = s.verification(ctx, appointmentID); err != nil {
			return err
		}
		switch v.Status {
		case model.VerificationCheckedOut:
			return apperrors.NewInvalidStateError("visitor already checked out")
		case model.VerificationAwaiting:
			return apperrors.NewInvalidStateError("visitor has not checked in")
		}

		now := s.clock.Now().UTC()
		ok, err := s.stores.Verifications.Transition(ctx, v.AppointmentID, model.VerificationCheckedIn, model.VerificationCheckedOut, now)
		if err != nil {
			return apperrors.NewInternalError("check out", err)
		}
		if !ok {
			return apperrors.NewInvalidStateError("visitor already checked out")
		}

		v.Status = model.VerificationCheckedOut
		v.CheckOutTime = &now
		v.UpdatedAt = now
		return s.log(ctx, v, model.ActionCheckedOut, now)
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("appointment_id", v.AppointmentID).Msg("visitor checked out")
	return v, nil
}

// RecentActivities returns the latest gate events, newest first.
func (s *CheckInService) RecentActivities(ctx context.Context) ([]model.Activity, error) {
	activities, err := s.stores.Activities.Recent(ctx, recentActivityLimit)
	if err != nil {
		return nil, apperrors.NewInternalError("list activities", err)
	}
	if activities == nil {
		activities = []model.Activity{}
	}
	return activities, nil
}

func (s *CheckInService) verification(ctx context.Context, appointmentID string) (*model.VisitorVerification, error) {
	appointmentID = strings.TrimSpace(appointmentID)
	if appointmentID == "" {
		return nil, apperrors.NewValidationError("appointment id is required")
	}
	v, err := s.stores.Verifications.GetByAppointmentID(ctx, appointmentID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("visitor verification not found")
		}
		return nil, apperrors.NewInternalError("get visitor verification", err)
	}
	return v, nil
}

func (s *CheckInService) log(ctx context.Context, v *model.VisitorVerification, action model.ActivityAction, at time.Time) error {
	err := s.stores.Activities.Append(ctx, &model.Activity{
		VisitorID: v.VisitorID,
		Name:      v.Name,
		Action:    action,
		Timestamp: at,
	})
	if err != nil {
		return apperrors.NewInternalError("record activity", err)
	}
	return nil
}
