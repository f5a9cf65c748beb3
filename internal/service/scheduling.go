package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/apperrors"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/repository"
)

// appointmentSequence is the counter that numbers appointment ids.
const appointmentSequence = "appointment"

// SchedulingService drives appointments through their lifecycle and keeps
// host availability in step with confirmed bookings.
type SchedulingService struct {
	stores Stores
	mail   *Mailer
	clock  Clock
}

// NewSchedulingService constructs a SchedulingService. mail may be nil.
func NewSchedulingService(stores Stores, mail *Mailer, clock Clock) *SchedulingService {
	return &SchedulingService{stores: stores, mail: mail, clock: clock}
}

// Create records a new pending appointment request.
func (s *SchedulingService) Create(ctx context.Context, req model.CreateAppointmentRequest) (*model.Appointment, error) {
	req.VisitorID = strings.TrimSpace(req.VisitorID)
	req.HostID = strings.TrimSpace(req.HostID)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Contact = strings.TrimSpace(req.Contact)
	if err := model.Validate(req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	now := s.clock.Now().UTC()
	appt := &model.Appointment{
		ID:                 uuid.New().String(),
		VisitorID:          req.VisitorID,
		HostID:             req.HostID,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Contact:            req.Contact,
		Vehicle:            strings.TrimSpace(req.Vehicle),
		Category:           req.Category,
		Reason:             req.Reason,
		RequestedAt:        now,
		Status:             model.StatusPending,
		AvailableTimeSlots: []model.TimeSlot{},
		UpdatedAt:          now,
	}

	err := s.stores.Tx.InTx(ctx, func(ctx context.Context) error {
		seq, err := s.stores.Counters.Next(ctx, appointmentSequence)
		if err != nil {
			return err
		}
		appt.AppointmentID = model.PendingAppointmentID(seq)
		return s.stores.Appointments.Create(ctx, appt)
	})
	if err != nil {
		return nil, apperrors.NewInternalError("create appointment", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("appointment_id", appt.AppointmentID).
		Str("host_id", appt.HostID).
		Msg("appointment requested")

	s.notifyStaff(ctx, appt)
	return appt, nil
}

func (s *SchedulingService) notifyStaff(ctx context.Context, appt *model.Appointment) {
	if s.stores.Notifications == nil {
		return
	}
	n := &model.Notification{
		Message:   fmt.Sprintf("New appointment request %s from %s", appt.AppointmentID, appt.RequesterName()),
		Type:      model.NotificationVisitor,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.stores.Notifications.Create(ctx, n); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("appointment_id", appt.AppointmentID).
			Msg("failed to record appointment notification")
	}
}

// Respond records the host's decision on a pending appointment.
//
// An exactSlot acceptance proposes one interval. An allSlots acceptance
// offers every available slot of the host from today on, each with a
// deterministic slot id. Accepting rewrites the id prefix from M- to A-.
func (s *SchedulingService) Respond(ctx context.Context, ref string, req model.RespondRequest) (*model.Appointment, error) {
	if err := model.Validate(req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if req.Status == model.StatusAccepted && req.ResponseType == "" {
		req.ResponseType = model.ResponseExactSlot
	}

	appt, err := s.get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if appt.Status != model.StatusPending {
		return nil, apperrors.NewInvalidStateError(
			fmt.Sprintf("appointment is %s; only pending appointments can be answered", appt.Status))
	}

	if req.Status == model.StatusAccepted {
		switch req.ResponseType {
		case model.ResponseExactSlot:
			slot := model.TimeSlot{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}
			if err := model.ValidateWindow(slot); err != nil {
				return nil, apperrors.NewValidationError(err.Error())
			}
			appt.Response = model.Response{
				Date:         slot.Date,
				StartTime:    slot.StartTime,
				EndTime:      slot.EndTime,
				ResponseType: model.ResponseExactSlot,
			}
			appt.AvailableTimeSlots = []model.TimeSlot{}
		case model.ResponseAllSlots:
			offers, err := s.offers(ctx, appt.HostID)
			if err != nil {
				return nil, err
			}
			appt.Response = model.Response{ResponseType: model.ResponseAllSlots}
			appt.AvailableTimeSlots = offers
		}
		appt.AppointmentID = model.PromoteAppointmentID(appt.AppointmentID)
	}

	if err := appt.TransitionTo(req.Status); err != nil {
		return nil, apperrors.NewInvalidStateError(err.Error())
	}
	if err := s.stores.Appointments.Update(ctx, appt); err != nil {
		return nil, s.storeError("update appointment", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("appointment_id", appt.AppointmentID).
		Str("status", string(appt.Status)).
		Str("response_type", string(appt.Response.ResponseType)).
		Msg("host responded")

	s.mail.responded(ctx, appt)
	return appt, nil
}

func (s *SchedulingService) offers(ctx context.Context, hostID string) ([]model.TimeSlot, error) {
	available, err := s.stores.Slots.ListAvailable(ctx, hostID, s.clock.Today())
	if err != nil {
		return nil, apperrors.NewInternalError("list available slots", err)
	}
	if len(available) == 0 {
		return nil, apperrors.NewValidationError("host has no available time slots from today onwards")
	}
	offers := make([]model.TimeSlot, 0, len(available))
	for i := range available {
		offers = append(offers, available[i].Offer())
	}
	return offers, nil
}

// SelectTimeSlot records the visitor's pick from an allSlots offer and
// mirrors it into the response.
func (s *SchedulingService) SelectTimeSlot(ctx context.Context, ref string, req model.SelectTimeSlotRequest) (*model.Appointment, error) {
	if err := model.Validate(req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	appt, err := s.get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if appt.Response.ResponseType != model.ResponseAllSlots {
		return nil, apperrors.NewInvalidStateError("time slots can only be selected when the host offered all available slots")
	}
	if appt.Status != model.StatusAccepted {
		return nil, apperrors.NewInvalidStateError(
			fmt.Sprintf("appointment is %s; a time slot can only be selected while accepted", appt.Status))
	}

	slot, ok := appt.FindOfferedSlot(req.SlotID)
	if !ok {
		return nil, apperrors.NewNotFoundError("time slot not found")
	}
	appt.SelectedTimeSlot = slot
	appt.Response.Date = slot.Date
	appt.Response.StartTime = slot.StartTime
	appt.Response.EndTime = slot.EndTime

	if err := s.stores.Appointments.Update(ctx, appt); err != nil {
		return nil, s.storeError("update appointment", err)
	}
	return appt, nil
}

// Confirm books the effective slot for the host, opens the gate record and
// emails the visitor their appointment id.
func (s *SchedulingService) Confirm(ctx context.Context, ref string) (*model.Appointment, error) {
	var (
		appt *model.Appointment
		slot model.TimeSlot
	)
	err := s.stores.Tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if appt, err = s.get(ctx, ref); err != nil {
			return err
		}
		visitor, err := s.stores.Directory.Visitor(ctx, appt.VisitorID)
		if err != nil {
			if isNotFound(err) {
				return apperrors.NewNotFoundError("visitor not found")
			}
			return apperrors.NewInternalError("get visitor", err)
		}

		if err := appt.TransitionTo(model.StatusConfirmed); err != nil {
			return apperrors.NewInvalidStateError(
				fmt.Sprintf("appointment is %s; only accepted appointments can be confirmed", appt.Status))
		}
		slot = appt.EffectiveSlot()
		if !slot.Complete() {
			return apperrors.NewInvalidStateError("appointment has no time slot to confirm; select a time slot first")
		}

		if _, err := s.stores.Slots.Book(ctx, model.KeyFor(appt.HostID, slot)); err != nil {
			return s.storeError("book time slot", err)
		}
		if err := s.stores.Appointments.Update(ctx, appt); err != nil {
			return s.storeError("update appointment", err)
		}

		_, err = s.stores.Verifications.CreateIfAbsent(ctx, &model.VisitorVerification{
			AppointmentID: appt.AppointmentID,
			VisitorID:     appt.VisitorID,
			Name:          visitor.FullName(),
			NIC:           visitor.NIC,
			VehicleNumber: appt.Vehicle,
			HostID:        appt.HostID,
			Purpose:       appt.Reason,
			Date:          slot.Date,
			Status:        model.VerificationAwaiting,
		})
		if err != nil {
			return apperrors.NewInternalError("create visitor verification", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("appointment_id", appt.AppointmentID).
		Str("slot", slot.String()).
		Msg("appointment confirmed")

	s.mail.confirmed(ctx, appt, slot)
	return appt, nil
}

// VisitorReject records that the visitor declined the host's proposal.
func (s *SchedulingService) VisitorReject(ctx context.Context, ref string) (*model.Appointment, error) {
	appt, err := s.get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := appt.TransitionTo(model.StatusVisitorRejected); err != nil {
		return nil, apperrors.NewInvalidStateError(
			fmt.Sprintf("appointment is %s; only accepted appointments can be declined", appt.Status))
	}
	if err := s.stores.Appointments.Update(ctx, appt); err != nil {
		return nil, s.storeError("update appointment", err)
	}
	return appt, nil
}

// Cancel is the host withdrawing an accepted or confirmed appointment.
// A confirmed appointment frees its booked slot.
func (s *SchedulingService) Cancel(ctx context.Context, ref string) (*model.Appointment, error) {
	var (
		appt *model.Appointment
		slot model.TimeSlot
	)
	err := s.stores.Tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if appt, err = s.get(ctx, ref); err != nil {
			return err
		}
		wasConfirmed := appt.Status == model.StatusConfirmed
		if err := appt.TransitionTo(model.StatusHostRejected); err != nil {
			return apperrors.NewInvalidStateError(
				fmt.Sprintf("appointment is %s and cannot be cancelled", appt.Status))
		}

		slot = appt.EffectiveSlot()
		if wasConfirmed && slot.Complete() {
			if _, err := s.stores.Slots.DeleteBooked(ctx, model.KeyFor(appt.HostID, slot)); err != nil {
				return apperrors.NewInternalError("release time slot", err)
			}
		}
		if err := s.stores.Appointments.Update(ctx, appt); err != nil {
			return s.storeError("update appointment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("appointment_id", appt.AppointmentID).
		Msg("appointment cancelled by host")

	s.mail.cancelled(ctx, appt, slot)
	return appt, nil
}

// Reschedule moves an accepted or confirmed appointment to a new interval.
// For a confirmed appointment the old booking is released and the new one taken.
func (s *SchedulingService) Reschedule(ctx context.Context, ref string, req model.RescheduleRequest) (*model.Appointment, error) {
	if err := model.Validate(req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	updated := req.Slot()
	if err := model.ValidateWindow(updated); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	var (
		appt *model.Appointment
		old  model.TimeSlot
	)
	err := s.stores.Tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if appt, err = s.get(ctx, ref); err != nil {
			return err
		}
		if appt.Status != model.StatusAccepted && appt.Status != model.StatusConfirmed {
			return apperrors.NewInvalidStateError(
				fmt.Sprintf("appointment is %s and cannot be rescheduled", appt.Status))
		}
		old = appt.EffectiveSlot()
		if !old.Complete() {
			return apperrors.NewInvalidStateError("appointment has no scheduled time slot to move")
		}

		newKey := model.KeyFor(appt.HostID, updated)
		if appt.Status == model.StatusConfirmed {
			if _, err := s.stores.Slots.DeleteBooked(ctx, model.KeyFor(appt.HostID, old)); err != nil {
				return apperrors.NewInternalError("release time slot", err)
			}
			if _, err := s.stores.Slots.Book(ctx, newKey); err != nil {
				return s.storeError("book time slot", err)
			}
		} else if taken, err := s.slotTaken(ctx, newKey); err != nil {
			return err
		} else if taken {
			return apperrors.NewConflictError("time slot is already booked for this host")
		}

		if appt.Status == model.StatusConfirmed {
			if _, err := s.stores.Verifications.Reschedule(ctx, appt.AppointmentID, updated.Date); err != nil {
				return apperrors.NewInternalError("reschedule visitor record", err)
			}
		}

		updated.SlotID = model.SlotID(newKey)
		appt.SelectedTimeSlot = updated
		appt.Response.Date = updated.Date
		appt.Response.StartTime = updated.StartTime
		appt.Response.EndTime = updated.EndTime
		if err := s.stores.Appointments.Update(ctx, appt); err != nil {
			return s.storeError("update appointment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("appointment_id", appt.AppointmentID).
		Str("from", old.String()).
		Str("to", updated.String()).
		Msg("appointment rescheduled")

	s.mail.rescheduled(ctx, appt, old, updated)
	return appt, nil
}

func (s *SchedulingService) slotTaken(ctx context.Context, k model.SlotKey) (bool, error) {
	slot, err := s.stores.Slots.Find(ctx, k)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, apperrors.NewInternalError("find time slot", err)
	}
	return slot.Status == model.SlotBooked, nil
}

// Delete removes an appointment. The slot a confirmed appointment held goes
// back to the host's pool as available.
func (s *SchedulingService) Delete(ctx context.Context, ref string) error {
	return s.stores.Tx.InTx(ctx, func(ctx context.Context) error {
		appt, err := s.get(ctx, ref)
		if err != nil {
			return err
		}
		if slot := appt.EffectiveSlot(); appt.Status == model.StatusConfirmed && slot.Complete() {
			err := s.stores.Slots.MarkAvailable(ctx, model.KeyFor(appt.HostID, slot))
			if err != nil && !isNotFound(err) {
				return apperrors.NewInternalError("release time slot", err)
			}
		}
		if err := s.stores.Appointments.Delete(ctx, appt.ID); err != nil {
			return s.storeError("delete appointment", err)
		}
		return nil
	})
}

// Get returns a single appointment by system id or appointmentId.
func (s *SchedulingService) Get(ctx context.Context, ref string) (*model.Appointment, error) {
	return s.get(ctx, ref)
}

func (s *SchedulingService) get(ctx context.Context, ref string) (*model.Appointment, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperrors.NewValidationError("appointment id is required")
	}
	appt, err := s.stores.Appointments.GetByRef(ctx, ref)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("appointment not found")
		}
		return nil, apperrors.NewInternalError("get appointment", err)
	}
	return appt, nil
}

// storeError maps repository sentinels onto the error taxonomy.
func (s *SchedulingService) storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrSlotTaken):
		return apperrors.NewConflictError("time slot is already booked for this host")
	case errors.Is(err, repository.ErrDuplicateSlot):
		return apperrors.NewConflictError("time slot already exists for this host")
	case isNotFound(err):
		return apperrors.NewNotFoundError("appointment not found")
	default:
		return apperrors.NewInternalError(op, err)
	}
}
