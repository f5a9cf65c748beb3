package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/apperrors"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/repository"
)

// AvailabilityService is the host's administrative entry point for slots.
// Hosts only create and delete available slots; booking is the engine's job.
type AvailabilityService struct {
	slots SlotStore
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(slots SlotStore) *AvailabilityService {
	return &AvailabilityService{slots: slots}
}

// Add declares a new available slot.
func (s *AvailabilityService) Add(ctx context.Context, req model.AddAvailabilityRequest) (*model.HostAvailability, error) {
	req.HostID = strings.TrimSpace(req.HostID)
	if err := model.Validate(req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	window := model.TimeSlot{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}
	if err := model.ValidateWindow(window); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	slot := &model.HostAvailability{
		HostID:    req.HostID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.SlotAvailable,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, apperrors.NewConflictError("time slot already exists for this host")
		}
		return nil, apperrors.NewInternalError("create availability", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("host_id", slot.HostID).
		Str("slot", window.String()).
		Msg("availability added")
	return slot, nil
}

// ListByHost returns every slot of the host, booked ones included.
func (s *AvailabilityService) ListByHost(ctx context.Context, hostID string) ([]model.HostAvailability, error) {
	hostID = strings.TrimSpace(hostID)
	if hostID == "" {
		return nil, apperrors.NewValidationError("host id is required")
	}
	slots, err := s.slots.ListByHost(ctx, hostID)
	if err != nil {
		return nil, apperrors.NewInternalError("list availability", err)
	}
	if slots == nil {
		slots = []model.HostAvailability{}
	}
	return slots, nil
}

// Delete removes an available slot. Booked slots belong to a confirmed
// appointment and are released only through cancel or reschedule.
func (s *AvailabilityService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.NewValidationError("time slot id is required")
	}
	err := s.slots.DeleteAvailable(ctx, id)
	switch {
	case err == nil:
		return nil
	case isNotFound(err):
		return apperrors.NewNotFoundError("time slot not found")
	case errors.Is(err, repository.ErrSlotTaken):
		return apperrors.NewInvalidStateError("time slot is booked; cancel or reschedule the appointment instead")
	default:
		return apperrors.NewInternalError("delete availability", err)
	}
}
