package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

func TestStatusTransitions(t *testing.T) {
	allowed := map[model.AppointmentStatus][]model.AppointmentStatus{
		model.StatusPending:     {model.StatusAccepted, model.StatusRejected},
		model.StatusAccepted:    {model.StatusConfirmed, model.StatusVisitorRejected, model.StatusHostRejected},
		model.StatusConfirmed:   {model.StatusIncompleted, model.StatusCompleted, model.StatusHostRejected},
		model.StatusIncompleted: {model.StatusCompleted},
	}
	for from, tos := range allowed {
		for _, to := range tos {
			assert.Truef(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, model.StatusPending.CanTransitionTo(model.StatusConfirmed))
	assert.False(t, model.StatusCompleted.CanTransitionTo(model.StatusIncompleted))
	assert.False(t, model.StatusIncompleted.CanTransitionTo(model.StatusConfirmed))
	for _, terminal := range []model.AppointmentStatus{
		model.StatusRejected, model.StatusVisitorRejected, model.StatusHostRejected, model.StatusCompleted,
	} {
		for _, next := range allowed[model.StatusPending] {
			assert.False(t, terminal.CanTransitionTo(next), terminal)
		}
		assert.False(t, terminal.CanTransitionTo(model.StatusCompleted), terminal)
	}
}

func TestTransitionToRejectsIllegalEdge(t *testing.T) {
	a := &model.Appointment{Status: model.StatusPending}

	err := a.TransitionTo(model.StatusConfirmed)
	require.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Equal(t, model.StatusPending, a.Status)

	require.NoError(t, a.TransitionTo(model.StatusAccepted))
	assert.Equal(t, model.StatusAccepted, a.Status)
}

func TestParseStatusNormalisesCasing(t *testing.T) {
	cases := map[string]model.AppointmentStatus{
		"Completed":       model.StatusCompleted,
		"completed":       model.StatusCompleted,
		"incompleted":     model.StatusIncompleted,
		"Incompleted":     model.StatusIncompleted,
		"visitorrejected": model.StatusVisitorRejected,
	}
	for in, want := range cases {
		got, ok := model.ParseStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := model.ParseStatus("archived")
	assert.False(t, ok)
}

func TestAppointmentIDs(t *testing.T) {
	assert.Equal(t, "M-0007", model.PendingAppointmentID(7))
	assert.Equal(t, "M-12345", model.PendingAppointmentID(12345))
	assert.Equal(t, "A-0007", model.PromoteAppointmentID("M-0007"))
	assert.Equal(t, "A-0007", model.PromoteAppointmentID("A-0007"))
}

func TestEffectiveSlotPrefersCompleteSelection(t *testing.T) {
	a := &model.Appointment{
		Response: model.Response{Date: "2025-01-10", StartTime: "09:00", EndTime: "10:00"},
	}
	assert.Equal(t, "2025-01-10 09:00-10:00", a.EffectiveSlot().String())

	a.SelectedTimeSlot = model.TimeSlot{Date: "2025-01-11"}
	assert.Equal(t, "2025-01-10", a.EffectiveSlot().Date, "partial selection is ignored")

	a.SelectedTimeSlot = model.TimeSlot{SlotID: "s1", Date: "2025-01-11", StartTime: "13:00", EndTime: "14:00"}
	assert.Equal(t, "s1", a.EffectiveSlot().SlotID)
}

func TestSlotIDIsDeterministic(t *testing.T) {
	k := model.SlotKey{HostID: "h1", Date: "2025-01-10", StartTime: "09:00", EndTime: "10:00"}

	assert.Equal(t, model.SlotID(k), model.SlotID(k))
	k2 := k
	k2.EndTime = "10:30"
	assert.NotEqual(t, model.SlotID(k), model.SlotID(k2))
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := model.Validate(model.CreateAppointmentRequest{VisitorID: "v1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hostId is required")
	assert.Contains(t, err.Error(), "reason is required")
	assert.NotContains(t, err.Error(), "vehicle")

	err = model.Validate(model.RespondRequest{Status: "maybe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status must be one of [accepted rejected]")

	err = model.Validate(model.RescheduleRequest{Date: "10/01/2025", StartTime: "09:00", EndTime: "10:00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date must match format 2006-01-02")

	assert.NoError(t, model.Validate(model.RescheduleRequest{Date: "2025-01-10", StartTime: "09:00", EndTime: "10:00"}))
}

func TestValidateWindow(t *testing.T) {
	assert.NoError(t, model.ValidateWindow(model.TimeSlot{Date: "2025-01-10", StartTime: "09:00", EndTime: "10:00"}))
	assert.Error(t, model.ValidateWindow(model.TimeSlot{Date: "2025-01-10", StartTime: "10:00", EndTime: "09:00"}))
	assert.Error(t, model.ValidateWindow(model.TimeSlot{Date: "2025-01-10", StartTime: "10:00"}))
}
