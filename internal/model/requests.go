package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreateAppointmentRequest is the payload a visitor submits to ask for a meeting.
type CreateAppointmentRequest struct {
	VisitorID string `json:"visitorId" validate:"required"`
	HostID    string `json:"hostId" validate:"required"`
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname" validate:"required"`
	Contact   string `json:"contact" validate:"required"`
	Vehicle   string `json:"vehicle"`
	Category  string `json:"category" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

// RespondRequest is the host's decision on a pending appointment.
// A missing responseType defaults to exactSlot when accepting.
type RespondRequest struct {
	Status       AppointmentStatus `json:"status" validate:"required,oneof=accepted rejected"`
	ResponseType ResponseType      `json:"responseType" validate:"omitempty,oneof=exactSlot allSlots"`
	Date         string            `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime    string            `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime      string            `json:"endTime" validate:"omitempty,datetime=15:04"`
}

// SelectTimeSlotRequest carries the slot a visitor picked from an allSlots offer.
type SelectTimeSlotRequest struct {
	SlotID string `json:"slotId" validate:"required"`
}

// RescheduleRequest moves an appointment to a new interval.
type RescheduleRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
}

// Slot returns the requested interval.
func (r RescheduleRequest) Slot() TimeSlot {
	return TimeSlot{Date: r.Date, StartTime: r.StartTime, EndTime: r.EndTime}
}

// AddAvailabilityRequest declares a new bookable slot for a host.
type AddAvailabilityRequest struct {
	HostID    string     `json:"hostId" validate:"required"`
	Date      string     `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string     `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string     `json:"endTime" validate:"required,datetime=15:04"`
	Status    SlotStatus `json:"status" validate:"omitempty,oneof=available"`
}

// UpdateNotificationRequest toggles the read flag of a notification.
type UpdateNotificationRequest struct {
	Read *bool `json:"read" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct tags and returns a single readable message.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match format %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// ValidateWindow checks that a complete slot ends after it starts.
// HH:mm strings are zero padded so they order lexically.
func ValidateWindow(t TimeSlot) error {
	if !t.Complete() {
		return errors.New("date, startTime and endTime are required")
	}
	if t.EndTime <= t.StartTime {
		return errors.New("endTime must be after startTime")
	}
	return nil
}
