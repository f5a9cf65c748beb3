// Package notify renders visitor emails and hands them to a delivery channel.
// Delivery itself happens outside this service; senders only enqueue.
package notify

import (
	"context"
	"time"
)

// Kind identifies the event an email reports.
type Kind string

const (
	KindResponse     Kind = "appointment.response"
	KindConfirmation Kind = "appointment.confirmed"
	KindCancellation Kind = "appointment.cancelled"
	KindReschedule   Kind = "appointment.rescheduled"
)

// Email is the message put on the outbox.
type Email struct {
	ID            string    `json:"id"`
	Kind          Kind      `json:"kind"`
	AppointmentID string    `json:"appointmentId"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	Subject       string    `json:"subject"`
	HTML          string    `json:"html"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Sender enqueues an email for delivery.
type Sender interface {
	Send(ctx context.Context, email Email) error
}
