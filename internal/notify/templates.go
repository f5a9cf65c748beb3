package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

var templates = template.Must(template.New("mail").Parse(`
{{define "response"}}<p>Dear {{.Name}},</p>
{{if eq .Status "accepted"}}<p>{{.HostName}} has accepted your appointment request <strong>{{.AppointmentID}}</strong>.</p>
{{if .Slot.Complete}}<p>Proposed time: {{.Slot.Date}} from {{.Slot.StartTime}} to {{.Slot.EndTime}}.</p>{{else}}<p>Please choose one of the offered time slots.</p>{{end}}
<p>Please confirm the appointment to receive your visitor pass.</p>
{{else}}<p>We regret that {{.HostName}} could not accept your appointment request <strong>{{.AppointmentID}}</strong>.</p>{{end}}
{{end}}
{{define "confirmation"}}<p>Dear {{.Name}},</p>
<p>Your appointment with {{.HostName}} is confirmed for {{.Slot.Date}}, {{.Slot.StartTime}} to {{.Slot.EndTime}}.</p>
<p>Your appointment ID is <strong>{{.AppointmentID}}</strong>. Show it at the security desk when you arrive.</p>
{{end}}
{{define "cancellation"}}<p>Dear {{.Name}},</p>
<p>Your appointment <strong>{{.AppointmentID}}</strong> with {{.HostName}}{{if .Slot.Complete}} on {{.Slot.Date}} at {{.Slot.StartTime}}{{end}} has been cancelled by the host.</p>
{{end}}
{{define "reschedule"}}<p>Dear {{.Name}},</p>
<p>Your appointment <strong>{{.AppointmentID}}</strong> with {{.HostName}} has been rescheduled.</p>
<table>
<tr><th></th><th>Date</th><th>Start</th><th>End</th></tr>
<tr><td>Previous</td><td>{{.Old.Date}}</td><td>{{.Old.StartTime}}</td><td>{{.Old.EndTime}}</td></tr>
<tr><td>New</td><td>{{.Slot.Date}}</td><td>{{.Slot.StartTime}}</td><td>{{.Slot.EndTime}}</td></tr>
</table>
{{end}}
`))

// Composer renders emails from appointment state.
type Composer struct {
	from string
	now  func() time.Time
}

// NewComposer builds a Composer that signs mail as `name <address>`.
func NewComposer(fromName, fromAddress string) *Composer {
	return &Composer{
		from: fmt.Sprintf("%q <%s>", fromName, fromAddress),
		now:  time.Now,
	}
}

// Context is what every template sees.
type Context struct {
	Name          string
	HostName      string
	AppointmentID string
	Status        model.AppointmentStatus
	Slot          model.TimeSlot
	Old           model.TimeSlot
}

// Response tells the visitor how the host answered.
func (c *Composer) Response(appt *model.Appointment, visitor *model.Visitor, hostName string) (Email, error) {
	subject := "Your appointment request was accepted"
	if appt.Status == model.StatusRejected {
		subject = "Your appointment request was declined"
	}
	return c.render(KindResponse, "response", visitor.Email, subject, Context{
		Name:          visitor.FullName(),
		HostName:      hostName,
		AppointmentID: appt.AppointmentID,
		Status:        appt.Status,
		Slot:          appt.Response.Slot(),
	})
}

// Confirmation carries the appointment id the visitor shows at the gate.
func (c *Composer) Confirmation(appt *model.Appointment, visitor *model.Visitor, hostName string, slot model.TimeSlot) (Email, error) {
	return c.render(KindConfirmation, "confirmation", visitor.Email, "Appointment confirmed - "+appt.AppointmentID, Context{
		Name:          visitor.FullName(),
		HostName:      hostName,
		AppointmentID: appt.AppointmentID,
		Status:        appt.Status,
		Slot:          slot,
	})
}

// Cancellation tells the visitor the host cancelled.
func (c *Composer) Cancellation(appt *model.Appointment, visitor *model.Visitor, hostName string, slot model.TimeSlot) (Email, error) {
	return c.render(KindCancellation, "cancellation", visitor.Email, "Appointment cancelled - "+appt.AppointmentID, Context{
		Name:          visitor.FullName(),
		HostName:      hostName,
		AppointmentID: appt.AppointmentID,
		Status:        appt.Status,
		Slot:          slot,
	})
}

// Reschedule shows the previous and the new schedule side by side.
func (c *Composer) Reschedule(appt *model.Appointment, visitor *model.Visitor, hostName string, old, updated model.TimeSlot) (Email, error) {
	return c.render(KindReschedule, "reschedule", visitor.Email, "Appointment rescheduled - "+appt.AppointmentID, Context{
		Name:          visitor.FullName(),
		HostName:      hostName,
		AppointmentID: appt.AppointmentID,
		Status:        appt.Status,
		Slot:          updated,
		Old:           old,
	})
}

func (c *Composer) render(kind Kind, name, to, subject string, data Context) (Email, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Email{}, fmt.Errorf("render %s email: %w", name, err)
	}
	return Email{
		ID:            uuid.New().String(),
		Kind:          kind,
		AppointmentID: data.AppointmentID,
		From:          c.from,
		To:            to,
		Subject:       subject,
		HTML:          buf.String(),
		CreatedAt:     c.now().UTC(),
	}, nil
}
