package model

// AppointmentView is an appointment composed with the display name of its host.
type AppointmentView struct {
	Appointment
	HostName string `json:"hostName"`
}

// HostSummary is the entry shown in the visitor's host picker.
type HostSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AppointmentCount is a counter answer for dashboard widgets.
type AppointmentCount struct {
	Count int `json:"count"`
}
