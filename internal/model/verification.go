package model

import "time"

// VerificationStatus is the gate state of a visitor.
type VerificationStatus string

const (
	VerificationAwaiting   VerificationStatus = "Awaiting Check-In"
	VerificationCheckedIn  VerificationStatus = "Checked-In"
	VerificationCheckedOut VerificationStatus = "Checked-Out"
)

// VisitorVerification is the physical check-in record of a confirmed appointment.
type VisitorVerification struct {
	ID            string             `json:"id"`
	AppointmentID string             `json:"appointmentId"`
	VisitorID     string             `json:"visitorId"`
	Name          string             `json:"name"`
	NIC           string             `json:"nic"`
	VehicleNumber string             `json:"vehicleNumber,omitempty"`
	HostID        string             `json:"hostId"`
	Purpose       string             `json:"purpose,omitempty"`
	Date          string             `json:"date"`
	Status        VerificationStatus `json:"status"`
	CheckInTime   *time.Time         `json:"checkInTime,omitempty"`
	CheckOutTime  *time.Time         `json:"checkOutTime,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// ActivityAction is a gate event.
type ActivityAction string

const (
	ActionCheckedIn  ActivityAction = "Checked-In"
	ActionCheckedOut ActivityAction = "Checked-Out"
)

// Activity is an append-only log entry for a check-in or check-out.
type Activity struct {
	ID        string         `json:"id"`
	VisitorID string         `json:"visitorId"`
	Name      string         `json:"name"`
	Action    ActivityAction `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
}

// VisitorSearchResult pairs a verification record with its resolved host.
type VisitorSearchResult struct {
	Visitor VisitorVerification `json:"visitor"`
	Staff   Host                `json:"staff"`
}
