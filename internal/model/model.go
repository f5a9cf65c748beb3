// Package model defines the core domain types for the visitor scheduling system.
package model

import "time"

// Visitor is a registered visitor as seen by the scheduling engine.
// Registration itself lives in another subsystem.
type Visitor struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phoneNumber"`
	NIC       string `json:"nicNumber"`
}

// FullName joins first and last name.
func (v *Visitor) FullName() string {
	return joinName(v.FirstName, v.LastName)
}

// Host is a staff member who can be visited.
type Host struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	Faculty    string `json:"faculty"`
	Department string `json:"department"`
}

// RoleHost is the staff role that owns availability and receives appointments.
const RoleHost = "host"

// NotificationType categorises in-app notifications.
type NotificationType string

const (
	NotificationVisitor NotificationType = "visitor"
	NotificationGeneral NotificationType = "general"
)

// Notification is an in-app message shown on the staff dashboard.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NotificationPage is one page of notifications plus the total count.
type NotificationPage struct {
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Data  []Notification `json:"data"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

// MessageResponse wraps a payload with a human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
