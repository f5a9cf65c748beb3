package model

import (
	"time"

	"github.com/google/uuid"
)

// SlotStatus is the booking state of a host availability slot.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// HostAvailability is one bookable interval of a host.
type HostAvailability struct {
	ID        string     `json:"id"`
	HostID    string     `json:"hostId"`
	Date      string     `json:"date"`
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
	Status    SlotStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Key returns the unique tuple identifying the slot.
func (h *HostAvailability) Key() SlotKey {
	return SlotKey{HostID: h.HostID, Date: h.Date, StartTime: h.StartTime, EndTime: h.EndTime}
}

// SlotKey is the (host, date, start, end) tuple; unique across host_availability.
type SlotKey struct {
	HostID    string
	Date      string
	StartTime string
	EndTime   string
}

// KeyFor builds the slot key of an interval for a host.
func KeyFor(hostID string, t TimeSlot) SlotKey {
	return SlotKey{HostID: hostID, Date: t.Date, StartTime: t.StartTime, EndTime: t.EndTime}
}

var slotNamespace = uuid.MustParse("8f1d3c2e-5b7a-4e0f-9c6d-2a4b6e8f0a1c")

// SlotID derives a stable id for an offered interval so that repeated offers
// of the same host slot always carry the same id.
func SlotID(k SlotKey) string {
	name := k.HostID + "|" + k.Date + "|" + k.StartTime + "|" + k.EndTime
	return uuid.NewSHA1(slotNamespace, []byte(name)).String()
}

// Offer converts an availability record into an offered slot.
func (h *HostAvailability) Offer() TimeSlot {
	return TimeSlot{
		SlotID:    SlotID(h.Key()),
		Date:      h.Date,
		StartTime: h.StartTime,
		EndTime:   h.EndTime,
	}
}
