package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/notify"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/repository"
)

// memStore is an in-memory implementation of every store the services use.
// It enforces the same uniqueness rules as the database schema.
type memStore struct {
	mu            sync.Mutex
	appointments  map[string]model.Appointment
	slots         map[model.SlotKey]model.HostAvailability
	verifications map[string]model.VisitorVerification
	activities    []model.Activity
	counters      map[string]int64
	visitors      map[string]model.Visitor
	hosts         map[string]model.Host
	notifications []model.Notification
	nextID        int
}

func newMemStore() *memStore {
	return &memStore{
		appointments:  make(map[string]model.Appointment),
		slots:         make(map[model.SlotKey]model.HostAvailability),
		verifications: make(map[string]model.VisitorVerification),
		counters:      make(map[string]int64),
		visitors:      make(map[string]model.Visitor),
		hosts:         make(map[string]model.Host),
	}
}

func (m *memStore) stores() Stores {
	return Stores{
		Appointments:  memAppointments{m},
		Slots:         memSlots{m},
		Verifications: memVerifications{m},
		Activities:    memActivities{m},
		Counters:      memCounters{m},
		Directory:     memDirectory{m},
		Notifications: memNotifications{m},
		Tx:            memTx{},
	}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func cloneAppointment(a model.Appointment) model.Appointment {
	a.AvailableTimeSlots = append([]model.TimeSlot{}, a.AvailableTimeSlots...)
	return a
}

type memTx struct{}

func (memTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type memAppointments struct{ m *memStore }

func (s memAppointments) Create(_ context.Context, a *model.Appointment) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, existing := range s.m.appointments {
		if existing.AppointmentID == a.AppointmentID {
			return errors.New("duplicate appointment id")
		}
	}
	s.m.appointments[a.ID] = cloneAppointment(*a)
	return nil
}

func (s memAppointments) GetByRef(_ context.Context, ref string) (*model.Appointment, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, a := range s.m.appointments {
		if a.ID == ref || a.AppointmentID == ref {
			out := cloneAppointment(a)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memAppointments) Update(_ context.Context, a *model.Appointment) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.appointments[a.ID]; !ok {
		return repository.ErrNotFound
	}
	s.m.appointments[a.ID] = cloneAppointment(*a)
	return nil
}

func (s memAppointments) CompareAndSetStatus(_ context.Context, id string, from, to model.AppointmentStatus) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	a, ok := s.m.appointments[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	s.m.appointments[id] = a
	return true, nil
}

func (s memAppointments) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.m.appointments, id)
	return nil
}

func (s memAppointments) List(_ context.Context, f repository.AppointmentFilter) ([]model.Appointment, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []model.Appointment
	for _, a := range s.m.appointments {
		if matches(a, f) {
			out = append(out, cloneAppointment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s memAppointments) Count(ctx context.Context, f repository.AppointmentFilter) (int, error) {
	f.Limit = 0
	out, err := s.List(ctx, f)
	return len(out), err
}

func matches(a model.Appointment, f repository.AppointmentFilter) bool {
	if f.VisitorID != "" && a.VisitorID != f.VisitorID {
		return false
	}
	if f.HostID != "" && a.HostID != f.HostID {
		return false
	}
	if f.DatedOnly && a.Response.Date == "" {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, st := range f.Statuses {
		if a.Status == st {
			return true
		}
	}
	return false
}

type memSlots struct{ m *memStore }

func (s memSlots) Create(_ context.Context, slot *model.HostAvailability) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.slots[slot.Key()]; ok {
		return repository.ErrDuplicateSlot
	}
	if slot.ID == "" {
		slot.ID = s.m.id("slot")
	}
	if slot.Status == "" {
		slot.Status = model.SlotAvailable
	}
	s.m.slots[slot.Key()] = *slot
	return nil
}

func (s memSlots) GetByID(_ context.Context, id string) (*model.HostAvailability, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, slot := range s.m.slots {
		if slot.ID == id {
			return &slot, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memSlots) Find(_ context.Context, k model.SlotKey) (*model.HostAvailability, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	slot, ok := s.m.slots[k]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &slot, nil
}

func (s memSlots) Book(_ context.Context, k model.SlotKey) (*model.HostAvailability, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	slot, ok := s.m.slots[k]
	if ok && slot.Status == model.SlotBooked {
		return nil, repository.ErrSlotTaken
	}
	if !ok {
		slot = model.HostAvailability{
			ID: s.m.id("slot"), HostID: k.HostID, Date: k.Date, StartTime: k.StartTime, EndTime: k.EndTime,
		}
	}
	slot.Status = model.SlotBooked
	s.m.slots[k] = slot
	return &slot, nil
}

func (s memSlots) DeleteBooked(_ context.Context, k model.SlotKey) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	slot, ok := s.m.slots[k]
	if !ok || slot.Status != model.SlotBooked {
		return false, nil
	}
	delete(s.m.slots, k)
	return true, nil
}

func (s memSlots) MarkAvailable(_ context.Context, k model.SlotKey) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	slot, ok := s.m.slots[k]
	if !ok || slot.Status != model.SlotBooked {
		return repository.ErrNotFound
	}
	slot.Status = model.SlotAvailable
	s.m.slots[k] = slot
	return nil
}

func (s memSlots) DeleteAvailable(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for k, slot := range s.m.slots {
		if slot.ID != id {
			continue
		}
		if slot.Status != model.SlotAvailable {
			return repository.ErrSlotTaken
		}
		delete(s.m.slots, k)
		return nil
	}
	return repository.ErrNotFound
}

func (s memSlots) ListByHost(_ context.Context, hostID string) ([]model.HostAvailability, error) {
	return s.list(func(h model.HostAvailability) bool { return h.HostID == hostID }), nil
}

func (s memSlots) ListAvailable(_ context.Context, hostID, fromDate string) ([]model.HostAvailability, error) {
	return s.list(func(h model.HostAvailability) bool {
		return h.HostID == hostID && h.Status == model.SlotAvailable && h.Date >= fromDate
	}), nil
}

func (s memSlots) list(keep func(model.HostAvailability) bool) []model.HostAvailability {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []model.HostAvailability
	for _, slot := range s.m.slots {
		if keep(slot) {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

type memVerifications struct{ m *memStore }

func (s memVerifications) CreateIfAbsent(_ context.Context, v *model.VisitorVerification) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.verifications[v.AppointmentID]; ok {
		return false, nil
	}
	v.ID = s.m.id("verification")
	s.m.verifications[v.AppointmentID] = *v
	return true, nil
}

func (s memVerifications) GetByAppointmentID(_ context.Context, appointmentID string) (*model.VisitorVerification, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	v, ok := s.m.verifications[appointmentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (s memVerifications) Reschedule(_ context.Context, appointmentID, date string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	v, ok := s.m.verifications[appointmentID]
	if !ok || v.Status != model.VerificationAwaiting {
		return false, nil
	}
	v.Date = date
	s.m.verifications[appointmentID] = v
	return true, nil
}

func (s memVerifications) Search(_ context.Context, term string) (*model.VisitorVerification, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	term = strings.ToLower(term)
	for _, v := range s.m.verifications {
		if strings.Contains(strings.ToLower(v.AppointmentID), term) || strings.Contains(strings.ToLower(v.NIC), term) {
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memVerifications) Transition(_ context.Context, appointmentID string, from, to model.VerificationStatus, at time.Time) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	v, ok := s.m.verifications[appointmentID]
	if !ok || v.Status != from {
		return false, nil
	}
	v.Status = to
	if to == model.VerificationCheckedOut {
		v.CheckOutTime = &at
	} else {
		v.CheckInTime = &at
	}
	s.m.verifications[appointmentID] = v
	return true, nil
}

type memActivities struct{ m *memStore }

func (s memActivities) Append(_ context.Context, a *model.Activity) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.activities = append(s.m.activities, *a)
	return nil
}

func (s memActivities) Recent(_ context.Context, limit int) ([]model.Activity, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []model.Activity
	for i := len(s.m.activities) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.m.activities[i])
	}
	return out, nil
}

type memCounters struct{ m *memStore }

func (s memCounters) Next(_ context.Context, name string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.counters[name]++
	return s.m.counters[name], nil
}

type memDirectory struct{ m *memStore }

func (s memDirectory) Visitor(_ context.Context, id string) (*model.Visitor, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	v, ok := s.m.visitors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (s memDirectory) Host(_ context.Context, id string) (*model.Host, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	h, ok := s.m.hosts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &h, nil
}

func (s memDirectory) ResolveHost(ctx context.Context, id string) (*model.Host, error) {
	return s.Host(ctx, id)
}

func (s memDirectory) Hosts(_ context.Context) ([]model.HostSummary, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []model.HostSummary
	for _, h := range s.m.hosts {
		if h.Role == model.RoleHost {
			out = append(out, model.HostSummary{ID: h.ID, Name: h.Name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memNotifications struct{ m *memStore }

func (s memNotifications) Create(_ context.Context, n *model.Notification) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	n.ID = s.m.id("notification")
	s.m.notifications = append(s.m.notifications, *n)
	return nil
}

func (s memNotifications) List(_ context.Context, page, limit int) ([]model.Notification, int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	total := len(s.m.notifications)
	var out []model.Notification
	for i := total - 1 - (page-1)*limit; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.m.notifications[i])
	}
	return out, int64(total), nil
}

func (s memNotifications) SetRead(_ context.Context, id string, read bool) (*model.Notification, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i := range s.m.notifications {
		if s.m.notifications[i].ID == id {
			s.m.notifications[i].Read = read
			n := s.m.notifications[i]
			return &n, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memNotifications) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i := range s.m.notifications {
		if s.m.notifications[i].ID == id {
			s.m.notifications = append(s.m.notifications[:i], s.m.notifications[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// recordingSender keeps every email it is given and can be told to fail.
type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Email
	err  error
}

func (r *recordingSender) Send(_ context.Context, email notify.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, email)
	return nil
}

func (r *recordingSender) kinds() []notify.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Kind, 0, len(r.sent))
	for _, e := range r.sent {
		out = append(out, e.Kind)
	}
	return out
}
