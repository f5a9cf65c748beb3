package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/database"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

var appointmentColumns = []any{
	"id", "appointment_id", "visitor_id", "host_id", "first_name", "last_name",
	"contact", "vehicle", "category", "reason", "requested_at", "status",
	"response_date", "response_start_time", "response_end_time", "response_type",
	"available_time_slots",
	"selected_slot_id", "selected_date", "selected_start_time", "selected_end_time",
	"updated_at",
}

// AppointmentFilter narrows List and Count.
type AppointmentFilter struct {
	VisitorID string
	HostID    string
	Statuses  []model.AppointmentStatus
	// DatedOnly keeps appointments whose response carries a date.
	DatedOnly bool
	Limit     int
}

// AppointmentRepository handles persistence for appointments.
type AppointmentRepository struct {
	db *pgxpool.Pool
}

// NewAppointmentRepository constructs an AppointmentRepository.
func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create inserts a new appointment.
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO appointments (
			id, appointment_id, visitor_id, host_id, first_name, last_name,
			contact, vehicle, category, reason, requested_at, status,
			response_date, response_start_time, response_end_time, response_type,
			available_time_slots,
			selected_slot_id, selected_date, selected_start_time, selected_end_time,
			updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		a.ID, a.AppointmentID, a.VisitorID, a.HostID, a.FirstName, a.LastName,
		a.Contact, a.Vehicle, a.Category, a.Reason, a.RequestedAt, string(a.Status),
		a.Response.Date, a.Response.StartTime, a.Response.EndTime, string(a.Response.ResponseType),
		offeredSlots(a.AvailableTimeSlots),
		a.SelectedTimeSlot.SlotID, a.SelectedTimeSlot.Date, a.SelectedTimeSlot.StartTime, a.SelectedTimeSlot.EndTime,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// GetByRef finds an appointment by system id or by human appointmentId.
func (r *AppointmentRepository) GetByRef(ctx context.Context, ref string) (*model.Appointment, error) {
	query, args, err := dialect.From("appointments").
		Select(appointmentColumns...).
		Where(goqu.Or(
			goqu.L("id::text = ?", ref),
			goqu.C("appointment_id").Eq(ref),
		)).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build appointment query: %w", err)
	}

	a, err := scanAppointment(database.Conn(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// Update writes every mutable field of the appointment.
func (r *AppointmentRepository) Update(ctx context.Context, a *model.Appointment) error {
	a.UpdatedAt = time.Now().UTC()
	tag, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE appointments SET
			appointment_id = $2, status = $3,
			response_date = $4, response_start_time = $5, response_end_time = $6, response_type = $7,
			available_time_slots = $8,
			selected_slot_id = $9, selected_date = $10, selected_start_time = $11, selected_end_time = $12,
			updated_at = $13
		 WHERE id = $1`,
		a.ID, a.AppointmentID, string(a.Status),
		a.Response.Date, a.Response.StartTime, a.Response.EndTime, string(a.Response.ResponseType),
		offeredSlots(a.AvailableTimeSlots),
		a.SelectedTimeSlot.SlotID, a.SelectedTimeSlot.Date, a.SelectedTimeSlot.StartTime, a.SelectedTimeSlot.EndTime,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CompareAndSetStatus moves an appointment from one status to another only if
// it is still in the expected one. It reports whether a row changed.
// The stored status is compared case-insensitively, matching scanAppointment.
func (r *AppointmentRepository) CompareAndSetStatus(ctx context.Context, id string, from, to model.AppointmentStatus) (bool, error) {
	tag, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE appointments SET status = $3, updated_at = $4
		 WHERE id = $1 AND lower(status) = lower($2)`,
		id, string(from), string(to), time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("set appointment status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes an appointment by system id.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	tag, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM appointments WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns appointments matching f, newest request first.
func (r *AppointmentRepository) List(ctx context.Context, f AppointmentFilter) ([]model.Appointment, error) {
	ds := dialect.From("appointments").
		Select(appointmentColumns...).
		Where(filterExpressions(f)...).
		Order(goqu.C("requested_at").Desc())
	if f.Limit > 0 {
		ds = ds.Limit(uint(f.Limit))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build appointment list: %w", err)
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Count returns the number of appointments matching f.
func (r *AppointmentRepository) Count(ctx context.Context, f AppointmentFilter) (int, error) {
	query, args, err := dialect.From("appointments").
		Select(goqu.COUNT("*")).
		Where(filterExpressions(f)...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build appointment count: %w", err)
	}

	var n int
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}

func filterExpressions(f AppointmentFilter) []exp.Expression {
	var exps []exp.Expression
	if f.VisitorID != "" {
		exps = append(exps, goqu.C("visitor_id").Eq(f.VisitorID))
	}
	if f.HostID != "" {
		exps = append(exps, goqu.C("host_id").Eq(f.HostID))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = strings.ToLower(string(s))
		}
		exps = append(exps, goqu.Func("LOWER", goqu.C("status")).In(statuses))
	}
	if f.DatedOnly {
		exps = append(exps, goqu.C("response_date").Neq(""))
	}
	return exps
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var (
		a            model.Appointment
		status       string
		responseType string
	)
	err := row.Scan(
		&a.ID, &a.AppointmentID, &a.VisitorID, &a.HostID, &a.FirstName, &a.LastName,
		&a.Contact, &a.Vehicle, &a.Category, &a.Reason, &a.RequestedAt, &status,
		&a.Response.Date, &a.Response.StartTime, &a.Response.EndTime, &responseType,
		&a.AvailableTimeSlots,
		&a.SelectedTimeSlot.SlotID, &a.SelectedTimeSlot.Date, &a.SelectedTimeSlot.StartTime, &a.SelectedTimeSlot.EndTime,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Rows written before the casing was unified may say "Completed" or "incompleted".
	if st, ok := model.ParseStatus(status); ok {
		a.Status = st
	} else {
		a.Status = model.AppointmentStatus(status)
	}
	a.Response.ResponseType = model.ResponseType(responseType)
	return &a, nil
}

// offeredSlots keeps the JSONB column an array even when nothing is offered.
func offeredSlots(slots []model.TimeSlot) []model.TimeSlot {
	if slots == nil {
		return []model.TimeSlot{}
	}
	return slots
}
