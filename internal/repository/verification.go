package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/database"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

const verificationColumns = `id, appointment_id, visitor_id, name, nic, vehicle_number, host_id,
	purpose, date, status, check_in_time, check_out_time, created_at, updated_at`

// VerificationRepository handles persistence for visitor check-in records.
type VerificationRepository struct {
	db *pgxpool.Pool
}

// NewVerificationRepository constructs a VerificationRepository.
func NewVerificationRepository(db *pgxpool.Pool) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// CreateIfAbsent inserts v unless a record for the same appointmentId exists.
// It reports whether a row was inserted.
func (r *VerificationRepository) CreateIfAbsent(ctx context.Context, v *model.VisitorVerification) (bool, error) {
	now := time.Now().UTC()
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	v.CreatedAt, v.UpdatedAt = now, now

	tag, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO visitor_verifications (`+verificationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (appointment_id) DO NOTHING`,
		v.ID, v.AppointmentID, v.VisitorID, v.Name, v.NIC, v.VehicleNumber, v.HostID,
		v.Purpose, v.Date, string(v.Status), v.CheckInTime, v.CheckOutTime, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert verification: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByAppointmentID returns the record for a human appointment id or ErrNotFound.
func (r *VerificationRepository) GetByAppointmentID(ctx context.Context, appointmentID string) (*model.VisitorVerification, error) {
	v, err := scanVerification(database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+verificationColumns+` FROM visitor_verifications WHERE appointment_id = $1`,
		appointmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get verification: %w", err)
	}
	return v, nil
}

// Reschedule moves the visit date of a record still awaiting check-in.
// It reports whether a row changed.
func (r *VerificationRepository) Reschedule(ctx context.Context, appointmentID, date string) (bool, error) {
	tag, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE visitor_verifications SET date = $2, updated_at = $3
		 WHERE appointment_id = $1 AND status = $4`,
		appointmentID, date, time.Now().UTC(), string(model.VerificationAwaiting))
	if err != nil {
		return false, fmt.Errorf("reschedule verification: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Search matches term against appointmentId or NIC, case-insensitively and
// anywhere in the value. The most recent match wins.
func (r *VerificationRepository) Search(ctx context.Context, term string) (*model.VisitorVerification, error) {
	v, err := scanVerification(database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+verificationColumns+` FROM visitor_verifications
		 WHERE appointment_id ILIKE $1 OR nic ILIKE $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		containsPattern(term)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("search verification: %w", err)
	}
	return v, nil
}

// Transition moves a record from one gate status to another, stamping the
// matching check-in or check-out time. It reports whether the record was
// still in the expected status.
func (r *VerificationRepository) Transition(ctx context.Context, appointmentID string, from, to model.VerificationStatus, at time.Time) (bool, error) {
	column := "check_in_time"
	if to == model.VerificationCheckedOut {
		column = "check_out_time"
	}
	tag, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE visitor_verifications SET status = $3, `+column+` = $4, updated_at = $4
		 WHERE appointment_id = $1 AND status = $2`,
		appointmentID, string(from), string(to), at)
	if err != nil {
		return false, fmt.Errorf("update verification: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanVerification(row pgx.Row) (*model.VisitorVerification, error) {
	var (
		v      model.VisitorVerification
		status string
	)
	err := row.Scan(&v.ID, &v.AppointmentID, &v.VisitorID, &v.Name, &v.NIC, &v.VehicleNumber, &v.HostID,
		&v.Purpose, &v.Date, &status, &v.CheckInTime, &v.CheckOutTime, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.Status = model.VerificationStatus(status)
	return &v, nil
}
