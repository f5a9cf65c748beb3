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

const slotColumns = `id, host_id, date, start_time, end_time, status, created_at, updated_at`

// AvailabilityRepository handles persistence for host availability slots.
// The (host_id, date, start_time, end_time) tuple is unique in the table.
type AvailabilityRepository struct {
	db *pgxpool.Pool
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Create inserts a slot declared by a host. A duplicate tuple yields ErrDuplicateSlot.
func (r *AvailabilityRepository) Create(ctx context.Context, slot *model.HostAvailability) error {
	now := time.Now().UTC()
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	if slot.Status == "" {
		slot.Status = model.SlotAvailable
	}
	slot.CreatedAt, slot.UpdatedAt = now, now

	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO host_availability (`+slotColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		slot.ID, slot.HostID, slot.Date, slot.StartTime, slot.EndTime, string(slot.Status),
		slot.CreatedAt, slot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("insert availability: %w", err)
	}
	return nil
}

// GetByID returns a single slot or ErrNotFound.
func (r *AvailabilityRepository) GetByID(ctx context.Context, id string) (*model.HostAvailability, error) {
	slot, err := scanSlot(database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+slotColumns+` FROM host_availability WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get availability: %w", err)
	}
	return slot, nil
}

// Find returns the slot matching the tuple or ErrNotFound.
func (r *AvailabilityRepository) Find(ctx context.Context, k model.SlotKey) (*model.HostAvailability, error) {
	slot, err := scanSlot(database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+slotColumns+` FROM host_availability
		 WHERE host_id = $1 AND date = $2 AND start_time = $3 AND end_time = $4`,
		k.HostID, k.Date, k.StartTime, k.EndTime))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find availability: %w", err)
	}
	return slot, nil
}

// Book marks the slot for k as booked, creating it when no record exists.
//
// The upsert only overwrites a row that is still available, so it acts as a
// compare-and-swap on the unique tuple: two confirmations racing for the same
// slot cannot both succeed. A slot already booked yields ErrSlotTaken.
func (r *AvailabilityRepository) Book(ctx context.Context, k model.SlotKey) (*model.HostAvailability, error) {
	now := time.Now().UTC()
	slot, err := scanSlot(database.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO host_availability (`+slotColumns+`)
		 VALUES ($1, $2, $3, $4, $5, 'booked', $6, $6)
		 ON CONFLICT ON CONSTRAINT host_availability_slot_key
		 DO UPDATE SET status = 'booked', updated_at = EXCLUDED.updated_at
		 WHERE host_availability.status = 'available'
		 RETURNING `+slotColumns,
		uuid.New().String(), k.HostID, k.Date, k.StartTime, k.EndTime, now,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("book availability: %w", err)
	}
	return slot, nil
}

// MarkAvailable releases a booked slot back to the pool.
func (r *AvailabilityRepository) MarkAvailable(ctx context.Context, k model.SlotKey) error {
	tag, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE host_availability SET status = 'available', updated_at = $5
		 WHERE host_id = $1 AND date = $2 AND start_time = $3 AND end_time = $4 AND status = 'booked'`,
		k.HostID, k.Date, k.StartTime, k.EndTime, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("release availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBooked removes the booked record for k. It reports whether one existed.
func (r *AvailabilityRepository) DeleteBooked(ctx context.Context, k model.SlotKey) (bool, error) {
	tag, err := database.Conn(ctx, r.db).Exec(ctx,
		`DELETE FROM host_availability
		 WHERE host_id = $1 AND date = $2 AND start_time = $3 AND end_time = $4 AND status = 'booked'`,
		k.HostID, k.Date, k.StartTime, k.EndTime)
	if err != nil {
		return false, fmt.Errorf("delete booked availability: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAvailable removes a slot by id only while it is still available, so a
// booking that lands concurrently is never deleted. A booked slot yields
// ErrSlotTaken and an unknown id ErrNotFound.
func (r *AvailabilityRepository) DeleteAvailable(ctx context.Context, id string) error {
	tag, err := database.Conn(ctx, r.db).Exec(ctx,
		`DELETE FROM host_availability WHERE id::text = $1 AND status = 'available'`, id)
	if err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrSlotTaken
}

// ListByHost returns every slot of a host in chronological order.
func (r *AvailabilityRepository) ListByHost(ctx context.Context, hostID string) ([]model.HostAvailability, error) {
	return r.list(ctx,
		`SELECT `+slotColumns+` FROM host_availability
		 WHERE host_id = $1
		 ORDER BY date, start_time`,
		hostID)
}

// ListAvailable returns the host's available slots dated fromDate or later.
// ISO dates compare correctly as strings.
func (r *AvailabilityRepository) ListAvailable(ctx context.Context, hostID, fromDate string) ([]model.HostAvailability, error) {
	return r.list(ctx,
		`SELECT `+slotColumns+` FROM host_availability
		 WHERE host_id = $1 AND status = 'available' AND date >= $2
		 ORDER BY date, start_time`,
		hostID, fromDate)
}

func (r *AvailabilityRepository) list(ctx context.Context, query string, args ...any) ([]model.HostAvailability, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	defer rows.Close()

	var slots []model.HostAvailability
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		slots = append(slots, *slot)
	}
	return slots, rows.Err()
}

func scanSlot(row pgx.Row) (*model.HostAvailability, error) {
	var (
		s      model.HostAvailability
		status string
	)
	if err := row.Scan(&s.ID, &s.HostID, &s.Date, &s.StartTime, &s.EndTime, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Status = model.SlotStatus(status)
	return &s, nil
}
