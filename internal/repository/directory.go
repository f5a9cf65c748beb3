package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/database"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

// DirectoryRepository reads visitors and staff maintained by the registration subsystem.
type DirectoryRepository struct {
	db *pgxpool.Pool
}

// NewDirectoryRepository constructs a DirectoryRepository.
func NewDirectoryRepository(db *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// Visitor returns a registered visitor or ErrNotFound.
func (r *DirectoryRepository) Visitor(ctx context.Context, id string) (*model.Visitor, error) {
	var v model.Visitor
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, first_name, last_name, email, phone_number, nic_number
		 FROM visitors WHERE id = $1`, id,
	).Scan(&v.ID, &v.FirstName, &v.LastName, &v.Email, &v.Phone, &v.NIC)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get visitor: %w", err)
	}
	return &v, nil
}

// Host returns a staff member or ErrNotFound.
func (r *DirectoryRepository) Host(ctx context.Context, id string) (*model.Host, error) {
	var h model.Host
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, name, email, phone, role, faculty, department
		 FROM staff WHERE id = $1`, id,
	).Scan(&h.ID, &h.Name, &h.Email, &h.Phone, &h.Role, &h.Faculty, &h.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get host: %w", err)
	}
	return &h, nil
}

// Hosts lists staff with the host role, ordered by name.
func (r *DirectoryRepository) Hosts(ctx context.Context) ([]model.HostSummary, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx,
		`SELECT id, name FROM staff WHERE role = $1 ORDER BY name`, model.RoleHost)
	if err != nil {
		return nil, fmt.Errorf("list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []model.HostSummary
	for rows.Next() {
		var h model.HostSummary
		if err := rows.Scan(&h.ID, &h.Name); err != nil {
			return nil, fmt.Errorf("scan host: %w", err)
		}
		hosts = append(hosts, h)
	}
	return hosts, rows.Err()
}
