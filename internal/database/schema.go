package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup. Every statement is idempotent.
//
// visitors and staff are owned by the registration subsystem; they are
// declared here so a fresh database can serve lookups.
const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id           TEXT PRIMARY KEY,
	first_name   TEXT NOT NULL,
	last_name    TEXT NOT NULL,
	email        TEXT NOT NULL UNIQUE,
	phone_number TEXT NOT NULL DEFAULT '',
	nic_number   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS staff (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	role       TEXT NOT NULL DEFAULT '',
	faculty    TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS counters (
	name TEXT PRIMARY KEY,
	seq  BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS appointments (
	id                   UUID PRIMARY KEY,
	appointment_id       TEXT NOT NULL UNIQUE,
	visitor_id           TEXT NOT NULL,
	host_id              TEXT NOT NULL,
	first_name           TEXT NOT NULL,
	last_name            TEXT NOT NULL,
	contact              TEXT NOT NULL,
	vehicle              TEXT NOT NULL DEFAULT '',
	category             TEXT NOT NULL,
	reason               TEXT NOT NULL,
	requested_at         TIMESTAMPTZ NOT NULL,
	status               TEXT NOT NULL,
	response_date        TEXT NOT NULL DEFAULT '',
	response_start_time  TEXT NOT NULL DEFAULT '',
	response_end_time    TEXT NOT NULL DEFAULT '',
	response_type        TEXT NOT NULL DEFAULT '',
	available_time_slots JSONB NOT NULL DEFAULT '[]',
	selected_slot_id     TEXT NOT NULL DEFAULT '',
	selected_date        TEXT NOT NULL DEFAULT '',
	selected_start_time  TEXT NOT NULL DEFAULT '',
	selected_end_time    TEXT NOT NULL DEFAULT '',
	updated_at           TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS appointments_visitor_idx ON appointments (visitor_id);
CREATE INDEX IF NOT EXISTS appointments_host_status_idx ON appointments (host_id, lower(status));
CREATE INDEX IF NOT EXISTS appointments_status_date_idx ON appointments (lower(status), response_date);

-- Older rows spell the terminal statuses "Completed" and "incompleted".
UPDATE appointments SET status = 'completed'
	WHERE lower(status) = 'completed' AND status <> 'completed';
UPDATE appointments SET status = 'Incompleted'
	WHERE lower(status) = 'incompleted' AND status <> 'Incompleted';

CREATE TABLE IF NOT EXISTS host_availability (
	id         UUID PRIMARY KEY,
	host_id    TEXT NOT NULL,
	date       TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time   TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'available',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT host_availability_slot_key UNIQUE (host_id, date, start_time, end_time)
);

CREATE TABLE IF NOT EXISTS visitor_verifications (
	id             UUID PRIMARY KEY,
	appointment_id TEXT NOT NULL UNIQUE,
	visitor_id     TEXT NOT NULL,
	name           TEXT NOT NULL,
	nic            TEXT NOT NULL DEFAULT '',
	vehicle_number TEXT NOT NULL DEFAULT '',
	host_id        TEXT NOT NULL,
	purpose        TEXT NOT NULL DEFAULT '',
	date           TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL,
	check_in_time  TIMESTAMPTZ,
	check_out_time TIMESTAMPTZ,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS activities (
	id         UUID PRIMARY KEY,
	visitor_id TEXT NOT NULL,
	name       TEXT NOT NULL,
	action     TEXT NOT NULL,
	timestamp  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS activities_timestamp_idx ON activities (timestamp DESC);

CREATE TABLE IF NOT EXISTS notifications (
	id         UUID PRIMARY KEY,
	message    TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT 'general',
	read       BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the tables and indexes the service needs.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
