package sqlite

import (
	"context"
	"fmt"
)

// schemaStatements is the idempotent bootstrap DDL. Dates are stored as
// ISO-8601 calendar dates (no timezone component), money as fixed-point
// decimal strings.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		display_name  TEXT NOT NULL,
		is_admin      INTEGER NOT NULL DEFAULT 0,
		password_hash TEXT NOT NULL,
		disabled      INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS hotels (
		id         TEXT PRIMARY KEY,
		host_id    TEXT NOT NULL REFERENCES users(id),
		name       TEXT NOT NULL,
		city       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id              TEXT PRIMARY KEY,
		hotel_id        TEXT NOT NULL REFERENCES hotels(id),
		host_id         TEXT NOT NULL REFERENCES users(id),
		room_type       TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		price_per_night TEXT NOT NULL,
		capacity        INTEGER NOT NULL CHECK (capacity > 0),
		available       INTEGER NOT NULL DEFAULT 1,
		amenities       TEXT NOT NULL DEFAULT '[]',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id               TEXT PRIMARY KEY,
		guest_id         TEXT NOT NULL REFERENCES users(id),
		room_id          TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		check_in         TEXT NOT NULL,
		check_out        TEXT NOT NULL,
		guests           INTEGER NOT NULL CHECK (guests > 0),
		total_price      TEXT NOT NULL,
		status           TEXT NOT NULL CHECK (status IN ('confirmed', 'cancelled')),
		special_requests TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		CHECK (check_in < check_out)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_room_status ON bookings(room_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_guest ON bookings(guest_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rooms_city_lookup ON rooms(hotel_id, available)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id),
		token      TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		revoked_at TEXT
	)`,
}

// Migrate applies the embedded schema. Safe to run repeatedly.
func (s *Storage) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
