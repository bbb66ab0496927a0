// Package sqlite implements the persistence repositories over a single
// authoritative SQLite database.
package sqlite

import (
	"context"
)

// Storage bundles the SQLite-backed repositories behind one handle with an
// explicit lifecycle: Open at startup, Migrate once, Close on shutdown.
type Storage struct {
	pool *ConnectionPool

	*UserRepository
	*HotelRepository
	*RoomRepository
	*BookingRepository
	*SessionRepository
}

// Open connects to the database identified by dsn and wires the repositories.
func Open(dsn string) (*Storage, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}

	return &Storage{
		pool:              pool,
		UserRepository:    NewUserRepository(pool),
		HotelRepository:   NewHotelRepository(pool),
		RoomRepository:    NewRoomRepository(pool),
		BookingRepository: NewBookingRepository(pool),
		SessionRepository: NewSessionRepository(pool),
	}, nil
}

// Ping verifies database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}
