package persistence

import (
	"context"
	"time"
)

// UserRepository exposes CRUD operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// HotelRepository exposes lookups over hotel reference data.
type HotelRepository interface {
	CreateHotel(ctx context.Context, hotel Hotel) error
	GetHotel(ctx context.Context, id string) (Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error)
}

// RoomRepository exposes CRUD and search operations for room listings.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, id string, update RoomUpdate, now time.Time) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRoomsByHost(ctx context.Context, hostID string) ([]Room, error)
	SearchRooms(ctx context.Context, search RoomSearch) ([]Room, int, error)
	DeleteRoom(ctx context.Context, id string) error
}

// BookingRepository stores reservations and owns the atomic create path: room
// lookup, capacity check, overlap check, and insert run inside one write
// transaction.
type BookingRepository interface {
	CreateBooking(ctx context.Context, create BookingCreate) (Booking, error)
	CancelBooking(ctx context.Context, id string, now time.Time) (Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	GetBookingView(ctx context.Context, id string) (BookingView, error)
	ListBookingsByGuest(ctx context.Context, guestID string) ([]BookingView, error)
	IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
