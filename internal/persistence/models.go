package persistence

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus enumerates the lifecycle states of a booking row.
type BookingStatus string

const (
	// BookingConfirmed is the state of an active reservation.
	BookingConfirmed BookingStatus = "confirmed"
	// BookingCancelled is the terminal state; cancelled rows are kept for audit.
	BookingCancelled BookingStatus = "cancelled"
)

// User represents a platform account (host or guest).
type User struct {
	ID           string
	Email        string
	DisplayName  string
	IsAdmin      bool
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Hotel represents reference data owned by a host.
type Hotel struct {
	ID        string
	HostID    string
	Name      string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Room represents a bookable room listing.
type Room struct {
	ID            string
	HotelID       string
	HostID        string
	RoomType      string
	Description   string
	PricePerNight decimal.Decimal
	Capacity      int
	Available     bool
	Amenities     []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RoomUpdate carries the allow-listed mutable room fields. Nil fields are left
// untouched; id, host_id, and hotel_id are deliberately absent.
type RoomUpdate struct {
	RoomType      *string
	Description   *string
	PricePerNight *decimal.Decimal
	Capacity      *int
	Available     *bool
	Amenities     []string
}

// Booking represents a reservation row. Check-in is inclusive, check-out
// exclusive.
type Booking struct {
	ID              string
	GuestID         string
	RoomID          string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	TotalPrice      decimal.Decimal
	Status          BookingStatus
	SpecialRequests string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookingCreate captures the inputs of the atomic booking transaction. Total
// price is computed inside the transaction from the room row it locks.
type BookingCreate struct {
	ID              string
	GuestID         string
	RoomID          string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	SpecialRequests string
	Now             time.Time
}

// BookingView joins a booking with the denormalized room and hotel display
// fields returned to callers.
type BookingView struct {
	Booking
	RoomType  string
	HotelID   string
	HotelName string
	HotelCity string
}

// RoomSearch narrows room search queries. Nil fields are unconstrained. When
// both CheckIn and CheckOut are set, rooms with a conflicting confirmed booking
// are excluded.
type RoomSearch struct {
	City     string
	RoomType string
	Guests   *int
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	CheckIn  *time.Time
	CheckOut *time.Time
	Limit    int
	Offset   int
}

// Session represents an authentication session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}
