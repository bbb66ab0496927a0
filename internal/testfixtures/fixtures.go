package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/booking-platform/internal/persistence"
)

var (
	userCounter  uint64
	hotelCounter uint64
	roomCounter  uint64
)

var referenceTime = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// Date is shorthand for a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// UserOption configures a generated user fixture.
type UserOption func(*persistence.User)

// AsAdmin marks the user as an administrator.
func AsAdmin() UserOption {
	return func(u *persistence.User) { u.IsAdmin = true }
}

// WithEmail overrides the generated email address.
func WithEmail(email string) UserOption {
	return func(u *persistence.User) { u.Email = email }
}

// WithPasswordHash overrides the stored password hash.
func WithPasswordHash(hash string) UserOption {
	return func(u *persistence.User) { u.PasswordHash = hash }
}

// NewUser returns a deterministic user record with optional overrides.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	user := persistence.User{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("User %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// HotelOption configures a generated hotel fixture.
type HotelOption func(*persistence.Hotel)

// WithCity overrides the hotel city.
func WithCity(city string) HotelOption {
	return func(h *persistence.Hotel) { h.City = city }
}

// OwnedBy assigns the hotel to the given host.
func OwnedBy(hostID string) HotelOption {
	return func(h *persistence.Hotel) { h.HostID = hostID }
}

// NewHotel returns a deterministic hotel record with optional overrides.
func NewHotel(opts ...HotelOption) persistence.Hotel {
	idx := atomic.AddUint64(&hotelCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	hotel := persistence.Hotel{
		ID:        fmt.Sprintf("hotel-%03d", idx),
		HostID:    fmt.Sprintf("host-%03d", idx),
		Name:      fmt.Sprintf("Hotel %03d", idx),
		City:      "Lisbon",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&hotel)
	}
	return hotel
}

// RoomOption configures a generated room fixture.
type RoomOption func(*persistence.Room)

// InHotel places the room in the given hotel under the given host.
func InHotel(hotelID, hostID string) RoomOption {
	return func(r *persistence.Room) {
		r.HotelID = hotelID
		r.HostID = hostID
	}
}

// WithRoomType overrides the room type.
func WithRoomType(roomType string) RoomOption {
	return func(r *persistence.Room) { r.RoomType = roomType }
}

// WithAmenities overrides the amenity list.
func WithAmenities(amenities ...string) RoomOption {
	return func(r *persistence.Room) { r.Amenities = amenities }
}

// WithNightlyPrice overrides the nightly price.
func WithNightlyPrice(price string) RoomOption {
	return func(r *persistence.Room) { r.PricePerNight = decimal.RequireFromString(price) }
}

// WithCapacity overrides the room capacity.
func WithCapacity(capacity int) RoomOption {
	return func(r *persistence.Room) { r.Capacity = capacity }
}

// Unavailable marks the room as not bookable.
func Unavailable() RoomOption {
	return func(r *persistence.Room) { r.Available = false }
}

// NewRoom returns a deterministic room record with optional overrides.
func NewRoom(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	room := persistence.Room{
		ID:            fmt.Sprintf("room-%03d", idx),
		HotelID:       fmt.Sprintf("hotel-%03d", idx),
		HostID:        fmt.Sprintf("host-%03d", idx),
		RoomType:      "double",
		Description:   fmt.Sprintf("Room %03d", idx),
		PricePerNight: decimal.RequireFromString("100.00"),
		Capacity:      2,
		Available:     true,
		Amenities:     []string{"wifi"},
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}
