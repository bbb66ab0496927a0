package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/booking-platform/internal/persistence"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// BookingInput captures caller provided booking fields. Dates are calendar
// dates; time-of-day is discarded.
type BookingInput struct {
	RoomID          string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	SpecialRequests string
}

// CreateBookingParams wraps the data required to create a booking.
type CreateBookingParams struct {
	Principal Principal
	Input     BookingInput
}

// RoomInput captures caller provided room fields for creation.
type RoomInput struct {
	HotelID       string
	RoomType      string
	Description   string
	PricePerNight decimal.Decimal
	Capacity      int
	Available     bool
	Amenities     []string
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// RoomUpdateInput carries the allow-listed mutable room fields; nil fields are
// untouched. Identity and ownership fields are deliberately not updatable.
type RoomUpdateInput struct {
	RoomType      *string
	Description   *string
	PricePerNight *decimal.Decimal
	Capacity      *int
	Available     *bool
	Amenities     []string
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    string
	Input     RoomUpdateInput
}

// SearchRoomsParams narrows room searches. Optional fields are nil/empty when
// absent. Dates come as a pair or not at all.
type SearchRoomsParams struct {
	City     string
	RoomType string
	Guests   *int
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	CheckIn  *time.Time
	CheckOut *time.Time
	Page     int
	Limit    int
}

// Pagination describes the page window of a search result.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// SearchRoomsResult is one page of rooms plus its pagination block.
type SearchRoomsResult struct {
	Rooms      []persistence.Room `json:"rooms"`
	Pagination Pagination         `json:"pagination"`
}

// RegisterInput captures caller provided fields for account creation.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// UpdateProfileParams wraps a user profile mutation.
type UpdateProfileParams struct {
	Principal   Principal
	UserID      string
	DisplayName string
}

// AuthenticateResult bundles the verified principal with its issued session.
type AuthenticateResult struct {
	Principal Principal
	Session   persistence.Session
}
