package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/booking-platform/internal/booking"
	"github.com/example/booking-platform/internal/persistence"
	"github.com/example/booking-platform/internal/testfixtures"
)

// repoFixture wraps a migrated storage harness with one guest, one host and
// the host's hotel already inserted.
type repoFixture struct {
	t       *testing.T
	harness *testfixtures.SQLiteHarness
	guest   persistence.User
	host    persistence.User
	hotel   persistence.Hotel
}

func newRepoFixture(t *testing.T) *repoFixture {
	t.Helper()

	fx := &repoFixture{t: t, harness: testfixtures.NewSQLiteHarness(t)}
	fx.guest = fx.addUser()
	fx.host = fx.addUser()
	fx.hotel = fx.addHotel(testfixtures.OwnedBy(fx.host.ID))
	return fx
}

func (fx *repoFixture) addUser(opts ...testfixtures.UserOption) persistence.User {
	fx.t.Helper()

	user := testfixtures.NewUser(opts...)
	if err := fx.harness.Users.CreateUser(context.Background(), user); err != nil {
		fx.t.Fatalf("CreateUser(%s) failed: %v", user.ID, err)
	}
	return user
}

func (fx *repoFixture) addHotel(opts ...testfixtures.HotelOption) persistence.Hotel {
	fx.t.Helper()

	hotel := testfixtures.NewHotel(opts...)
	if err := fx.harness.Hotels.CreateHotel(context.Background(), hotel); err != nil {
		fx.t.Fatalf("CreateHotel(%s) failed: %v", hotel.ID, err)
	}
	return hotel
}

// addRoom places the room in the fixture hotel unless an InHotel option says
// otherwise.
func (fx *repoFixture) addRoom(opts ...testfixtures.RoomOption) persistence.Room {
	fx.t.Helper()

	opts = append([]testfixtures.RoomOption{testfixtures.InHotel(fx.hotel.ID, fx.host.ID)}, opts...)
	room := testfixtures.NewRoom(opts...)
	if err := fx.harness.Rooms.CreateRoom(context.Background(), room); err != nil {
		fx.t.Fatalf("CreateRoom(%s) failed: %v", room.ID, err)
	}
	return room
}

// stay builds a creation request for the fixture guest from date strings.
func (fx *repoFixture) stay(id, roomID, checkIn, checkOut string, guests int) persistence.BookingCreate {
	fx.t.Helper()

	return persistence.BookingCreate{
		ID:       id,
		GuestID:  fx.guest.ID,
		RoomID:   roomID,
		CheckIn:  mustDate(fx.t, checkIn),
		CheckOut: mustDate(fx.t, checkOut),
		Guests:   guests,
		Now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", value, err)
	}
	return d
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse(booking.DateLayout, value)
	if err != nil {
		t.Fatalf("bad date %q: %v", value, err)
	}
	return date
}
