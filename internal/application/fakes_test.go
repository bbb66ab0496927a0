package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/booking-platform/internal/booking"
	"github.com/example/booking-platform/internal/persistence"
)

// fakeRoomInfo is the room state the fake booking repository checks during
// creation, mirroring the row the real transaction reads.
type fakeRoomInfo struct {
	Price     string
	Capacity  int
	Available bool
}

type fakeBookingRepo struct {
	mu        sync.Mutex
	rooms     map[string]fakeRoomInfo
	bookings  map[string]persistence.Booking
	listCalls int
	viewCalls int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		rooms:    map[string]fakeRoomInfo{},
		bookings: map[string]persistence.Booking{},
	}
}

func (f *fakeBookingRepo) CreateBooking(ctx context.Context, create persistence.BookingCreate) (persistence.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[create.RoomID]
	if !ok {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	if !room.Available {
		return persistence.Booking{}, persistence.ErrRoomUnavailable
	}
	if create.Guests > room.Capacity {
		return persistence.Booking{}, &persistence.CapacityExceededError{Max: room.Capacity}
	}
	for _, existing := range f.bookings {
		if existing.RoomID != create.RoomID || existing.Status != persistence.BookingConfirmed {
			continue
		}
		if booking.Overlaps(create.CheckIn, create.CheckOut, existing.CheckIn, existing.CheckOut) {
			return persistence.Booking{}, persistence.ErrOverlap
		}
	}

	stored := persistence.Booking{
		ID:              create.ID,
		GuestID:         create.GuestID,
		RoomID:          create.RoomID,
		CheckIn:         create.CheckIn,
		CheckOut:        create.CheckOut,
		Guests:          create.Guests,
		TotalPrice:      booking.StayPrice(mustParseDecimal(room.Price), create.CheckIn, create.CheckOut),
		Status:          persistence.BookingConfirmed,
		SpecialRequests: create.SpecialRequests,
		CreatedAt:       create.Now,
		UpdatedAt:       create.Now,
	}
	f.bookings[stored.ID] = stored
	return stored, nil
}

func (f *fakeBookingRepo) CancelBooking(ctx context.Context, id string, now time.Time) (persistence.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.bookings[id]
	if !ok {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	if stored.Status != persistence.BookingConfirmed {
		return persistence.Booking{}, persistence.ErrConstraintViolation
	}
	stored.Status = persistence.BookingCancelled
	stored.UpdatedAt = now
	f.bookings[id] = stored
	return stored, nil
}

func (f *fakeBookingRepo) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.bookings[id]
	if !ok {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	return stored, nil
}

func (f *fakeBookingRepo) GetBookingView(ctx context.Context, id string) (persistence.BookingView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.viewCalls++
	stored, ok := f.bookings[id]
	if !ok {
		return persistence.BookingView{}, persistence.ErrNotFound
	}
	return persistence.BookingView{
		Booking:   stored,
		RoomType:  "double",
		HotelID:   "hotel-1",
		HotelName: "Fake Hotel",
		HotelCity: "Lisbon",
	}, nil
}

func (f *fakeBookingRepo) ListBookingsByGuest(ctx context.Context, guestID string) ([]persistence.BookingView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	var views []persistence.BookingView
	for _, stored := range f.bookings {
		if stored.GuestID != guestID {
			continue
		}
		views = append(views, persistence.BookingView{Booking: stored, RoomType: "double", HotelID: "hotel-1"})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CheckIn.After(views[j].CheckIn) })
	return views, nil
}

func (f *fakeBookingRepo) IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.bookings {
		if existing.RoomID != roomID || existing.Status != persistence.BookingConfirmed || existing.ID == excludeBookingID {
			continue
		}
		if booking.Overlaps(checkIn, checkOut, existing.CheckIn, existing.CheckOut) {
			return false, nil
		}
	}
	return true, nil
}

type fakeRoomRepo struct {
	mu            sync.Mutex
	rooms         map[string]persistence.Room
	searchResult  []persistence.Room
	searchTotal   int
	searchCalls   int
	lastSearch    persistence.RoomSearch
	lastUpdate    persistence.RoomUpdate
	deletedRoomID string
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: map[string]persistence.Room{}}
}

func (f *fakeRoomRepo) CreateRoom(ctx context.Context, room persistence.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rooms[room.ID]; ok {
		return persistence.ErrDuplicate
	}
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRoomRepo) UpdateRoom(ctx context.Context, id string, update persistence.RoomUpdate, now time.Time) (persistence.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	f.lastUpdate = update

	if update.RoomType != nil {
		room.RoomType = *update.RoomType
	}
	if update.Description != nil {
		room.Description = *update.Description
	}
	if update.PricePerNight != nil {
		room.PricePerNight = *update.PricePerNight
	}
	if update.Capacity != nil {
		room.Capacity = *update.Capacity
	}
	if update.Available != nil {
		room.Available = *update.Available
	}
	if update.Amenities != nil {
		room.Amenities = update.Amenities
	}
	room.UpdatedAt = now
	f.rooms[id] = room
	return room, nil
}

func (f *fakeRoomRepo) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return room, nil
}

func (f *fakeRoomRepo) ListRoomsByHost(ctx context.Context, hostID string) ([]persistence.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var rooms []persistence.Room
	for _, room := range f.rooms {
		if room.HostID == hostID {
			rooms = append(rooms, room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (f *fakeRoomRepo) SearchRooms(ctx context.Context, search persistence.RoomSearch) ([]persistence.Room, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.searchCalls++
	f.lastSearch = search
	return f.searchResult, f.searchTotal, nil
}

func (f *fakeRoomRepo) DeleteRoom(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(f.rooms, id)
	f.deletedRoomID = id
	return nil
}

type fakeHotelCatalog struct {
	hotels    map[string]persistence.Hotel
	listCalls int
}

func newFakeHotelCatalog(hotels ...persistence.Hotel) *fakeHotelCatalog {
	catalog := &fakeHotelCatalog{hotels: map[string]persistence.Hotel{}}
	for _, hotel := range hotels {
		catalog.hotels[hotel.ID] = hotel
	}
	return catalog
}

func (f *fakeHotelCatalog) GetHotel(ctx context.Context, id string) (persistence.Hotel, error) {
	hotel, ok := f.hotels[id]
	if !ok {
		return persistence.Hotel{}, persistence.ErrNotFound
	}
	return hotel, nil
}

func (f *fakeHotelCatalog) ListHotels(ctx context.Context) ([]persistence.Hotel, error) {
	f.listCalls++
	var hotels []persistence.Hotel
	for _, hotel := range f.hotels {
		hotels = append(hotels, hotel)
	}
	sort.Slice(hotels, func(i, j int) bool { return hotels[i].ID < hotels[j].ID })
	return hotels, nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]persistence.User
}

func newFakeUserStore(users ...persistence.User) *fakeUserStore {
	store := &fakeUserStore{users: map[string]persistence.User{}}
	for _, user := range users {
		store.users[user.ID] = user
	}
	return store
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user persistence.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return persistence.ErrDuplicate
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdateUser(ctx context.Context, user persistence.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.ID]; !ok {
		return persistence.ErrNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetUser(ctx context.Context, id string) (persistence.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]persistence.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]persistence.Session{}}
}

func (f *fakeSessionStore) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sessions[session.Token] = session
	return session, nil
}

func (f *fakeSessionStore) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (f *fakeSessionStore) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[token]
	if !ok || session.RevokedAt != nil {
		return persistence.Session{}, persistence.ErrNotFound
	}
	session.RevokedAt = &revokedAt
	f.sessions[token] = session
	return session, nil
}

func (f *fakeSessionStore) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for token, session := range f.sessions {
		if session.ExpiresAt.Before(reference) {
			delete(f.sessions, token)
		}
	}
	return nil
}
