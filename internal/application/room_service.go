package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/booking-platform/internal/booking"
	"github.com/example/booking-platform/internal/cache"
	"github.com/example/booking-platform/internal/persistence"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// RoomRepository captures the persistence interactions needed by the room service.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room persistence.Room) error
	UpdateRoom(ctx context.Context, id string, update persistence.RoomUpdate, now time.Time) (persistence.Room, error)
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
	ListRoomsByHost(ctx context.Context, hostID string) ([]persistence.Room, error)
	SearchRooms(ctx context.Context, search persistence.RoomSearch) ([]persistence.Room, int, error)
	DeleteRoom(ctx context.Context, id string) error
}

// HotelCatalog exposes hotel reference data lookups.
type HotelCatalog interface {
	GetHotel(ctx context.Context, id string) (persistence.Hotel, error)
	ListHotels(ctx context.Context) ([]persistence.Hotel, error)
}

// RoomService orchestrates room CRUD and cached search.
type RoomService struct {
	rooms       RoomRepository
	hotels      HotelCatalog
	store       cache.Store
	invalidator *cache.Invalidator
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService wires dependencies for room operations.
func NewRoomService(rooms RoomRepository, hotels HotelCatalog, store cache.Store, invalidator *cache.Invalidator, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:       rooms,
		hotels:      hotels,
		store:       store,
		invalidator: invalidator,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom lists a new room under a hotel the caller hosts.
func (s *RoomService) CreateRoom(ctx context.Context, params CreateRoomParams) (persistence.Room, error) {
	if s == nil || s.rooms == nil {
		return persistence.Room{}, fmt.Errorf("room repository not configured")
	}

	input := params.Input
	principal := params.Principal
	logger := s.loggerWith(ctx, "CreateRoom", "hotel_id", input.HotelID, "host_id", principal.UserID)

	vErr := &ValidationError{}
	if input.HotelID == "" {
		vErr.add("hotel_id", "hotel_id is required")
	}
	if input.RoomType == "" {
		vErr.add("room_type", "room_type is required")
	}
	if input.Capacity < 1 {
		vErr.add("capacity", "capacity must be positive")
	}
	if input.PricePerNight.LessThanOrEqual(decimal.Zero) {
		vErr.add("price_per_night", "price_per_night must be positive")
	}
	if vErr.HasErrors() {
		return persistence.Room{}, vErr
	}

	hotel, err := s.hotels.GetHotel(ctx, input.HotelID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			vErr.add("hotel_id", "hotel does not exist")
			return persistence.Room{}, vErr
		}
		return persistence.Room{}, err
	}
	if hotel.HostID != principal.UserID && !principal.IsAdmin {
		return persistence.Room{}, ErrUnauthorized
	}

	now := s.now().UTC()
	room := persistence.Room{
		ID:            s.idGenerator(),
		HotelID:       input.HotelID,
		HostID:        hotel.HostID,
		RoomType:      input.RoomType,
		Description:   input.Description,
		PricePerNight: input.PricePerNight.Round(2),
		Capacity:      input.Capacity,
		Available:     input.Available,
		Amenities:     input.Amenities,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		mapped := mapRoomRepoError(err)
		logger.ErrorContext(ctx, "room creation failed", "error", err, "error_kind", ErrorKind(mapped))
		return persistence.Room{}, mapped
	}

	s.invalidate(ctx, cache.Mutation{
		Kind:   cache.MutationRoomCreated,
		RoomID: room.ID,
		HostID: room.HostID,
	})

	logger.InfoContext(ctx, "room created", "room_id", room.ID)
	return room, nil
}

// UpdateRoom applies allow-listed field changes to a room the caller owns.
func (s *RoomService) UpdateRoom(ctx context.Context, params UpdateRoomParams) (persistence.Room, error) {
	if s == nil || s.rooms == nil {
		return persistence.Room{}, fmt.Errorf("room repository not configured")
	}

	principal := params.Principal
	logger := s.loggerWith(ctx, "UpdateRoom", "room_id", params.RoomID, "host_id", principal.UserID)

	existing, err := s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		return persistence.Room{}, mapRoomRepoError(err)
	}
	if existing.HostID != principal.UserID && !principal.IsAdmin {
		return persistence.Room{}, ErrNotFound
	}

	input := params.Input
	vErr := &ValidationError{}
	if input.RoomType != nil && *input.RoomType == "" {
		vErr.add("room_type", "room_type cannot be empty")
	}
	if input.Capacity != nil && *input.Capacity < 1 {
		vErr.add("capacity", "capacity must be positive")
	}
	if input.PricePerNight != nil && input.PricePerNight.LessThanOrEqual(decimal.Zero) {
		vErr.add("price_per_night", "price_per_night must be positive")
	}
	if vErr.HasErrors() {
		return persistence.Room{}, vErr
	}

	updated, err := s.rooms.UpdateRoom(ctx, params.RoomID, persistence.RoomUpdate{
		RoomType:      input.RoomType,
		Description:   input.Description,
		PricePerNight: input.PricePerNight,
		Capacity:      input.Capacity,
		Available:     input.Available,
		Amenities:     input.Amenities,
	}, s.now())
	if err != nil {
		mapped := mapRoomRepoError(err)
		logger.ErrorContext(ctx, "room update failed", "error", err, "error_kind", ErrorKind(mapped))
		return persistence.Room{}, mapped
	}

	s.invalidate(ctx, cache.Mutation{
		Kind:   cache.MutationRoomUpdated,
		RoomID: updated.ID,
		HostID: updated.HostID,
	})

	logger.InfoContext(ctx, "room updated")
	return updated, nil
}

// DeleteRoom removes a room the caller owns; its bookings cascade away.
func (s *RoomService) DeleteRoom(ctx context.Context, principal Principal, roomID string) error {
	if s == nil || s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteRoom", "room_id", roomID, "host_id", principal.UserID)

	existing, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return mapRoomRepoError(err)
	}
	if existing.HostID != principal.UserID && !principal.IsAdmin {
		return ErrNotFound
	}

	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		mapped := mapRoomRepoError(err)
		logger.ErrorContext(ctx, "room deletion failed", "error", err, "error_kind", ErrorKind(mapped))
		return mapped
	}

	s.invalidate(ctx, cache.Mutation{
		Kind:   cache.MutationRoomDeleted,
		RoomID: roomID,
		HostID: existing.HostID,
	})

	logger.InfoContext(ctx, "room deleted")
	return nil
}

// GetRoom returns one room, read through the room-detail cache.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (persistence.Room, error) {
	if s == nil || s.rooms == nil {
		return persistence.Room{}, fmt.Errorf("room repository not configured")
	}

	key := cache.NewKey(cache.ClassRoomDetail, roomID)
	return cache.GetOrCompute(ctx, s.store, s.logger, key, func(ctx context.Context) (persistence.Room, error) {
		room, err := s.rooms.GetRoom(ctx, roomID)
		if err != nil {
			return persistence.Room{}, mapRoomRepoError(err)
		}
		return room, nil
	})
}

// ListHostRooms returns the caller's rooms, read through the per-host cache.
func (s *RoomService) ListHostRooms(ctx context.Context, principal Principal) ([]persistence.Room, error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room repository not configured")
	}

	key := cache.NewKey(cache.ClassUserRooms, principal.UserID)
	return cache.GetOrCompute(ctx, s.store, s.logger, key, func(ctx context.Context) ([]persistence.Room, error) {
		return s.rooms.ListRoomsByHost(ctx, principal.UserID)
	})
}

// GetHotel returns hotel reference data through the long-TTL hotel cache.
func (s *RoomService) GetHotel(ctx context.Context, hotelID string) (persistence.Hotel, error) {
	if s == nil || s.hotels == nil {
		return persistence.Hotel{}, fmt.Errorf("hotel catalog not configured")
	}

	key := cache.NewKey(cache.ClassHotel, hotelID)
	return cache.GetOrCompute(ctx, s.store, s.logger, key, func(ctx context.Context) (persistence.Hotel, error) {
		hotel, err := s.hotels.GetHotel(ctx, hotelID)
		if err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				return persistence.Hotel{}, ErrNotFound
			}
			return persistence.Hotel{}, err
		}
		return hotel, nil
	})
}

// ListHotels returns the hotel directory through the long-TTL hotel cache.
// Hotels are reference data with no mutation path in the API, so staleness is
// bounded by the cache TTL alone.
func (s *RoomService) ListHotels(ctx context.Context) ([]persistence.Hotel, error) {
	if s == nil || s.hotels == nil {
		return nil, fmt.Errorf("hotel catalog not configured")
	}

	key := cache.NewKey(cache.ClassHotel, "all")
	return cache.GetOrCompute(ctx, s.store, s.logger, key, func(ctx context.Context) ([]persistence.Hotel, error) {
		return s.hotels.ListHotels(ctx)
	})
}

// SearchRooms runs a cached, paginated room search.
func (s *RoomService) SearchRooms(ctx context.Context, params SearchRoomsParams) (SearchRoomsResult, error) {
	if s == nil || s.rooms == nil {
		return SearchRoomsResult{}, fmt.Errorf("room repository not configured")
	}

	vErr := &ValidationError{}
	if (params.CheckIn == nil) != (params.CheckOut == nil) {
		vErr.add("check_in_date", "check_in_date and check_out_date must be provided together")
	}
	if params.CheckIn != nil && params.CheckOut != nil {
		in := booking.NormalizeDate(*params.CheckIn)
		out := booking.NormalizeDate(*params.CheckOut)
		if !in.Before(out) {
			vErr.add("check_out_date", "check-out date must be after check-in date")
		}
		params.CheckIn = &in
		params.CheckOut = &out
	}
	if params.MinPrice != nil && params.MaxPrice != nil && params.MinPrice.GreaterThan(*params.MaxPrice) {
		vErr.add("min_price", "min_price cannot exceed max_price")
	}
	if vErr.HasErrors() {
		return SearchRoomsResult{}, vErr
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = defaultSearchLimit
	}
	if params.Limit > maxSearchLimit {
		params.Limit = maxSearchLimit
	}

	key := searchCacheKey(params)
	return cache.GetOrCompute(ctx, s.store, s.logger, key, func(ctx context.Context) (SearchRoomsResult, error) {
		rooms, total, err := s.rooms.SearchRooms(ctx, persistence.RoomSearch{
			City:     params.City,
			RoomType: params.RoomType,
			Guests:   params.Guests,
			MinPrice: params.MinPrice,
			MaxPrice: params.MaxPrice,
			CheckIn:  params.CheckIn,
			CheckOut: params.CheckOut,
			Limit:    params.Limit,
			Offset:   (params.Page - 1) * params.Limit,
		})
		if err != nil {
			return SearchRoomsResult{}, mapRoomRepoError(err)
		}

		pages := 0
		if total > 0 {
			pages = (total + params.Limit - 1) / params.Limit
		}
		return SearchRoomsResult{
			Rooms: rooms,
			Pagination: Pagination{
				Page:  params.Page,
				Limit: params.Limit,
				Total: total,
				Pages: pages,
			},
		}, nil
	})
}

// searchCacheKey builds the deterministic search key: a fixed parameter order
// with absent parameters omitted, so logically identical searches share an
// entry.
func searchCacheKey(params SearchRoomsParams) cache.Key {
	var checkIn, checkOut, guests, minPrice, maxPrice string
	if params.CheckIn != nil {
		checkIn = booking.FormatDate(*params.CheckIn)
	}
	if params.CheckOut != nil {
		checkOut = booking.FormatDate(*params.CheckOut)
	}
	if params.Guests != nil {
		guests = strconv.Itoa(*params.Guests)
	}
	if params.MinPrice != nil {
		minPrice = params.MinPrice.StringFixed(2)
	}
	if params.MaxPrice != nil {
		maxPrice = params.MaxPrice.StringFixed(2)
	}

	return cache.NewKey(cache.ClassSearch,
		checkIn,
		checkOut,
		guests,
		params.City,
		minPrice,
		maxPrice,
		params.RoomType,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
	)
}

func (s *RoomService) invalidate(ctx context.Context, mutation cache.Mutation) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.Invalidate(ctx, mutation)
}

func mapRoomRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		vErr := &ValidationError{}
		vErr.add("id", "room already exists")
		return vErr
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		vErr := &ValidationError{}
		vErr.add("hotel_id", "related records are missing")
		return vErr
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("capacity", "capacity must be positive")
		return vErr
	}
	return err
}
