package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/booking-platform/internal/booking"
	"github.com/example/booking-platform/internal/cache"
	"github.com/example/booking-platform/internal/persistence"
)

// BookingRepository captures the persistence interactions needed by the
// booking service. CreateBooking is the atomic unit: room lookup, capacity
// check, overlap check, and insert happen inside one transaction so two
// concurrent overlapping attempts never both pass.
type BookingRepository interface {
	CreateBooking(ctx context.Context, create persistence.BookingCreate) (persistence.Booking, error)
	CancelBooking(ctx context.Context, id string, now time.Time) (persistence.Booking, error)
	GetBooking(ctx context.Context, id string) (persistence.Booking, error)
	GetBookingView(ctx context.Context, id string) (persistence.BookingView, error)
	ListBookingsByGuest(ctx context.Context, guestID string) ([]persistence.BookingView, error)
	IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error)
}

// BookingService orchestrates validation, the atomic create transaction, and
// post-commit cache invalidation.
type BookingService struct {
	bookings    BookingRepository
	store       cache.Store
	invalidator *cache.Invalidator
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(bookings BookingRepository, store cache.Store, invalidator *cache.Invalidator, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		store:       store,
		invalidator: invalidator,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateBooking validates the request, commits the reservation atomically, and
// invalidates affected cache entries strictly after the commit.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (persistence.BookingView, error) {
	if s == nil || s.bookings == nil {
		return persistence.BookingView{}, fmt.Errorf("booking repository not configured")
	}

	input := params.Input
	principal := params.Principal
	logger := s.loggerWith(ctx, "CreateBooking", "room_id", input.RoomID, "guest_id", principal.UserID)

	today := booking.NormalizeDate(s.now())
	checkIn := booking.NormalizeDate(input.CheckIn)
	checkOut := booking.NormalizeDate(input.CheckOut)

	vErr := &ValidationError{}
	if input.RoomID == "" {
		vErr.add("room_id", "room_id is required")
	}
	if input.CheckIn.IsZero() {
		vErr.add("check_in_date", "check_in_date is required")
	} else if checkIn.Before(today) {
		vErr.add("check_in_date", "check-in date cannot be in the past")
	}
	if input.CheckOut.IsZero() {
		vErr.add("check_out_date", "check_out_date is required")
	} else if !input.CheckIn.IsZero() && !checkOut.After(checkIn) {
		vErr.add("check_out_date", "check-out date must be after check-in date")
	}
	if input.Guests < 1 {
		vErr.add("guests", "at least one guest is required")
	}
	if vErr.HasErrors() {
		return persistence.BookingView{}, vErr
	}

	created, err := s.bookings.CreateBooking(ctx, persistence.BookingCreate{
		ID:              s.idGenerator(),
		GuestID:         principal.UserID,
		RoomID:          input.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          input.Guests,
		SpecialRequests: input.SpecialRequests,
		Now:             s.now(),
	})
	if err != nil {
		mapped := mapBookingRepoError(err)
		logger.ErrorContext(ctx, "booking creation failed", "error", err, "error_kind", ErrorKind(mapped))
		return persistence.BookingView{}, mapped
	}

	// The write is committed; evicting before this point could leave a cold
	// cache for a value that never changed had the transaction failed.
	s.invalidate(ctx, cache.Mutation{
		Kind:       cache.MutationBookingCreated,
		RoomID:     created.RoomID,
		GuestID:    created.GuestID,
		BookingIDs: []string{created.ID},
	})

	logger.InfoContext(ctx, "booking confirmed",
		"booking_id", created.ID,
		"check_in", booking.FormatDate(created.CheckIn),
		"check_out", booking.FormatDate(created.CheckOut),
		"total_price", created.TotalPrice.StringFixed(2),
	)

	view, err := s.bookings.GetBookingView(ctx, created.ID)
	if err != nil {
		logger.WarnContext(ctx, "failed to load booking view after commit", "booking_id", created.ID, "error", err)
		return persistence.BookingView{Booking: created}, nil
	}
	return view, nil
}

// CancelBooking transitions a confirmed booking to the terminal cancelled
// state. The row is retained for audit.
func (s *BookingService) CancelBooking(ctx context.Context, principal Principal, bookingID string) (persistence.BookingView, error) {
	if s == nil || s.bookings == nil {
		return persistence.BookingView{}, fmt.Errorf("booking repository not configured")
	}

	logger := s.loggerWith(ctx, "CancelBooking", "booking_id", bookingID, "guest_id", principal.UserID)

	existing, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return persistence.BookingView{}, mapBookingRepoError(err)
	}
	if existing.GuestID != principal.UserID && !principal.IsAdmin {
		// Bookings of other guests are invisible, not forbidden.
		return persistence.BookingView{}, ErrNotFound
	}

	today := booking.NormalizeDate(s.now())
	if existing.CheckIn.Before(today) {
		vErr := &ValidationError{}
		vErr.add("check_in_date", "cannot cancel past bookings")
		return persistence.BookingView{}, vErr
	}
	if existing.Status == persistence.BookingCancelled {
		vErr := &ValidationError{}
		vErr.add("status", "booking is already cancelled")
		return persistence.BookingView{}, vErr
	}

	cancelled, err := s.bookings.CancelBooking(ctx, bookingID, s.now())
	if err != nil {
		mapped := mapBookingRepoError(err)
		logger.ErrorContext(ctx, "booking cancellation failed", "error", err, "error_kind", ErrorKind(mapped))
		return persistence.BookingView{}, mapped
	}

	s.invalidate(ctx, cache.Mutation{
		Kind:       cache.MutationBookingCancelled,
		RoomID:     cancelled.RoomID,
		GuestID:    cancelled.GuestID,
		BookingIDs: []string{cancelled.ID},
	})

	logger.InfoContext(ctx, "booking cancelled")

	view, err := s.bookings.GetBookingView(ctx, cancelled.ID)
	if err != nil {
		logger.WarnContext(ctx, "failed to load booking view after cancel", "error", err)
		return persistence.BookingView{Booking: cancelled}, nil
	}
	return view, nil
}

// GetBooking returns one booking view, read through the per-user cache.
func (s *BookingService) GetBooking(ctx context.Context, principal Principal, bookingID string) (persistence.BookingView, error) {
	if s == nil || s.bookings == nil {
		return persistence.BookingView{}, fmt.Errorf("booking repository not configured")
	}

	key := cache.NewKey(cache.ClassBookingDetail, principal.UserID, bookingID)
	return cache.GetOrCompute(ctx, s.store, s.logger, key, func(ctx context.Context) (persistence.BookingView, error) {
		view, err := s.bookings.GetBookingView(ctx, bookingID)
		if err != nil {
			return persistence.BookingView{}, mapBookingRepoError(err)
		}
		if view.GuestID != principal.UserID && !principal.IsAdmin {
			return persistence.BookingView{}, ErrNotFound
		}
		return view, nil
	})
}

// ListBookings returns the guest's bookings, read through the per-user cache.
func (s *BookingService) ListBookings(ctx context.Context, principal Principal) ([]persistence.BookingView, error) {
	if s == nil || s.bookings == nil {
		return nil, fmt.Errorf("booking repository not configured")
	}

	key := cache.NewKey(cache.ClassUserBookings, principal.UserID)
	return cache.GetOrCompute(ctx, s.store, s.logger, key, func(ctx context.Context) ([]persistence.BookingView, error) {
		views, err := s.bookings.ListBookingsByGuest(ctx, principal.UserID)
		if err != nil {
			return nil, mapBookingRepoError(err)
		}
		return views, nil
	})
}

// IsAvailable reports whether the room is free for [checkIn, checkOut),
// optionally ignoring one booking (used when a caller reconsiders its own
// reservation). Reads outside the create transaction are advisory only.
func (s *BookingService) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error) {
	if s == nil || s.bookings == nil {
		return false, fmt.Errorf("booking repository not configured")
	}

	checkIn = booking.NormalizeDate(checkIn)
	checkOut = booking.NormalizeDate(checkOut)
	if !checkIn.Before(checkOut) {
		vErr := &ValidationError{}
		vErr.add("check_out_date", "check-out date must be after check-in date")
		return false, vErr
	}

	available, err := s.bookings.IsRoomAvailable(ctx, roomID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return false, mapBookingRepoError(err)
	}
	return available, nil
}

func (s *BookingService) invalidate(ctx context.Context, mutation cache.Mutation) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.Invalidate(ctx, mutation)
}

func mapBookingRepoError(err error) error {
	if err == nil {
		return nil
	}

	var capErr *persistence.CapacityExceededError
	switch {
	case errors.Is(err, persistence.ErrNotFound), errors.Is(err, persistence.ErrRoomUnavailable):
		return ErrNotFound
	case errors.Is(err, persistence.ErrOverlap):
		return ErrConflict
	case errors.As(err, &capErr):
		return &CapacityError{Max: capErr.Max}
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("booking", "booking state does not permit this operation")
		return vErr
	}
	return err
}
