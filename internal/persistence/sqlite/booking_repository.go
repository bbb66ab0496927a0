package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/booking-platform/internal/booking"
	"github.com/example/booking-platform/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
//
// Booking creation is the one operation with a real race: two requests may
// both find an interval free and insert. Every write transaction here begins
// with the database write lock (see normalizeDSN), so the room lookup,
// capacity check, overlap check, and insert execute as a single serialized
// unit; the losing writer observes the winner's row and fails the overlap
// check.
type BookingRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{pool: pool, mapper: NewErrorMapper()}
}

const bookingOverlapQuery = `
	SELECT COUNT(*)
	FROM bookings
	WHERE room_id = ?
	  AND status = 'confirmed'
	  AND check_in < ?
	  AND ? < check_out
`

// CreateBooking runs the check-and-insert sequence atomically and returns the
// persisted row. The total price is computed inside the transaction from the
// room row read under the same write lock.
func (r *BookingRepository) CreateBooking(ctx context.Context, create persistence.BookingCreate) (persistence.Booking, error) {
	if create.ID == "" {
		return persistence.Booking{}, persistence.ErrConstraintViolation
	}
	if !create.CheckIn.Before(create.CheckOut) {
		return persistence.Booking{}, persistence.ErrConstraintViolation
	}

	now := create.Now.UTC()
	if now.IsZero() {
		now = time.Now().UTC()
	}

	stored := persistence.Booking{
		ID:              create.ID,
		GuestID:         create.GuestID,
		RoomID:          create.RoomID,
		CheckIn:         create.CheckIn,
		CheckOut:        create.CheckOut,
		Guests:          create.Guests,
		Status:          persistence.BookingConfirmed,
		SpecialRequests: create.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var (
			priceStr  string
			capacity  int
			available bool
		)
		err := tx.QueryRowContext(ctx,
			"SELECT price_per_night, capacity, available FROM rooms WHERE id = ?",
			create.RoomID,
		).Scan(&priceStr, &capacity, &available)
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ErrNotFound
		}
		if err != nil {
			return r.mapper.MapError(err)
		}

		if !available {
			return persistence.ErrRoomUnavailable
		}
		if create.Guests > capacity {
			return &persistence.CapacityExceededError{Max: capacity}
		}

		var overlapping int
		err = tx.QueryRowContext(ctx, bookingOverlapQuery,
			create.RoomID,
			booking.FormatDate(create.CheckOut),
			booking.FormatDate(create.CheckIn),
		).Scan(&overlapping)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if overlapping > 0 {
			return persistence.ErrOverlap
		}

		nightly, err := decimal.NewFromString(priceStr)
		if err != nil {
			return fmt.Errorf("failed to parse price_per_night: %w", err)
		}
		stored.TotalPrice = booking.StayPrice(nightly, create.CheckIn, create.CheckOut)

		_, err = tx.ExecContext(ctx, `
			INSERT INTO bookings (id, guest_id, room_id, check_in, check_out, guests, total_price, status, special_requests, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			stored.ID,
			stored.GuestID,
			stored.RoomID,
			booking.FormatDate(stored.CheckIn),
			booking.FormatDate(stored.CheckOut),
			stored.Guests,
			stored.TotalPrice.StringFixed(2),
			string(stored.Status),
			stored.SpecialRequests,
			stored.CreatedAt.Format(time.RFC3339),
			stored.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return nil
	})
	if err != nil {
		return persistence.Booking{}, err
	}

	return stored, nil
}

// CancelBooking flips a confirmed booking to cancelled. The row is kept for
// audit; a second cancellation is rejected since the state is terminal.
func (r *BookingRepository) CancelBooking(ctx context.Context, id string, now time.Time) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	var cancelled persistence.Booking

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE bookings SET status = 'cancelled', updated_at = ? WHERE id = ? AND status = 'confirmed'",
			now.UTC().Format(time.RFC3339), id,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			var status string
			err := tx.QueryRowContext(ctx, "SELECT status FROM bookings WHERE id = ?", id).Scan(&status)
			if errors.Is(err, sql.ErrNoRows) {
				return persistence.ErrNotFound
			}
			if err != nil {
				return r.mapper.MapError(err)
			}
			return persistence.ErrConstraintViolation
		}

		cancelled, err = scanBookingRow(tx.QueryRowContext(ctx, bookingSelect+" WHERE id = ?", id))
		return err
	})
	if err != nil {
		return persistence.Booking{}, err
	}

	return cancelled, nil
}

const bookingSelect = `
	SELECT id, guest_id, room_id, check_in, check_out, guests, total_price, status, special_requests, created_at, updated_at
	FROM bookings
`

// GetBooking retrieves a booking by ID.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	stored, err := scanBookingRow(r.pool.db.QueryRowContext(ctx, bookingSelect+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, r.mapper.MapError(err)
	}
	return stored, nil
}

const bookingViewSelect = `
	SELECT b.id, b.guest_id, b.room_id, b.check_in, b.check_out, b.guests, b.total_price, b.status, b.special_requests, b.created_at, b.updated_at,
	       r.room_type, h.id, h.name, h.city
	FROM bookings b
	JOIN rooms r ON r.id = b.room_id
	JOIN hotels h ON h.id = r.hotel_id
`

// GetBookingView retrieves a booking joined with room and hotel display fields.
func (r *BookingRepository) GetBookingView(ctx context.Context, id string) (persistence.BookingView, error) {
	if id == "" {
		return persistence.BookingView{}, persistence.ErrNotFound
	}

	view, err := scanBookingView(r.pool.db.QueryRowContext(ctx, bookingViewSelect+" WHERE b.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.BookingView{}, persistence.ErrNotFound
		}
		return persistence.BookingView{}, r.mapper.MapError(err)
	}
	return view, nil
}

// ListBookingsByGuest returns all bookings for a guest, newest stay first.
func (r *BookingRepository) ListBookingsByGuest(ctx context.Context, guestID string) ([]persistence.BookingView, error) {
	rows, err := r.pool.db.QueryContext(ctx, bookingViewSelect+" WHERE b.guest_id = ? ORDER BY b.check_in DESC, b.id ASC", guestID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var views []persistence.BookingView
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return views, nil
}

// IsRoomAvailable reports whether no confirmed booking overlaps the half-open
// interval [checkIn, checkOut) for the room, excluding excludeBookingID when
// given. Callers on the write path must not rely on this outside the create
// transaction; it exists for availability reads.
func (r *BookingRepository) IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error) {
	query := bookingOverlapQuery
	args := []any{roomID, booking.FormatDate(checkOut), booking.FormatDate(checkIn)}
	if excludeBookingID != "" {
		query += " AND id != ?"
		args = append(args, excludeBookingID)
	}

	var overlapping int
	if err := r.pool.db.QueryRowContext(ctx, query, args...).Scan(&overlapping); err != nil {
		return false, r.mapper.MapError(err)
	}
	return overlapping == 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingRow(row rowScanner) (persistence.Booking, error) {
	var (
		stored                     persistence.Booking
		checkInStr, checkOutStr    string
		totalStr, statusStr        string
		createdAtStr, updatedAtStr string
	)

	err := row.Scan(
		&stored.ID,
		&stored.GuestID,
		&stored.RoomID,
		&checkInStr,
		&checkOutStr,
		&stored.Guests,
		&totalStr,
		&statusStr,
		&stored.SpecialRequests,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Booking{}, err
	}

	return finishBooking(stored, checkInStr, checkOutStr, totalStr, statusStr, createdAtStr, updatedAtStr)
}

func scanBookingView(row rowScanner) (persistence.BookingView, error) {
	var (
		view                       persistence.BookingView
		checkInStr, checkOutStr    string
		totalStr, statusStr        string
		createdAtStr, updatedAtStr string
	)

	err := row.Scan(
		&view.ID,
		&view.GuestID,
		&view.RoomID,
		&checkInStr,
		&checkOutStr,
		&view.Guests,
		&totalStr,
		&statusStr,
		&view.SpecialRequests,
		&createdAtStr,
		&updatedAtStr,
		&view.RoomType,
		&view.HotelID,
		&view.HotelName,
		&view.HotelCity,
	)
	if err != nil {
		return persistence.BookingView{}, err
	}

	stored, err := finishBooking(view.Booking, checkInStr, checkOutStr, totalStr, statusStr, createdAtStr, updatedAtStr)
	if err != nil {
		return persistence.BookingView{}, err
	}
	view.Booking = stored
	return view, nil
}

func finishBooking(stored persistence.Booking, checkInStr, checkOutStr, totalStr, statusStr, createdAtStr, updatedAtStr string) (persistence.Booking, error) {
	var err error
	if stored.CheckIn, err = booking.ParseDate(checkInStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse check_in: %w", err)
	}
	if stored.CheckOut, err = booking.ParseDate(checkOutStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse check_out: %w", err)
	}
	if stored.TotalPrice, err = decimal.NewFromString(totalStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse total_price: %w", err)
	}
	stored.Status = persistence.BookingStatus(statusStr)
	if stored.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if stored.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return stored, nil
}
