package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/booking-platform/internal/booking"
	"github.com/example/booking-platform/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{pool: pool, mapper: NewErrorMapper()}
}

const roomSelect = `
	SELECT id, hotel_id, host_id, room_type, description, price_per_night, capacity, available, amenities, created_at, updated_at
	FROM rooms
`

// Prices are stored as fixed two-decimal strings, so stripping the separator
// yields the exact integer cent value for filtering and ordering.
const priceCentsExpr = "CAST(REPLACE(r.price_per_night, '.', '') AS INTEGER)"

func priceToCents(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}

// CreateRoom inserts a new room listing.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" || room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}

	amenities, err := encodeAmenities(room.Amenities)
	if err != nil {
		return err
	}

	_, err = r.pool.db.ExecContext(ctx, `
		INSERT INTO rooms (id, hotel_id, host_id, room_type, description, price_per_night, capacity, available, amenities, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		room.ID,
		room.HotelID,
		room.HostID,
		room.RoomType,
		room.Description,
		room.PricePerNight.StringFixed(2),
		room.Capacity,
		room.Available,
		amenities,
		room.CreatedAt.UTC().Format(time.RFC3339),
		room.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return r.mapper.MapError(err)
}

// UpdateRoom applies only the allow-listed fields carried by update. Identity
// and ownership columns have no corresponding field and can never change here.
func (r *RoomRepository) UpdateRoom(ctx context.Context, id string, update persistence.RoomUpdate, now time.Time) (persistence.Room, error) {
	if id == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	setClauses := make([]string, 0, 6)
	args := make([]any, 0, 8)

	if update.RoomType != nil {
		setClauses = append(setClauses, "room_type = ?")
		args = append(args, *update.RoomType)
	}
	if update.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, *update.Description)
	}
	if update.PricePerNight != nil {
		setClauses = append(setClauses, "price_per_night = ?")
		args = append(args, update.PricePerNight.StringFixed(2))
	}
	if update.Capacity != nil {
		setClauses = append(setClauses, "capacity = ?")
		args = append(args, *update.Capacity)
	}
	if update.Available != nil {
		setClauses = append(setClauses, "available = ?")
		args = append(args, *update.Available)
	}
	if update.Amenities != nil {
		amenities, err := encodeAmenities(update.Amenities)
		if err != nil {
			return persistence.Room{}, err
		}
		setClauses = append(setClauses, "amenities = ?")
		args = append(args, amenities)
	}

	var updated persistence.Room

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if len(setClauses) > 0 {
			setClauses = append(setClauses, "updated_at = ?")
			args = append(args, now.UTC().Format(time.RFC3339), id)

			result, err := tx.ExecContext(ctx,
				"UPDATE rooms SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
			if err != nil {
				return r.mapper.MapError(err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			if affected == 0 {
				return persistence.ErrNotFound
			}
		}

		var err error
		updated, err = scanRoom(tx.QueryRowContext(ctx, roomSelect+" WHERE id = ?", id))
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ErrNotFound
		}
		return err
	})
	if err != nil {
		return persistence.Room{}, err
	}

	return updated, nil
}

// GetRoom retrieves a room by ID.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if id == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	room, err := scanRoom(r.pool.db.QueryRowContext(ctx, roomSelect+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Room{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Room{}, r.mapper.MapError(err)
	}
	return room, nil
}

// ListRoomsByHost returns all rooms owned by the host.
func (r *RoomRepository) ListRoomsByHost(ctx context.Context, hostID string) ([]persistence.Room, error) {
	rows, err := r.pool.db.QueryContext(ctx, roomSelect+" WHERE host_id = ? ORDER BY created_at ASC, id ASC", hostID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return collectRooms(rows)
}

// SearchRooms applies the filter set and returns one page of rooms plus the
// unpaginated total. When a date range is present, rooms with a conflicting
// confirmed booking are excluded with the same half-open overlap predicate the
// booking transaction enforces.
func (r *RoomRepository) SearchRooms(ctx context.Context, search persistence.RoomSearch) ([]persistence.Room, int, error) {
	conditions := []string{"r.available = 1"}
	var args []any

	if search.City != "" {
		conditions = append(conditions, "h.city = ? COLLATE NOCASE")
		args = append(args, search.City)
	}
	if search.RoomType != "" {
		conditions = append(conditions, "r.room_type = ?")
		args = append(args, search.RoomType)
	}
	if search.Guests != nil {
		conditions = append(conditions, "r.capacity >= ?")
		args = append(args, *search.Guests)
	}
	if search.MinPrice != nil {
		conditions = append(conditions, priceCentsExpr+" >= ?")
		args = append(args, priceToCents(*search.MinPrice))
	}
	if search.MaxPrice != nil {
		conditions = append(conditions, priceCentsExpr+" <= ?")
		args = append(args, priceToCents(*search.MaxPrice))
	}
	if search.CheckIn != nil && search.CheckOut != nil {
		conditions = append(conditions, `NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.room_id = r.id
			  AND b.status = 'confirmed'
			  AND b.check_in < ?
			  AND ? < b.check_out
		)`)
		args = append(args, booking.FormatDate(*search.CheckOut), booking.FormatDate(*search.CheckIn))
	}

	where := " WHERE " + strings.Join(conditions, " AND ")
	fromClause := " FROM rooms r JOIN hotels h ON h.id = r.hotel_id"

	var total int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*)"+fromClause+where, args...).Scan(&total); err != nil {
		return nil, 0, r.mapper.MapError(err)
	}

	query := `SELECT r.id, r.hotel_id, r.host_id, r.room_type, r.description, r.price_per_night, r.capacity, r.available, r.amenities, r.created_at, r.updated_at` +
		fromClause + where + " ORDER BY " + priceCentsExpr + " ASC, r.id ASC LIMIT ? OFFSET ?"
	args = append(args, search.Limit, search.Offset)

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, r.mapper.MapError(err)
	}
	defer rows.Close()

	rooms, err := collectRooms(rows)
	if err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

// DeleteRoom removes a room listing. Bookings of the room are removed with it
// via the cascading foreign key.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func collectRooms(rows *sql.Rows) ([]persistence.Room, error) {
	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rooms, nil
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var (
		room                       persistence.Room
		priceStr, amenitiesStr     string
		createdAtStr, updatedAtStr string
	)

	err := row.Scan(
		&room.ID,
		&room.HotelID,
		&room.HostID,
		&room.RoomType,
		&room.Description,
		&priceStr,
		&room.Capacity,
		&room.Available,
		&amenitiesStr,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Room{}, err
	}

	if room.PricePerNight, err = decimal.NewFromString(priceStr); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse price_per_night: %w", err)
	}
	if room.Amenities, err = decodeAmenities(amenitiesStr); err != nil {
		return persistence.Room{}, err
	}
	if room.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if room.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return room, nil
}

// encodeAmenities stores the amenity set as a sorted, de-duplicated JSON array
// so logically equal sets serialize identically.
func encodeAmenities(amenities []string) (string, error) {
	seen := make(map[string]struct{}, len(amenities))
	normalized := make([]string, 0, len(amenities))
	for _, amenity := range amenities {
		amenity = strings.TrimSpace(amenity)
		if amenity == "" {
			continue
		}
		if _, ok := seen[amenity]; ok {
			continue
		}
		seen[amenity] = struct{}{}
		normalized = append(normalized, amenity)
	}
	sort.Strings(normalized)

	encoded, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("failed to encode amenities: %w", err)
	}
	return string(encoded), nil
}

func decodeAmenities(value string) ([]string, error) {
	if value == "" {
		return nil, nil
	}
	var amenities []string
	if err := json.Unmarshal([]byte(value), &amenities); err != nil {
		return nil, fmt.Errorf("failed to decode amenities: %w", err)
	}
	if len(amenities) == 0 {
		return nil, nil
	}
	return amenities, nil
}
