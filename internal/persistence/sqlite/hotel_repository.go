package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/booking-platform/internal/persistence"
)

// HotelRepository implements persistence.HotelRepository using SQLite.
type HotelRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewHotelRepository creates a new SQLite hotel repository.
func NewHotelRepository(pool *ConnectionPool) *HotelRepository {
	return &HotelRepository{pool: pool, mapper: NewErrorMapper()}
}

const hotelSelect = `
	SELECT id, host_id, name, city, created_at, updated_at
	FROM hotels
`

// CreateHotel inserts hotel reference data.
func (r *HotelRepository) CreateHotel(ctx context.Context, hotel persistence.Hotel) error {
	if hotel.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO hotels (id, host_id, name, city, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		hotel.ID,
		hotel.HostID,
		hotel.Name,
		hotel.City,
		hotel.CreatedAt.UTC().Format(time.RFC3339),
		hotel.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return r.mapper.MapError(err)
}

// GetHotel retrieves a hotel by ID.
func (r *HotelRepository) GetHotel(ctx context.Context, id string) (persistence.Hotel, error) {
	if id == "" {
		return persistence.Hotel{}, persistence.ErrNotFound
	}

	hotel, err := scanHotel(r.pool.db.QueryRowContext(ctx, hotelSelect+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Hotel{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Hotel{}, r.mapper.MapError(err)
	}
	return hotel, nil
}

// ListHotels returns all hotels ordered by name.
func (r *HotelRepository) ListHotels(ctx context.Context) ([]persistence.Hotel, error) {
	rows, err := r.pool.db.QueryContext(ctx, hotelSelect+" ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var hotels []persistence.Hotel
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		hotels = append(hotels, hotel)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return hotels, nil
}

func scanHotel(row rowScanner) (persistence.Hotel, error) {
	var (
		hotel                      persistence.Hotel
		createdAtStr, updatedAtStr string
	)

	err := row.Scan(&hotel.ID, &hotel.HostID, &hotel.Name, &hotel.City, &createdAtStr, &updatedAtStr)
	if err != nil {
		return persistence.Hotel{}, err
	}

	if hotel.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Hotel{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if hotel.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Hotel{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return hotel, nil
}
