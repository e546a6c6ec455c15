package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/reserve"
)

const bookingColumns = `id, restaurant_id, table_id, guest_name, guest_email, guest_phone,
start_at, duration_minutes, party_size, status, special_requests, created_at, updated_at`

func scanBooking(row db.Row) (reserve.Booking, error) {
	var b reserve.Booking
	var status string
	err := row.Scan(&b.ID, &b.RestaurantID, &b.TableID, &b.Guest.Name, &b.Guest.Email, &b.Guest.Phone,
		&b.Start, &b.DurationMinutes, &b.PartySize, &status, &b.SpecialRequests, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return reserve.Booking{}, err
	}
	b.Status = reserve.BookingStatus(status)
	return b, nil
}

// InsertBooking commits a new booking. The bookings_no_overlap exclusion
// constraint turns a lost reservation race into ErrReservationConflict.
func (s *Store) InsertBooking(ctx context.Context, b reserve.Booking) error {
	err := s.db.Exec(ctx, `
INSERT INTO bookings(id, restaurant_id, table_id, guest_name, guest_email, guest_phone,
  start_at, duration_minutes, party_size, status, special_requests, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		b.ID, b.RestaurantID, b.TableID, b.Guest.Name, b.Guest.Email, b.Guest.Phone,
		b.Start, b.DurationMinutes, b.PartySize, string(b.Status), b.SpecialRequests, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return db.WrapConflict(err)
	}
	return nil
}

// MoveBooking updates the booking's (table, interval, party) in one statement,
// releasing the old interval and acquiring the new one atomically. Conflicts
// surface the same way as on insert.
func (s *Store) MoveBooking(ctx context.Context, b reserve.Booking) error {
	err := s.db.Exec(ctx, `
UPDATE bookings
SET table_id=$2, start_at=$3, duration_minutes=$4, party_size=$5, updated_at=$6
WHERE id=$1`,
		b.ID, b.TableID, b.Start, b.DurationMinutes, b.PartySize, b.UpdatedAt)
	if err != nil {
		return db.WrapConflict(err)
	}
	return nil
}

// Booking fetches one booking by id.
func (s *Store) Booking(ctx context.Context, id uuid.UUID) (reserve.Booking, error) {
	b, err := scanBooking(s.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		return reserve.Booking{}, db.WrapNotFound(err)
	}
	return b, nil
}

// SetBookingStatus applies a status transition already validated by the caller.
func (s *Store) SetBookingStatus(ctx context.Context, id uuid.UUID, status reserve.BookingStatus, updatedAt time.Time) error {
	return s.db.Exec(ctx, `UPDATE bookings SET status=$2, updated_at=$3 WHERE id=$1`,
		id, string(status), updatedAt)
}

// ActiveBookingsByTable snapshots the active bookings whose occupancy interval
// overlaps the window, grouped by table.
func (s *Store) ActiveBookingsByTable(ctx context.Context, restaurantID uuid.UUID, window reserve.Interval) (map[uuid.UUID][]reserve.Booking, error) {
	rows, err := s.db.Query(ctx, `
SELECT `+bookingColumns+`
FROM bookings
WHERE restaurant_id=$1
  AND status IN ('pending','confirmed','seated')
  AND start_at < $3
  AND start_at + make_interval(mins => duration_minutes) > $2
ORDER BY start_at`, restaurantID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]reserve.Booking)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out[b.TableID] = append(out[b.TableID], b)
	}
	return out, rows.Err()
}

// BookingsForDay lists a restaurant's bookings starting inside [dayStart, dayEnd).
func (s *Store) BookingsForDay(ctx context.Context, restaurantID uuid.UUID, dayStart, dayEnd time.Time) ([]reserve.Booking, error) {
	rows, err := s.db.Query(ctx, `
SELECT `+bookingColumns+`
FROM bookings
WHERE restaurant_id=$1 AND start_at >= $2 AND start_at < $3
ORDER BY start_at`, restaurantID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reserve.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
